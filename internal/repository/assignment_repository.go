package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
)

// AssignmentRepository manages persistence for assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentListBase = `FROM assignments a
JOIN lessons l ON l.id = a.lesson_id
JOIN subjects sub ON sub.id = l.subject_id
JOIN classes c ON c.id = l.class_id
JOIN teachers t ON t.id = l.teacher_id`

// List returns one page of assignments matching the predicate plus the total
// count, both taken from the same read snapshot. The start/due dates are
// projected onto the shared assessment row shape.
func (r *AssignmentRepository) List(ctx context.Context, pred scope.Predicate, page int) ([]models.AssessmentRow, int, error) {
	base := assignmentListBase + pred.Clause()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin assignment list tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.GetContext(ctx, &total, "SELECT COUNT(*) "+base, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	query := fmt.Sprintf(`SELECT a.id, a.title, a.start_date AS start_time, a.due_date AS end_time, a.lesson_id,
        sub.name AS subject_name, c.name AS class_name, t.name AS teacher_name, t.surname AS teacher_surname
        %s ORDER BY a.due_date DESC LIMIT %d OFFSET %d`, base, scope.PageSize, scope.Offset(page))

	var assignments []models.AssessmentRow
	if err := tx.SelectContext(ctx, &assignments, query, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit assignment list tx: %w", err)
	}
	return assignments, total, nil
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	const query = `INSERT INTO assignments (id, title, start_date, due_date, lesson_id)
        VALUES (:id, :title, :start_date, :due_date, :lesson_id)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update modifies an existing assignment. Returns the number of rows touched.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) (int64, error) {
	const query = `UPDATE assignments SET title = :title, start_date = :start_date, due_date = :due_date, lesson_id = :lesson_id WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, assignment)
	if err != nil {
		return 0, fmt.Errorf("update assignment: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes an assignment, optionally scoped to a teacher's own lessons.
func (r *AssignmentRepository) Delete(ctx context.Context, id, ownerTeacherID string) (int64, error) {
	query := "DELETE FROM assignments WHERE id = $1"
	args := []interface{}{id}
	if ownerTeacherID != "" {
		query += " AND lesson_id IN (SELECT id FROM lessons WHERE teacher_id = $2)"
		args = append(args, ownerTeacherID)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete assignment: %w", err)
	}
	return res.RowsAffected()
}
