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

// ExamRepository manages persistence for exams.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

const examListBase = `FROM exams ex
JOIN lessons l ON l.id = ex.lesson_id
JOIN subjects sub ON sub.id = l.subject_id
JOIN classes c ON c.id = l.class_id
JOIN teachers t ON t.id = l.teacher_id`

// List returns one page of exams matching the predicate plus the total count.
// Both queries run inside a single read transaction so the count and the page
// observe the same snapshot.
func (r *ExamRepository) List(ctx context.Context, pred scope.Predicate, page int) ([]models.AssessmentRow, int, error) {
	base := examListBase + pred.Clause()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin exam list tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.GetContext(ctx, &total, "SELECT COUNT(*) "+base, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count exams: %w", err)
	}

	query := fmt.Sprintf(`SELECT ex.id, ex.title, ex.start_time, ex.end_time, ex.lesson_id,
        sub.name AS subject_name, c.name AS class_name, t.name AS teacher_name, t.surname AS teacher_surname
        %s ORDER BY ex.start_time DESC LIMIT %d OFFSET %d`, base, scope.PageSize, scope.Offset(page))

	var exams []models.AssessmentRow
	if err := tx.SelectContext(ctx, &exams, query, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list exams: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit exam list tx: %w", err)
	}
	return exams, total, nil
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	const query = `INSERT INTO exams (id, title, start_time, end_time, lesson_id)
        VALUES (:id, :title, :start_time, :end_time, :lesson_id)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// Update modifies an existing exam. Returns the number of rows touched.
func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) (int64, error) {
	const query = `UPDATE exams SET title = :title, start_time = :start_time, end_time = :end_time, lesson_id = :lesson_id WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, exam)
	if err != nil {
		return 0, fmt.Errorf("update exam: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes an exam by id. When ownerTeacherID is non-empty the delete
// is scoped to exams whose lesson belongs to that teacher, so a non-owner
// observes zero rows affected, the same as not-found.
func (r *ExamRepository) Delete(ctx context.Context, id, ownerTeacherID string) (int64, error) {
	query := "DELETE FROM exams WHERE id = $1"
	args := []interface{}{id}
	if ownerTeacherID != "" {
		query += " AND lesson_id IN (SELECT id FROM lessons WHERE teacher_id = $2)"
		args = append(args, ownerTeacherID)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete exam: %w", err)
	}
	return res.RowsAffected()
}
