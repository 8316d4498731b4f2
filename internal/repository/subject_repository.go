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

// SubjectRepository manages persistence for subjects and their teacher links.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

const subjectListBase = `FROM subjects sub`

// List returns one page of subjects matching the predicate plus the total
// count, taken from the same read snapshot. Teacher names are aggregated into
// a single display column.
func (r *SubjectRepository) List(ctx context.Context, pred scope.Predicate, page int) ([]models.SubjectRow, int, error) {
	base := subjectListBase + pred.Clause()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin subject list tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.GetContext(ctx, &total, "SELECT COUNT(*) "+base, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}

	query := fmt.Sprintf(`SELECT sub.id, sub.name,
        COALESCE((SELECT STRING_AGG(t.name || ' ' || t.surname, ', ' ORDER BY t.name)
            FROM subject_teachers stc JOIN teachers t ON t.id = stc.teacher_id
            WHERE stc.subject_id = sub.id), '') AS teacher_names
        %s ORDER BY sub.name LIMIT %d OFFSET %d`, base, scope.PageSize, scope.Offset(page))

	var subjects []models.SubjectRow
	if err := tx.SelectContext(ctx, &subjects, query, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit subject list tx: %w", err)
	}
	return subjects, total, nil
}

// Create inserts a subject and connects its teachers in one transaction.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject, teacherIDs []string) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin subject create tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "INSERT INTO subjects (id, name) VALUES ($1, $2)", subject.ID, subject.Name); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	for _, teacherID := range teacherIDs {
		if _, err := tx.ExecContext(ctx, "INSERT INTO subject_teachers (subject_id, teacher_id) VALUES ($1, $2)", subject.ID, teacherID); err != nil {
			return fmt.Errorf("link subject teacher: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit subject create tx: %w", err)
	}
	return nil
}

// Update renames a subject and replaces its teacher set in one transaction.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject, teacherIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin subject update tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "UPDATE subjects SET name = $2 WHERE id = $1", subject.ID, subject.Name)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update subject: %w", err)
	} else if affected == 0 {
		return sql.ErrNoRows
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM subject_teachers WHERE subject_id = $1", subject.ID); err != nil {
		return fmt.Errorf("clear subject teachers: %w", err)
	}
	for _, teacherID := range teacherIDs {
		if _, err := tx.ExecContext(ctx, "INSERT INTO subject_teachers (subject_id, teacher_id) VALUES ($1, $2)", subject.ID, teacherID); err != nil {
			return fmt.Errorf("link subject teacher: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit subject update tx: %w", err)
	}
	return nil
}

// Delete removes a subject by id.
func (r *SubjectRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM subjects WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete subject: %w", err)
	}
	return res.RowsAffected()
}
