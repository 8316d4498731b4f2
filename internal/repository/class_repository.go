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

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classListBase = `FROM classes c
LEFT JOIN teachers sup ON sup.id = c.supervisor_id
JOIN grades g ON g.id = c.grade_id`

// List returns one page of classes matching the predicate plus the total
// count, taken from the same read snapshot.
func (r *ClassRepository) List(ctx context.Context, pred scope.Predicate, page int) ([]models.ClassRow, int, error) {
	base := classListBase + pred.Clause()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin class list tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.GetContext(ctx, &total, "SELECT COUNT(*) "+base, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}

	query := fmt.Sprintf(`SELECT c.id, c.name, c.capacity, c.supervisor_id, c.grade_id,
        sup.name AS supervisor_name, sup.surname AS supervisor_surname, g.level AS grade_level
        %s ORDER BY c.name LIMIT %d OFFSET %d`, base, scope.PageSize, scope.Offset(page))

	var classes []models.ClassRow
	if err := tx.SelectContext(ctx, &classes, query, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit class list tx: %w", err)
	}
	return classes, total, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	const query = `INSERT INTO classes (id, name, capacity, supervisor_id, grade_id)
        VALUES (:id, :name, :capacity, :supervisor_id, :grade_id)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies an existing class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) (int64, error) {
	const query = `UPDATE classes SET name = :name, capacity = :capacity, supervisor_id = :supervisor_id, grade_id = :grade_id WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, class)
	if err != nil {
		return 0, fmt.Errorf("update class: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes a class by id.
func (r *ClassRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM classes WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete class: %w", err)
	}
	return res.RowsAffected()
}
