package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
)

// ParentRepository reads parent directory rows.
type ParentRepository struct {
	db *sqlx.DB
}

// NewParentRepository constructs a ParentRepository.
func NewParentRepository(db *sqlx.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

const parentListBase = `FROM parents p`

// List returns one page of parents matching the predicate plus the total
// count, taken from the same read snapshot.
func (r *ParentRepository) List(ctx context.Context, pred scope.Predicate, page int) ([]models.Parent, int, error) {
	base := parentListBase + pred.Clause()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin parent list tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.GetContext(ctx, &total, "SELECT COUNT(*) "+base, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count parents: %w", err)
	}

	query := fmt.Sprintf(`SELECT p.id, p.username, p.name, p.surname, p.email, p.phone, p.address, p.created_at
        %s ORDER BY p.name LIMIT %d OFFSET %d`, base, scope.PageSize, scope.Offset(page))

	var parents []models.Parent
	if err := tx.SelectContext(ctx, &parents, query, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list parents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit parent list tx: %w", err)
	}
	return parents, total, nil
}
