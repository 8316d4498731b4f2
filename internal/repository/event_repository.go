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

// EventRepository manages persistence for calendar events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventListBase = `FROM events ev
LEFT JOIN classes c ON c.id = ev.class_id`

// List returns one page of events matching the predicate plus the total
// count, taken from the same read snapshot.
func (r *EventRepository) List(ctx context.Context, pred scope.Predicate, page int) ([]models.EventRow, int, error) {
	base := eventListBase + pred.Clause()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin event list tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.GetContext(ctx, &total, "SELECT COUNT(*) "+base, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := fmt.Sprintf(`SELECT ev.id, ev.title, ev.description, ev.start_time, ev.end_time, ev.class_id,
        c.name AS class_name
        %s ORDER BY ev.start_time DESC LIMIT %d OFFSET %d`, base, scope.PageSize, scope.Offset(page))

	var events []models.EventRow
	if err := tx.SelectContext(ctx, &events, query, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit event list tx: %w", err)
	}
	return events, total, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	const query = `INSERT INTO events (id, title, description, start_time, end_time, class_id)
        VALUES (:id, :title, :description, :start_time, :end_time, :class_id)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update modifies an existing event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) (int64, error) {
	const query = `UPDATE events SET title = :title, description = :description, start_time = :start_time, end_time = :end_time, class_id = :class_id WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return 0, fmt.Errorf("update event: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes an event by id.
func (r *EventRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete event: %w", err)
	}
	return res.RowsAffected()
}
