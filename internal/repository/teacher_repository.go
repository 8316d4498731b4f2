package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
)

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherListBase = `FROM teachers t`

// List returns one page of teachers matching the predicate plus the total
// count, taken from the same read snapshot.
func (r *TeacherRepository) List(ctx context.Context, pred scope.Predicate, page int) ([]models.Teacher, int, error) {
	base := teacherListBase + pred.Clause()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin teacher list tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.GetContext(ctx, &total, "SELECT COUNT(*) "+base, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}

	query := fmt.Sprintf(`SELECT t.id, t.username, t.name, t.surname, t.email, t.phone, t.address, t.img,
        t.blood_type, t.sex, t.birthday, t.created_at
        %s ORDER BY t.name LIMIT %d OFFSET %d`, base, scope.PageSize, scope.Offset(page))

	var teachers []models.Teacher
	if err := tx.SelectContext(ctx, &teachers, query, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit teacher list tx: %w", err)
	}
	return teachers, total, nil
}

// Create inserts a new teacher keyed by its identity-provider account id.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teachers (id, username, name, surname, email, phone, address, img, blood_type, sex, birthday, created_at)
        VALUES (:id, :username, :name, :surname, :email, :phone, :address, :img, :blood_type, :sex, :birthday, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update modifies an existing teacher.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) (int64, error) {
	const query = `UPDATE teachers SET username = :username, name = :name, surname = :surname, email = :email,
        phone = :phone, address = :address, img = :img, blood_type = :blood_type, sex = :sex, birthday = :birthday
        WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, teacher)
	if err != nil {
		return 0, fmt.Errorf("update teacher: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes a teacher by id.
func (r *TeacherRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM teachers WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete teacher: %w", err)
	}
	return res.RowsAffected()
}
