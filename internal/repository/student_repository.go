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

// StudentRepository manages persistence for students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentListBase = `FROM students st
JOIN classes c ON c.id = st.class_id`

// List returns one page of students matching the predicate plus the total
// count, taken from the same read snapshot.
func (r *StudentRepository) List(ctx context.Context, pred scope.Predicate, page int) ([]models.StudentRow, int, error) {
	base := studentListBase + pred.Clause()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin student list tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.GetContext(ctx, &total, "SELECT COUNT(*) "+base, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	query := fmt.Sprintf(`SELECT st.id, st.username, st.name, st.surname, st.email, st.phone, st.address, st.img,
        st.blood_type, st.sex, st.birthday, st.grade_id, st.class_id, st.parent_id, st.created_at,
        c.name AS class_name
        %s ORDER BY st.name LIMIT %d OFFSET %d`, base, scope.PageSize, scope.Offset(page))

	var students []models.StudentRow
	if err := tx.SelectContext(ctx, &students, query, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit student list tx: %w", err)
	}
	return students, total, nil
}

// CreateIfClassHasRoom inserts the student only while the target class still
// has a free seat. The capacity check and the insert are one statement, so
// two concurrent enrollments cannot jointly overshoot capacity. Zero rows
// affected means the class is full (or does not exist).
func (r *StudentRepository) CreateIfClassHasRoom(ctx context.Context, student *models.Student) (int64, error) {
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO students (id, username, name, surname, email, phone, address, img, blood_type, sex, birthday, grade_id, class_id, parent_id, created_at)
        SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
        WHERE (SELECT COUNT(*) FROM students WHERE class_id = $13)
            < COALESCE((SELECT capacity FROM classes WHERE id = $13), 0)`
	res, err := r.db.ExecContext(ctx, query,
		student.ID, student.Username, student.Name, student.Surname, student.Email, student.Phone,
		student.Address, student.Img, student.BloodType, student.Sex, student.Birthday,
		student.GradeID, student.ClassID, student.ParentID, student.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("create student: %w", err)
	}
	return res.RowsAffected()
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) (int64, error) {
	const query = `UPDATE students SET username = :username, name = :name, surname = :surname, email = :email,
        phone = :phone, address = :address, img = :img, blood_type = :blood_type, sex = :sex,
        birthday = :birthday, grade_id = :grade_id, class_id = :class_id, parent_id = :parent_id
        WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return 0, fmt.Errorf("update student: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes a student by id.
func (r *StudentRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete student: %w", err)
	}
	return res.RowsAffected()
}
