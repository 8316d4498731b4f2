package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
)

// ResultRepository reads result rows with both assessment sides joined in.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs a ResultRepository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

const resultListBase = `FROM results r
JOIN students st ON st.id = r.student_id
LEFT JOIN exams ex ON ex.id = r.exam_id
LEFT JOIN lessons el ON el.id = ex.lesson_id
LEFT JOIN classes ec ON ec.id = el.class_id
LEFT JOIN teachers et ON et.id = el.teacher_id
LEFT JOIN assignments asg ON asg.id = r.assignment_id
LEFT JOIN lessons al ON al.id = asg.lesson_id
LEFT JOIN classes ac ON ac.id = al.class_id
LEFT JOIN teachers at ON at.id = al.teacher_id`

// List returns one page of raw result rows plus the total count from the same
// read snapshot. Assessment resolution (and the skip of rows where both sides
// are null) happens in the service layer.
func (r *ResultRepository) List(ctx context.Context, pred scope.Predicate, page int) ([]models.ResultRow, int, error) {
	base := resultListBase + pred.Clause()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin result list tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.GetContext(ctx, &total, "SELECT COUNT(*) "+base, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}

	query := fmt.Sprintf(`SELECT r.id, r.score, r.student_id,
        st.name AS student_name, st.surname AS student_surname,
        r.exam_id, ex.title AS exam_title, ex.start_time AS exam_start,
        ec.name AS exam_class, et.name AS exam_teacher, et.surname AS exam_teacher_surname,
        r.assignment_id, asg.title AS assignment_title, asg.start_date AS assignment_start,
        ac.name AS assignment_class, at.name AS assignment_teacher, at.surname AS assignment_teacher_surname
        %s ORDER BY r.id LIMIT %d OFFSET %d`, base, scope.PageSize, scope.Offset(page))

	var results []models.ResultRow
	if err := tx.SelectContext(ctx, &results, query, pred.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit result list tx: %w", err)
	}
	return results, total, nil
}
