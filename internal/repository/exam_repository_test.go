package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestExamRepositoryListCountsAndFetchesInOneTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	pred := scope.Compute(scope.Exams, models.Identity{Role: models.RoleAdmin, UserID: "a1"}, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM exams`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	rows := sqlmock.NewRows([]string{"id", "title", "start_time", "end_time", "lesson_id", "subject_name", "class_name", "teacher_name", "teacher_surname"}).
		AddRow("e1", "Midterm", time.Now(), time.Now(), "l1", "Math", "1A", "John", "Smith")
	mock.ExpectQuery(`(?s)SELECT ex\.id, ex\.title.*LIMIT 10 OFFSET 10`).
		WillReturnRows(rows)
	mock.ExpectCommit()

	exams, total, err := repo.List(context.Background(), pred, 2)
	require.NoError(t, err)
	assert.Len(t, exams, 1)
	assert.Equal(t, 12, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryListPastLastPageIsEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	pred := scope.Compute(scope.Exams, models.Identity{Role: models.RoleAdmin, UserID: "a1"}, nil)

	columns := []string{"id", "title", "start_time", "end_time", "lesson_id", "subject_name", "class_name", "teacher_name", "teacher_surname"}

	// 25 rows total, page 3 holds the final 5.
	page3 := sqlmock.NewRows(columns)
	for _, id := range []string{"e21", "e22", "e23", "e24", "e25"} {
		page3.AddRow(id, "Quiz", time.Now(), time.Now(), "l1", "Math", "1A", "John", "Smith")
	}
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM exams`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`(?s)SELECT ex\.id.*LIMIT 10 OFFSET 20`).
		WillReturnRows(page3)
	mock.ExpectCommit()

	exams, total, err := repo.List(context.Background(), pred, 3)
	require.NoError(t, err)
	assert.Len(t, exams, 5)
	assert.Equal(t, 25, total)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM exams`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`(?s)SELECT ex\.id.*LIMIT 10 OFFSET 30`).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectCommit()

	exams, total, err = repo.List(context.Background(), pred, 4)
	require.NoError(t, err)
	assert.Empty(t, exams)
	assert.Equal(t, 25, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryListAppliesTeacherScope(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	pred := scope.Compute(scope.Exams, models.Identity{Role: models.RoleTeacher, UserID: "t1"}, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM exams.*WHERE l\.teacher_id = \$1`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)SELECT ex\.id.*WHERE l\.teacher_id = \$1.*LIMIT 10 OFFSET 0`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "start_time", "end_time", "lesson_id", "subject_name", "class_name", "teacher_name", "teacher_surname"}))
	mock.ExpectCommit()

	exams, total, err := repo.List(context.Background(), pred, 1)
	require.NoError(t, err)
	assert.Empty(t, exams)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryDeleteOwnerScoped(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exams WHERE id = $1 AND lesson_id IN (SELECT id FROM lessons WHERE teacher_id = $2)")).
		WithArgs("e1", "t1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(context.Background(), "e1", "t1")
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryDeleteUnscopedForAdmin(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectExec(`DELETE FROM exams WHERE id = \$1$`).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Delete(context.Background(), "e1", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
