package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
)

func sampleStudent() *models.Student {
	return &models.Student{
		ID:        "acct-1",
		Username:  "jdoe",
		Name:      "Jane",
		Surname:   "Doe",
		Address:   "1 Main St",
		BloodType: "O",
		Sex:       "FEMALE",
		Birthday:  time.Date(2010, 5, 1, 0, 0, 0, 0, time.UTC),
		GradeID:   "g1",
		ClassID:   "c1",
	}
}

func TestStudentRepositoryCreateIfClassHasRoom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(`(?s)INSERT INTO students.*WHERE \(SELECT COUNT\(\*\) FROM students WHERE class_id = \$13\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.CreateIfClassHasRoom(context.Background(), sampleStudent())
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateIfClassHasRoomFullClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(`INSERT INTO students`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.CreateIfClassHasRoom(context.Background(), sampleStudent())
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListTeacherRefinement(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	pred := scope.Compute(scope.Students, models.Identity{Role: models.RoleTeacher, UserID: "t1"}, map[string]string{"teacherId": "t1"})

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM students.*WHERE EXISTS`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	rows := sqlmock.NewRows([]string{"id", "username", "name", "surname", "email", "phone", "address", "img", "blood_type", "sex", "birthday", "grade_id", "class_id", "parent_id", "created_at", "class_name"}).
		AddRow("s1", "jdoe", "Jane", "Doe", nil, nil, "1 Main St", nil, "O", "FEMALE", time.Now(), "g1", "c1", "p1", time.Now(), "1A")
	mock.ExpectQuery(`(?s)SELECT st\.id.*LIMIT 10 OFFSET 0`).
		WithArgs("t1").
		WillReturnRows(rows)
	mock.ExpectCommit()

	students, total, err := repo.List(context.Background(), pred, 1)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "1A", students[0].ClassName)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
