package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

type mockAssignmentRepo struct {
	created     *models.Assignment
	updateRows  int64
	deleteRows  int64
	deleteOwner string
}

func (m *mockAssignmentRepo) List(ctx context.Context, pred scope.Predicate, page int) ([]models.AssessmentRow, int, error) {
	return nil, 0, nil
}

func (m *mockAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	m.created = assignment
	return nil
}

func (m *mockAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) (int64, error) {
	return m.updateRows, nil
}

func (m *mockAssignmentRepo) Delete(ctx context.Context, id, ownerTeacherID string) (int64, error) {
	m.deleteOwner = ownerTeacherID
	return m.deleteRows, nil
}

func validAssignmentRequest() SaveAssignmentRequest {
	now := time.Now()
	return SaveAssignmentRequest{Title: "Essay", StartDate: now, DueDate: now.AddDate(0, 0, 7), LessonID: "l1"}
}

func TestAssignmentServiceCreateUnownedLesson(t *testing.T) {
	repo := &mockAssignmentRepo{}
	lessons := &mockLessonOwnership{owned: map[string]string{"l1": "other"}}
	svc := NewAssignmentService(repo, lessons, nil, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), models.Identity{Role: models.RoleTeacher, UserID: "t1"}, validAssignmentRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestAssignmentServiceCreateOwnedLesson(t *testing.T) {
	repo := &mockAssignmentRepo{}
	lessons := &mockLessonOwnership{owned: map[string]string{"l1": "t1"}}
	svc := NewAssignmentService(repo, lessons, nil, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), models.Identity{Role: models.RoleTeacher, UserID: "t1"}, validAssignmentRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "Essay", repo.created.Title)
}

func TestAssignmentServiceDeleteTeacherScoped(t *testing.T) {
	repo := &mockAssignmentRepo{deleteRows: 0}
	svc := NewAssignmentService(repo, &mockLessonOwnership{}, nil, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), models.Identity{Role: models.RoleTeacher, UserID: "t1"}, "a1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "t1", repo.deleteOwner)
}
