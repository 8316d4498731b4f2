package service

import (
	"context"
	"errors"
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

type mockTeacherRepo struct {
	createErr  error
	updateRows int64
	deleteRows int64
	created    *models.Teacher
}

func (m *mockTeacherRepo) List(ctx context.Context, pred scope.Predicate, page int) ([]models.Teacher, int, error) {
	return nil, 0, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = teacher
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) (int64, error) {
	return m.updateRows, nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id string) (int64, error) {
	return m.deleteRows, nil
}

func validTeacherRequest() SaveTeacherRequest {
	return SaveTeacherRequest{
		Username:  "jsmith",
		Password:  "supersecret",
		Name:      "John",
		Surname:   "Smith",
		Address:   "2 Oak Ave",
		BloodType: "A",
		Sex:       "MALE",
		Birthday:  time.Date(1985, 9, 12, 0, 0, 0, 0, time.UTC),
	}
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := &mockTeacherRepo{}
	provider := &mockProvider{nextID: "acct-t1"}
	svc := NewTeacherService(repo, provider, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), validTeacherRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "acct-t1", repo.created.ID)
	require.Len(t, provider.created, 1)
	assert.Equal(t, models.RoleTeacher, provider.created[0].Role)
}

func TestTeacherServiceCreateStorageFailureRollsBackAccount(t *testing.T) {
	repo := &mockTeacherRepo{createErr: errors.New("unique violation")}
	provider := &mockProvider{nextID: "acct-t1"}
	svc := NewTeacherService(repo, provider, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), validTeacherRequest())
	require.Error(t, err)
	assert.Equal(t, []string{"acct-t1"}, provider.deleted)
}

func TestTeacherServiceCreateRequiresPassword(t *testing.T) {
	repo := &mockTeacherRepo{}
	provider := &mockProvider{nextID: "acct-t1"}
	svc := NewTeacherService(repo, provider, validator.New(), zap.NewNop())

	req := validTeacherRequest()
	req.Password = ""
	err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, provider.created)
}

func TestTeacherServiceDeleteMissing(t *testing.T) {
	repo := &mockTeacherRepo{deleteRows: 0}
	provider := &mockProvider{}
	svc := NewTeacherService(repo, provider, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Equal(t, []string{"missing"}, provider.deleted)
}
