package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

type mockClassRepo struct {
	created        []*models.Class
	updated        []*models.Class
	updateAffected int64
	deleteAffected int64
}

func (m *mockClassRepo) List(ctx context.Context, pred scope.Predicate, page int) ([]models.ClassRow, int, error) {
	return nil, 0, nil
}

func (m *mockClassRepo) Create(ctx context.Context, class *models.Class) error {
	m.created = append(m.created, class)
	return nil
}

func (m *mockClassRepo) Update(ctx context.Context, class *models.Class) (int64, error) {
	m.updated = append(m.updated, class)
	return m.updateAffected, nil
}

func (m *mockClassRepo) Delete(ctx context.Context, id string) (int64, error) {
	return m.deleteAffected, nil
}

func TestClassServiceCreateAcceptsZeroCapacity(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), SaveClassRequest{Name: "Overflow Room", Capacity: 0, GradeID: "g1"})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Zero(t, repo.created[0].Capacity)
}

func TestClassServiceUpdateAcceptsZeroCapacity(t *testing.T) {
	repo := &mockClassRepo{updateAffected: 1}
	svc := NewClassService(repo, validator.New(), zap.NewNop())

	err := svc.Update(context.Background(), "c1", SaveClassRequest{Name: "Overflow Room", Capacity: 0, GradeID: "g1"})
	require.NoError(t, err)
	require.Len(t, repo.updated, 1)
	assert.Zero(t, repo.updated[0].Capacity)
}

func TestClassServiceRejectsNegativeCapacity(t *testing.T) {
	repo := &mockClassRepo{}
	svc := NewClassService(repo, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), SaveClassRequest{Name: "1A", Capacity: -1, GradeID: "g1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestClassServiceUpdateMissingClass(t *testing.T) {
	repo := &mockClassRepo{updateAffected: 0}
	svc := NewClassService(repo, validator.New(), zap.NewNop())

	err := svc.Update(context.Background(), "missing", SaveClassRequest{Name: "1A", Capacity: 20, GradeID: "g1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
