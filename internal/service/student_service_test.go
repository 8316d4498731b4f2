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

	"github.com/campushq/school-admin-api/internal/identity"
	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

type mockStudentRepo struct {
	insertRows int64
	insertErr  error
	updateRows int64
	deleteRows int64
	deleteErr  error
	created    *models.Student
}

func (m *mockStudentRepo) List(ctx context.Context, pred scope.Predicate, page int) ([]models.StudentRow, int, error) {
	return nil, 0, nil
}

func (m *mockStudentRepo) CreateIfClassHasRoom(ctx context.Context, student *models.Student) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.created = student
	return m.insertRows, nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) (int64, error) {
	return m.updateRows, nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) (int64, error) {
	return m.deleteRows, m.deleteErr
}

type mockProvider struct {
	nextID    string
	createErr error
	updateErr error
	deleteErr error
	created   []identity.CreateAccountRequest
	deleted   []string
	updated   []string
}

func (m *mockProvider) CreateAccount(ctx context.Context, req identity.CreateAccountRequest) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, req)
	return m.nextID, nil
}

func (m *mockProvider) UpdateAccount(ctx context.Context, id string, req identity.UpdateAccountRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, id)
	return nil
}

func (m *mockProvider) DeleteAccount(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func validStudentRequest() CreateStudentRequest {
	return CreateStudentRequest{
		Username:  "jdoe",
		Password:  "supersecret",
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

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{insertRows: 1}
	provider := &mockProvider{nextID: "acct-1"}
	svc := NewStudentService(repo, provider, nil, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "acct-1", repo.created.ID)
	require.Len(t, provider.created, 1)
	assert.Equal(t, models.RoleStudent, provider.created[0].Role)
	assert.Empty(t, provider.deleted)
}

func TestStudentServiceCreateClassFullRollsBackAccount(t *testing.T) {
	repo := &mockStudentRepo{insertRows: 0}
	provider := &mockProvider{nextID: "acct-1"}
	svc := NewStudentService(repo, provider, nil, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), validStudentRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrClassFull.Code, appErrors.FromError(err).Code)
	assert.Equal(t, []string{"acct-1"}, provider.deleted)
}

func TestStudentServiceCreateStorageFailureRollsBackAccount(t *testing.T) {
	repo := &mockStudentRepo{insertErr: errors.New("connection reset")}
	provider := &mockProvider{nextID: "acct-1"}
	svc := NewStudentService(repo, provider, nil, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), validStudentRequest())
	require.Error(t, err)
	assert.Equal(t, []string{"acct-1"}, provider.deleted)
}

func TestStudentServiceCreateProviderFailureSkipsStorage(t *testing.T) {
	repo := &mockStudentRepo{insertRows: 1}
	provider := &mockProvider{createErr: errors.New("provider down")}
	svc := NewStudentService(repo, provider, nil, validator.New(), zap.NewNop())

	err := svc.Create(context.Background(), validStudentRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIdentityProvider.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestStudentServiceCreateInvalidPayload(t *testing.T) {
	repo := &mockStudentRepo{insertRows: 1}
	provider := &mockProvider{nextID: "acct-1"}
	svc := NewStudentService(repo, provider, nil, validator.New(), zap.NewNop())

	req := validStudentRequest()
	req.Password = "short"
	err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, provider.created)
}

func TestStudentServiceDeleteDeprovisionsFirst(t *testing.T) {
	repo := &mockStudentRepo{deleteRows: 1}
	provider := &mockProvider{}
	svc := NewStudentService(repo, provider, nil, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, provider.deleted)
}

func TestStudentServiceDeleteProviderFailureKeepsRow(t *testing.T) {
	repo := &mockStudentRepo{deleteRows: 1}
	provider := &mockProvider{deleteErr: errors.New("provider down")}
	svc := NewStudentService(repo, provider, nil, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIdentityProvider.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateMissingStudent(t *testing.T) {
	repo := &mockStudentRepo{updateRows: 0}
	provider := &mockProvider{}
	svc := NewStudentService(repo, provider, nil, validator.New(), zap.NewNop())

	req := UpdateStudentRequest{
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
	err := svc.Update(context.Background(), "missing", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Equal(t, []string{"missing"}, provider.updated)
}
