package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-admin-api/internal/identity"
	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, pred scope.Predicate, page int) ([]models.Teacher, int, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// SaveTeacherRequest holds payload for creating or updating a teacher. On
// update an empty Password leaves the provider credential unchanged.
type SaveTeacherRequest struct {
	Username  string    `json:"username" validate:"required"`
	Password  string    `json:"password" validate:"omitempty,min=8"`
	Name      string    `json:"name" validate:"required"`
	Surname   string    `json:"surname" validate:"required"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Address   string    `json:"address" validate:"required"`
	Img       *string   `json:"img"`
	BloodType string    `json:"blood_type" validate:"required"`
	Sex       string    `json:"sex" validate:"required,oneof=MALE FEMALE"`
	Birthday  time.Time `json:"birthday" validate:"required"`
}

// TeacherService manages instructor profiles and their provider accounts.
type TeacherService struct {
	repo      teacherRepository
	provider  identity.Provider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo teacherRepository, provider identity.Provider, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, provider: provider, validator: validate, logger: logger}
}

// List returns the caller's visible page of teachers.
func (s *TeacherService) List(ctx context.Context, caller models.Identity, params map[string]string) ([]models.Teacher, *models.Pagination, error) {
	pred := scope.Compute(scope.Teachers, caller, params)
	page := scope.Page(params)
	teachers, total, err := s.repo.List(ctx, pred, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	pagination := &models.Pagination{Page: page, PageSize: scope.PageSize, TotalCount: total}
	return teachers, pagination, nil
}

// Create provisions a provider account for the teacher before writing the
// profile row. The account is rolled back if the insert fails.
func (s *TeacherService) Create(ctx context.Context, req SaveTeacherRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	if req.Password == "" {
		return appErrors.Clone(appErrors.ErrValidation, "password is required")
	}

	accountID, err := s.provider.CreateAccount(ctx, identity.CreateAccountRequest{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.Name,
		LastName:  req.Surname,
		Role:      models.RoleTeacher,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to provision teacher account")
	}

	teacher := s.toModel(accountID, req)
	if err := s.repo.Create(ctx, teacher); err != nil {
		if delErr := s.provider.DeleteAccount(ctx, accountID); delErr != nil {
			s.logger.Error("orphaned provider account after failed teacher create", zap.String("account_id", accountID), zap.Error(delErr))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	return nil
}

// Update modifies the provider account and then the teacher row.
func (s *TeacherService) Update(ctx context.Context, id string, req SaveTeacherRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "missing teacher id")
	}

	if err := s.provider.UpdateAccount(ctx, id, identity.UpdateAccountRequest{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.Name,
		LastName:  req.Surname,
	}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to update teacher account")
	}

	affected, err := s.repo.Update(ctx, s.toModel(id, req))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	return nil
}

// Delete deprovisions the provider account first, then removes the row.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if err := s.provider.DeleteAccount(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to deprovision teacher account")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("teacher row left without provider account", zap.String("teacher_id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	return nil
}

func (s *TeacherService) toModel(id string, req SaveTeacherRequest) *models.Teacher {
	return &models.Teacher{
		ID:        id,
		Username:  req.Username,
		Name:      req.Name,
		Surname:   req.Surname,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Img:       req.Img,
		BloodType: req.BloodType,
		Sex:       req.Sex,
		Birthday:  req.Birthday,
	}
}
