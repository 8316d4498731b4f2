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

type studentRepository interface {
	List(ctx context.Context, pred scope.Predicate, page int) ([]models.StudentRow, int, error)
	CreateIfClassHasRoom(ctx context.Context, student *models.Student) (int64, error)
	Update(ctx context.Context, student *models.Student) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// CreateStudentRequest holds payload for enrolling a new student. The
// password goes to the identity provider only and is never persisted here.
type CreateStudentRequest struct {
	Username  string    `json:"username" validate:"required"`
	Password  string    `json:"password" validate:"required,min=8"`
	Name      string    `json:"name" validate:"required"`
	Surname   string    `json:"surname" validate:"required"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Address   string    `json:"address" validate:"required"`
	Img       *string   `json:"img"`
	BloodType string    `json:"blood_type" validate:"required"`
	Sex       string    `json:"sex" validate:"required,oneof=MALE FEMALE"`
	Birthday  time.Time `json:"birthday" validate:"required"`
	GradeID   string    `json:"grade_id" validate:"required"`
	ClassID   string    `json:"class_id" validate:"required"`
	ParentID  *string   `json:"parent_id"`
}

// UpdateStudentRequest holds payload for updating a student. An empty
// Password leaves the provider credential unchanged.
type UpdateStudentRequest struct {
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
	GradeID   string    `json:"grade_id" validate:"required"`
	ClassID   string    `json:"class_id" validate:"required"`
	ParentID  *string   `json:"parent_id"`
}

// StudentService guards student lifecycle: provider provisioning plus the
// class-capacity enrollment precondition.
type StudentService struct {
	repo      studentRepository
	provider  identity.Provider
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, provider identity.Provider, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, provider: provider, metrics: metrics, validator: validate, logger: logger}
}

// List returns the caller's visible page of students.
func (s *StudentService) List(ctx context.Context, caller models.Identity, params map[string]string) ([]models.StudentRow, *models.Pagination, error) {
	pred := scope.Compute(scope.Students, caller, params)
	page := scope.Page(params)
	students, total, err := s.repo.List(ctx, pred, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	pagination := &models.Pagination{Page: page, PageSize: scope.PageSize, TotalCount: total}
	return students, pagination, nil
}

// Create provisions a provider account, then inserts the student with an
// atomic capacity-checked write. A full class (zero rows inserted) rolls the
// provider account back so no orphan is left behind.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	accountID, err := s.provider.CreateAccount(ctx, identity.CreateAccountRequest{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.Name,
		LastName:  req.Surname,
		Role:      models.RoleStudent,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to provision student account")
	}

	student := &models.Student{
		ID:        accountID,
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
		GradeID:   req.GradeID,
		ClassID:   req.ClassID,
		ParentID:  req.ParentID,
	}

	inserted, err := s.repo.CreateIfClassHasRoom(ctx, student)
	if err != nil {
		s.rollbackAccount(ctx, accountID)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	if inserted == 0 {
		s.metrics.RecordMutationDenied("student_create", "class_full")
		s.rollbackAccount(ctx, accountID)
		return appErrors.Clone(appErrors.ErrClassFull, "")
	}
	return nil
}

// Update modifies the provider account and then the student row.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "missing student id")
	}

	if err := s.provider.UpdateAccount(ctx, id, identity.UpdateAccountRequest{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.Name,
		LastName:  req.Surname,
	}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to update student account")
	}

	student := &models.Student{
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
		GradeID:   req.GradeID,
		ClassID:   req.ClassID,
		ParentID:  req.ParentID,
	}
	affected, err := s.repo.Update(ctx, student)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return nil
}

// Delete deprovisions the provider account first, then removes the student
// row. A storage failure after the account is gone leaves an orphan that a
// reconciliation sweep has to pick up; the orphaned id is logged for that.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.provider.DeleteAccount(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to deprovision student account")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("student row left without provider account", zap.String("student_id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return nil
}

func (s *StudentService) rollbackAccount(ctx context.Context, accountID string) {
	if err := s.provider.DeleteAccount(ctx, accountID); err != nil {
		s.logger.Error("orphaned provider account after failed enrollment", zap.String("account_id", accountID), zap.Error(err))
	}
}
