package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, pred scope.Predicate, page int) ([]models.ClassRow, int, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// SaveClassRequest holds payload for creating or updating classes.
type SaveClassRequest struct {
	Name         string  `json:"name" validate:"required"`
	Capacity     int     `json:"capacity" validate:"min=0"`
	SupervisorID *string `json:"supervisor_id"`
	GradeID      string  `json:"grade_id" validate:"required"`
}

// ClassService lists and mutates classes.
type ClassService struct {
	repo      classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs the class service.
func NewClassService(repo classRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, validator: validate, logger: logger}
}

// List returns a page of classes with supervisor context.
func (s *ClassService) List(ctx context.Context, caller models.Identity, params map[string]string) ([]models.ClassRow, *models.Pagination, error) {
	pred := scope.Compute(scope.Classes, caller, params)
	page := scope.Page(params)
	classes, total, err := s.repo.List(ctx, pred, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	pagination := &models.Pagination{Page: page, PageSize: scope.PageSize, TotalCount: total}
	return classes, pagination, nil
}

// Create registers a new class.
func (s *ClassService) Create(ctx context.Context, req SaveClassRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := &models.Class{Name: req.Name, Capacity: req.Capacity, SupervisorID: req.SupervisorID, GradeID: req.GradeID}
	if err := s.repo.Create(ctx, class); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return nil
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, id string, req SaveClassRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class := &models.Class{ID: id, Name: req.Name, Capacity: req.Capacity, SupervisorID: req.SupervisorID, GradeID: req.GradeID}
	affected, err := s.repo.Update(ctx, class)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return nil
}
