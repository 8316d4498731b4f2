package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, pred scope.Predicate, page int) ([]models.SubjectRow, int, error)
	Create(ctx context.Context, subject *models.Subject, teacherIDs []string) error
	Update(ctx context.Context, subject *models.Subject, teacherIDs []string) error
	Delete(ctx context.Context, id string) (int64, error)
}

// SaveSubjectRequest holds payload for creating or updating subjects along
// with their teacher links.
type SaveSubjectRequest struct {
	Name       string   `json:"name" validate:"required"`
	TeacherIDs []string `json:"teacher_ids"`
}

// SubjectService lists and mutates subjects.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

// List returns a page of subjects with their teacher rosters.
func (s *SubjectService) List(ctx context.Context, caller models.Identity, params map[string]string) ([]models.SubjectRow, *models.Pagination, error) {
	pred := scope.Compute(scope.Subjects, caller, params)
	page := scope.Page(params)
	subjects, total, err := s.repo.List(ctx, pred, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	pagination := &models.Pagination{Page: page, PageSize: scope.PageSize, TotalCount: total}
	return subjects, pagination, nil
}

// Create registers a subject and connects its teachers.
func (s *SubjectService) Create(ctx context.Context, req SaveSubjectRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{Name: req.Name}
	if err := s.repo.Create(ctx, subject, req.TeacherIDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return nil
}

// Update renames a subject and replaces its teacher set.
func (s *SubjectService) Update(ctx context.Context, id string, req SaveSubjectRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{ID: id, Name: req.Name}
	if err := s.repo.Update(ctx, subject, req.TeacherIDs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return nil
}

// Delete removes a subject.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	return nil
}
