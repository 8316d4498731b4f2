package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

type assignmentRepository interface {
	List(ctx context.Context, pred scope.Predicate, page int) ([]models.AssessmentRow, int, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) (int64, error)
	Delete(ctx context.Context, id, ownerTeacherID string) (int64, error)
}

// SaveAssignmentRequest holds payload for creating or updating assignments.
type SaveAssignmentRequest struct {
	Title     string    `json:"title" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	DueDate   time.Time `json:"due_date" validate:"required"`
	LessonID  string    `json:"lesson_id" validate:"required"`
}

// AssignmentService guards assignment reads and mutations; the ownership
// rules mirror exams since both hang off a lesson.
type AssignmentService struct {
	repo      assignmentRepository
	lessons   lessonOwnership
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(repo assignmentRepository, lessons lessonOwnership, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, lessons: lessons, metrics: metrics, validator: validate, logger: logger}
}

// List returns the caller's visible page of assignments.
func (s *AssignmentService) List(ctx context.Context, caller models.Identity, params map[string]string) ([]models.AssessmentRow, *models.Pagination, error) {
	pred := scope.Compute(scope.Assignments, caller, params)
	page := scope.Page(params)
	assignments, total, err := s.repo.List(ctx, pred, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	pagination := &models.Pagination{Page: page, PageSize: scope.PageSize, TotalCount: total}
	return assignments, pagination, nil
}

// Create registers an assignment after lesson ownership verification.
func (s *AssignmentService) Create(ctx context.Context, caller models.Identity, req SaveAssignmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if err := s.ensureLessonOwned(ctx, caller, req.LessonID); err != nil {
		return err
	}
	assignment := &models.Assignment{Title: req.Title, StartDate: req.StartDate, DueDate: req.DueDate, LessonID: req.LessonID}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return nil
}

// Update modifies an assignment after lesson ownership verification.
func (s *AssignmentService) Update(ctx context.Context, caller models.Identity, id string, req SaveAssignmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if err := s.ensureLessonOwned(ctx, caller, req.LessonID); err != nil {
		return err
	}
	assignment := &models.Assignment{ID: id, Title: req.Title, StartDate: req.StartDate, DueDate: req.DueDate, LessonID: req.LessonID}
	affected, err := s.repo.Update(ctx, assignment)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	return nil
}

// Delete removes an assignment with the same ownership-scoped predicate as
// exams.
func (s *AssignmentService) Delete(ctx context.Context, caller models.Identity, id string) error {
	owner := ""
	if caller.Role == models.RoleTeacher {
		owner = caller.UserID
	}
	affected, err := s.repo.Delete(ctx, id, owner)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	if affected == 0 {
		if owner != "" {
			s.metrics.RecordMutationDenied("assignment_delete", "not_owned_or_missing")
		}
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	return nil
}

func (s *AssignmentService) ensureLessonOwned(ctx context.Context, caller models.Identity, lessonID string) error {
	switch caller.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTeacher:
		owned, err := s.lessons.IsOwnedBy(ctx, lessonID, caller.UserID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify lesson ownership")
		}
		if !owned {
			s.metrics.RecordMutationDenied("assignment_save", "lesson_not_owned")
			return appErrors.Clone(appErrors.ErrValidation, "lesson not taught by caller")
		}
		return nil
	default:
		s.metrics.RecordMutationDenied("assignment_save", "role_forbidden")
		return appErrors.Clone(appErrors.ErrForbidden, "")
	}
}
