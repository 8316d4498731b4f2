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

type examRepository interface {
	List(ctx context.Context, pred scope.Predicate, page int) ([]models.AssessmentRow, int, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) (int64, error)
	Delete(ctx context.Context, id, ownerTeacherID string) (int64, error)
}

type lessonOwnership interface {
	IsOwnedBy(ctx context.Context, lessonID, teacherID string) (bool, error)
}

// CreateExamRequest holds payload for creating exams.
type CreateExamRequest struct {
	Title     string    `json:"title" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	LessonID  string    `json:"lesson_id" validate:"required"`
}

// UpdateExamRequest holds payload for updating exams.
type UpdateExamRequest struct {
	Title     string    `json:"title" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	LessonID  string    `json:"lesson_id" validate:"required"`
}

// ExamService guards exam reads and mutations with role scoping and lesson
// ownership.
type ExamService struct {
	repo      examRepository
	lessons   lessonOwnership
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService constructs the exam service. A nil metrics service disables
// instrumentation.
func NewExamService(repo examRepository, lessons lessonOwnership, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, lessons: lessons, metrics: metrics, validator: validate, logger: logger}
}

// List returns the caller's visible page of exams.
func (s *ExamService) List(ctx context.Context, caller models.Identity, params map[string]string) ([]models.AssessmentRow, *models.Pagination, error) {
	pred := scope.Compute(scope.Exams, caller, params)
	page := scope.Page(params)
	exams, total, err := s.repo.List(ctx, pred, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exams")
	}
	pagination := &models.Pagination{Page: page, PageSize: scope.PageSize, TotalCount: total}
	return exams, pagination, nil
}

// Create registers an exam after verifying the caller may attach it to the
// lesson.
func (s *ExamService) Create(ctx context.Context, caller models.Identity, req CreateExamRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	if err := s.ensureLessonOwned(ctx, caller, req.LessonID); err != nil {
		return err
	}
	exam := &models.Exam{Title: req.Title, StartTime: req.StartTime, EndTime: req.EndTime, LessonID: req.LessonID}
	if err := s.repo.Create(ctx, exam); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}
	return nil
}

// Update modifies an exam after the same ownership verification as Create.
func (s *ExamService) Update(ctx context.Context, caller models.Identity, id string, req UpdateExamRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	if err := s.ensureLessonOwned(ctx, caller, req.LessonID); err != nil {
		return err
	}
	exam := &models.Exam{ID: id, Title: req.Title, StartTime: req.StartTime, EndTime: req.EndTime, LessonID: req.LessonID}
	affected, err := s.repo.Update(ctx, exam)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "exam not found")
	}
	return nil
}

// Delete removes an exam. For teachers the delete itself is ownership-scoped,
// so deleting someone else's exam reports not-found rather than a distinct
// forbidden signal.
func (s *ExamService) Delete(ctx context.Context, caller models.Identity, id string) error {
	owner := ""
	if caller.Role == models.RoleTeacher {
		owner = caller.UserID
	}
	affected, err := s.repo.Delete(ctx, id, owner)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exam")
	}
	if affected == 0 {
		if owner != "" {
			s.metrics.RecordMutationDenied("exam_delete", "not_owned_or_missing")
		}
		return appErrors.Clone(appErrors.ErrNotFound, "exam not found")
	}
	return nil
}

// ensureLessonOwned enforces the teacher ownership rule: the lesson must
// exist and be taught by the caller. Admins bypass the check.
func (s *ExamService) ensureLessonOwned(ctx context.Context, caller models.Identity, lessonID string) error {
	switch caller.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTeacher:
		owned, err := s.lessons.IsOwnedBy(ctx, lessonID, caller.UserID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify lesson ownership")
		}
		if !owned {
			s.metrics.RecordMutationDenied("exam_save", "lesson_not_owned")
			return appErrors.Clone(appErrors.ErrValidation, "lesson not taught by caller")
		}
		return nil
	default:
		s.metrics.RecordMutationDenied("exam_save", "role_forbidden")
		return appErrors.Clone(appErrors.ErrForbidden, "")
	}
}
