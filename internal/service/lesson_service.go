package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campushq/school-admin-api/internal/models"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

type lessonRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Lesson, error)
}

// LessonService exposes the lessons a teacher owns, used by the admin UI to
// populate exam and assignment forms.
type LessonService struct {
	repo   lessonRepository
	logger *zap.Logger
}

// NewLessonService constructs the lesson service.
func NewLessonService(repo lessonRepository, logger *zap.Logger) *LessonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{repo: repo, logger: logger}
}

// ListOwn returns lessons taught by the caller. Admins get every lesson by
// passing an empty teacher filter through the repository.
func (s *LessonService) ListOwn(ctx context.Context, caller models.Identity) ([]models.Lesson, error) {
	teacherID := caller.UserID
	if caller.Role == models.RoleAdmin {
		teacherID = ""
	}
	lessons, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	return lessons, nil
}
