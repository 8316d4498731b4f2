package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/internal/scope"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

type parentRepository interface {
	List(ctx context.Context, pred scope.Predicate, page int) ([]models.Parent, int, error)
}

// ParentService lists guardian profiles.
type ParentService struct {
	repo   parentRepository
	logger *zap.Logger
}

// NewParentService constructs the parent service.
func NewParentService(repo parentRepository, logger *zap.Logger) *ParentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParentService{repo: repo, logger: logger}
}

// List returns the caller's visible page of parents.
func (s *ParentService) List(ctx context.Context, caller models.Identity, params map[string]string) ([]models.Parent, *models.Pagination, error) {
	pred := scope.Compute(scope.Parents, caller, params)
	page := scope.Page(params)
	parents, total, err := s.repo.List(ctx, pred, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list parents")
	}
	pagination := &models.Pagination{Page: page, PageSize: scope.PageSize, TotalCount: total}
	return parents, pagination, nil
}
