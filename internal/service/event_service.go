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

type eventRepository interface {
	List(ctx context.Context, pred scope.Predicate, page int) ([]models.EventRow, int, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// SaveEventRequest holds payload for creating or updating events. A nil
// ClassID publishes the event globally.
type SaveEventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	ClassID     *string   `json:"class_id"`
}

// EventService reads role-scoped events and applies admin-gated mutations.
type EventService struct {
	repo      eventRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs the event service.
func NewEventService(repo eventRepository, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, validator: validate, logger: logger}
}

// List returns the caller's visible page of events. Class-less events are
// visible to every role.
func (s *EventService) List(ctx context.Context, caller models.Identity, params map[string]string) ([]models.EventRow, *models.Pagination, error) {
	pred := scope.Compute(scope.Events, caller, params)
	page := scope.Page(params)
	events, total, err := s.repo.List(ctx, pred, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	pagination := &models.Pagination{Page: page, PageSize: scope.PageSize, TotalCount: total}
	return events, pagination, nil
}

// Create registers a new event.
func (s *EventService) Create(ctx context.Context, req SaveEventRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	event := &models.Event{Title: req.Title, Description: req.Description, StartTime: req.StartTime, EndTime: req.EndTime, ClassID: req.ClassID}
	if err := s.repo.Create(ctx, event); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	return nil
}

// Update modifies an existing event.
func (s *EventService) Update(ctx context.Context, id string, req SaveEventRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	event := &models.Event{ID: id, Title: req.Title, Description: req.Description, StartTime: req.StartTime, EndTime: req.EndTime, ClassID: req.ClassID}
	affected, err := s.repo.Update(ctx, event)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return nil
}
