package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-admin-api/internal/service"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
	"github.com/campushq/school-admin-api/pkg/response"
)

// EventHandler exposes the school calendar.
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler constructs an event handler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary List events visible to the caller
// @Tags Events
// @Produce json
// @Param search query string false "Search by title"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	events, pagination, err := h.service.List(c.Request.Context(), caller, queryParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// Create godoc
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body service.SaveEventRequest true "Event payload"
// @Success 201 {object} response.Outcome
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req service.SaveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failed(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	if err := h.service.Create(c.Request.Context(), req); err != nil {
		response.Failed(c, err)
		return
	}
	response.Succeeded(c, http.StatusCreated)
}

// Update godoc
// @Summary Update an event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body service.SaveEventRequest true "Event payload"
// @Success 200 {object} response.Outcome
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req service.SaveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failed(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	if err := h.service.Update(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Failed(c, err)
		return
	}
	response.Succeeded(c, http.StatusOK)
}

// Delete godoc
// @Summary Delete an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Outcome
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Failed(c, err)
		return
	}
	response.Succeeded(c, http.StatusOK)
}
