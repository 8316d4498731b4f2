package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-admin-api/internal/service"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
	"github.com/campushq/school-admin-api/pkg/response"
)

// AssignmentHandler exposes assignment listing and guarded mutations.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// List godoc
// @Summary List assignments visible to the caller
// @Tags Assignments
// @Produce json
// @Param classId query string false "Filter by class"
// @Param teacherId query string false "Filter by teacher"
// @Param search query string false "Search by subject name"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	assignments, pagination, err := h.service.List(c.Request.Context(), caller, queryParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// Create godoc
// @Summary Create an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.SaveAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Outcome
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Failed(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SaveAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failed(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	if err := h.service.Create(c.Request.Context(), caller, req); err != nil {
		response.Failed(c, err)
		return
	}
	response.Succeeded(c, http.StatusCreated)
}

// Update godoc
// @Summary Update an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.SaveAssignmentRequest true "Assignment payload"
// @Success 200 {object} response.Outcome
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Failed(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SaveAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failed(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	if err := h.service.Update(c.Request.Context(), caller, c.Param("id"), req); err != nil {
		response.Failed(c, err)
		return
	}
	response.Succeeded(c, http.StatusOK)
}

// Delete godoc
// @Summary Delete an assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Outcome
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Failed(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		response.Failed(c, err)
		return
	}
	response.Succeeded(c, http.StatusOK)
}
