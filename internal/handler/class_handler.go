package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-admin-api/internal/service"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
	"github.com/campushq/school-admin-api/pkg/response"
)

// ClassHandler exposes class CRUD endpoints.
type ClassHandler struct {
	service *service.ClassService
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc *service.ClassService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List classes visible to the caller
// @Tags Classes
// @Produce json
// @Param supervisorId query string false "Filter by supervisor"
// @Param search query string false "Search by class name"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classes, pagination, err := h.service.List(c.Request.Context(), caller, queryParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, pagination)
}

// Create godoc
// @Summary Create a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.SaveClassRequest true "Class payload"
// @Success 201 {object} response.Outcome
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.SaveClassRequest
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
// @Summary Update a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body service.SaveClassRequest true "Class payload"
// @Success 200 {object} response.Outcome
// @Router /classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	var req service.SaveClassRequest
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
// @Summary Delete a class
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Outcome
// @Router /classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Failed(c, err)
		return
	}
	response.Succeeded(c, http.StatusOK)
}
