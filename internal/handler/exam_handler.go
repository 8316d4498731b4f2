package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-admin-api/internal/service"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
	"github.com/campushq/school-admin-api/pkg/response"
)

// ExamHandler exposes exam listing and guarded mutations.
type ExamHandler struct {
	service *service.ExamService
}

// NewExamHandler constructs an exam handler.
func NewExamHandler(svc *service.ExamService) *ExamHandler {
	return &ExamHandler{service: svc}
}

// List godoc
// @Summary List exams visible to the caller
// @Tags Exams
// @Produce json
// @Param classId query string false "Filter by class"
// @Param teacherId query string false "Filter by teacher"
// @Param search query string false "Search by subject name"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	exams, pagination, err := h.service.List(c.Request.Context(), caller, queryParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams, pagination)
}

// Create godoc
// @Summary Create an exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.CreateExamRequest true "Exam payload"
// @Success 201 {object} response.Outcome
// @Router /exams [post]
func (h *ExamHandler) Create(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Failed(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateExamRequest
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
// @Summary Update an exam
// @Tags Exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param payload body service.UpdateExamRequest true "Exam payload"
// @Success 200 {object} response.Outcome
// @Router /exams/{id} [put]
func (h *ExamHandler) Update(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Failed(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.UpdateExamRequest
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
// @Summary Delete an exam
// @Tags Exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} response.Outcome
// @Router /exams/{id} [delete]
func (h *ExamHandler) Delete(c *gin.Context) {
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
