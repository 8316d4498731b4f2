package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-admin-api/internal/service"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
	"github.com/campushq/school-admin-api/pkg/response"
)

// ResultHandler exposes score listings and exports.
type ResultHandler struct {
	service       *service.ResultService
	exportEnabled bool
}

// NewResultHandler constructs a result handler.
func NewResultHandler(svc *service.ResultService, exportEnabled bool) *ResultHandler {
	return &ResultHandler{service: svc, exportEnabled: exportEnabled}
}

// List godoc
// @Summary List results visible to the caller
// @Tags Results
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param search query string false "Search by assessment title or student name"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	results, pagination, err := h.service.List(c.Request.Context(), caller, queryParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, pagination)
}

// Export godoc
// @Summary Export the caller's visible results as CSV or PDF
// @Tags Results
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param studentId query string false "Filter by student"
// @Param search query string false "Search by assessment title or student name"
// @Success 200 {file} binary
// @Router /results/export [get]
func (h *ResultHandler) Export(c *gin.Context) {
	if !h.exportEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled"))
		return
	}
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.Export(c.Request.Context(), caller, queryParams(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=results."+format)
	c.Data(http.StatusOK, contentType, payload)
}
