package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-admin-api/internal/service"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
	"github.com/campushq/school-admin-api/pkg/response"
)

// ParentHandler exposes guardian listings.
type ParentHandler struct {
	service *service.ParentService
}

// NewParentHandler constructs a parent handler.
func NewParentHandler(svc *service.ParentService) *ParentHandler {
	return &ParentHandler{service: svc}
}

// List godoc
// @Summary List parents
// @Tags Parents
// @Produce json
// @Param search query string false "Search by parent name"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /parents [get]
func (h *ParentHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	parents, pagination, err := h.service.List(c.Request.Context(), caller, queryParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, parents, pagination)
}
