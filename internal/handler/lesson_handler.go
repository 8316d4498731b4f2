package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-admin-api/internal/service"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
	"github.com/campushq/school-admin-api/pkg/response"
)

// LessonHandler exposes lesson listings for assessment forms.
type LessonHandler struct {
	service *service.LessonService
}

// NewLessonHandler constructs a lesson handler.
func NewLessonHandler(svc *service.LessonService) *LessonHandler {
	return &LessonHandler{service: svc}
}

// ListOwn godoc
// @Summary List lessons owned by the caller
// @Tags Lessons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) ListOwn(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	lessons, err := h.service.ListOwn(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}
