package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-admin-api/internal/models"
	appErrors "github.com/campushq/school-admin-api/pkg/errors"
)

// Envelope represents the common response contract for read endpoints.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// Outcome is the mutation response contract: exactly one flag is ever set.
type Outcome struct {
	Success bool `json:"success"`
	Error   bool `json:"error"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// Succeeded reports a completed mutation using the success/error boolean pair.
func Succeeded(c *gin.Context, status int) {
	c.JSON(status, Outcome{Success: true})
}

// Failed reports a rejected mutation. The HTTP status carries the only detail;
// the body stays the opaque boolean pair.
func Failed(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, Outcome{Error: true})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
