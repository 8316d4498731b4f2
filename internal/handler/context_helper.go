package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campushq/school-admin-api/internal/middleware"
	"github.com/campushq/school-admin-api/internal/models"
)

func callerFromContext(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return models.Identity{}, false
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return models.Identity{}, false
	}
	return claims.Identity(), true
}

// queryParams flattens the request query string to its first values. Repeated
// keys beyond the first are ignored, matching single-valued filter semantics.
func queryParams(c *gin.Context) map[string]string {
	raw := c.Request.URL.Query()
	params := make(map[string]string, len(raw))
	for key, values := range raw {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}
