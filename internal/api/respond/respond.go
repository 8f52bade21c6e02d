// Package respond turns domain errors into HTTP responses so every handler
// reports failures the same way.
package respond

import (
	"errors"
	"net/http"

	"pulse/internal/domain/apperr"
	"pulse/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

func Error(c *gin.Context, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		body := gin.H{"error": ve.Message}
		if len(ve.Fields) > 0 {
			body["details"] = ve.Fields
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
		return
	}

	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperr.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperr.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Upgrade required"})
	case errors.Is(err, apperr.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Conflict"})
	default:
		logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func BadRequest(c *gin.Context, message string, fields ...apperr.FieldError) {
	Error(c, apperr.Invalid(message, fields...))
}

// UserID reads the id set by the auth middleware and answers 401 when absent.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		Error(c, apperr.ErrUnauthorized)
		return 0, false
	}
	uid, ok := v.(uint)
	if !ok || uid == 0 {
		Error(c, apperr.ErrUnauthorized)
		return 0, false
	}
	return uid, true
}
