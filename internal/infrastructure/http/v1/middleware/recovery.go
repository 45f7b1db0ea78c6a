// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"fieldstock/internal/core/apperror"
	"fieldstock/pkg/logger"
)

// Recovery middleware recovers from panics and returns 500 error.
// Logs stack trace but never exposes internal details to client.
// Renders the response itself: a panic unwinds past the error-handling
// middleware, so nothing downstream gets a chance to.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Log full stack trace
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    apperror.CodeInternal,
					"message": "Internal server error",
					"details": map[string]any{
						"request_id": c.GetString("request_id"),
					},
				})
			}
		}()
		c.Next()
	}
}
