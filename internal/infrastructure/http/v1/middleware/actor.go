package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "fieldstock/internal/core/context"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorName = "X-Actor-Name"
)

// Actor middleware lifts the acting user from request headers into the
// context. Identity is supplied by the upstream gateway; this service
// does not authenticate.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.GetHeader(HeaderActorName)
		userID := c.GetHeader(HeaderActorID)
		if name == "" && userID == "" {
			c.Next()
			return
		}

		ctx := appctx.WithActor(c.Request.Context(), &appctx.ActorContext{
			UserID: userID,
			Name:   name,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
