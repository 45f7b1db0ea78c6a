package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	storage Pinger
}

// NewHealthHandler creates a health handler. storage may be nil when
// running against the in-memory store.
func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.storage != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.storage.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  "storage unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
