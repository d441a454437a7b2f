package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/shop-admin-console/internal/feedback"
)

const readinessTimeout = 3 * time.Second

// Pinger reaches the admin REST backend. *apiclient.Client implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the probes. The console holds no state worth checking, so
// readiness is the backend's reachability.
type HealthHandler struct {
	backend Pinger
	timeout time.Duration
}

func NewHealthHandler(backend Pinger) *HealthHandler {
	return &HealthHandler{backend: backend, timeout: readinessTimeout}
}

// Liveness reports that the process serves HTTP; the backend is not consulted.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness pings the backend's health endpoint and reports how long it took.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	err := h.backend.Ping(ctx)
	took := time.Since(start).Milliseconds()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "unavailable",
			"backend":    "down",
			"latency_ms": took,
			"error":      feedback.Humanize(err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": "up", "latency_ms": took})
}
