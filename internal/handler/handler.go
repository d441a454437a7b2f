package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/shop-admin-console/internal/metrics"
	"github.com/maxviazov/shop-admin-console/internal/service"
)

// APIV1Prefix is the base path of the console API; handlers and tests share it.
const APIV1Prefix = "/api/v1"

// Deps are the collaborators of the HTTP layer. Metrics may be nil.
type Deps struct {
	Backend     Pinger
	Console     service.Console
	Metrics     *metrics.Metrics
	MetricsPath string
	Logger      zerolog.Logger
}

// NewEngine builds a gin engine with the standard middleware chain and every route.
func NewEngine(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(d.Logger), RequestID(), AccessLog(d.Logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware(d.metricsPath()))
	}
	Register(r, d)
	return r
}

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, d Deps) {
	h := NewHealthHandler(d.Backend)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	if d.Metrics != nil {
		r.GET(d.metricsPath(), gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewScreenHandler(d.Console).Register(api)
		NewBrandHandler(d.Console).Register(api)
		NewNoticeHandler(d.Console).Register(api)
	}
}

func (d Deps) metricsPath() string {
	if d.MetricsPath == "" {
		return "/metrics"
	}
	return d.MetricsPath
}
