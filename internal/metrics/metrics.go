// Package metrics exposes Prometheus collectors for list fetches, row mutations and
// the console's own HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maxviazov/shop-admin-console/internal/listview"
)

const namespace = "shop_admin"

// Metrics holds the collectors on their own registry so tests and multiple
// instances don't collide on the global one.
type Metrics struct {
	reg *prometheus.Registry

	ListFetches       *prometheus.CounterVec
	ListFetchDuration *prometheus.HistogramVec
	Mutations         *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New registers every collector on reg; nil creates a fresh registry that also
// carries the Go and process collectors.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		ListFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_fetches_total",
			Help:      "List page fetches by resource and outcome (ok, error, stale).",
		}, []string{"resource", "outcome"}),
		ListFetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "list_fetch_duration_seconds",
			Help:      "Latency of list page fetches.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}, []string{"resource"}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Confirmed row mutations by resource, action and result.",
		}, []string{"resource", "action", "result"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Console API requests.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Console API latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

var _ listview.Observer = (*Metrics)(nil)

func (m *Metrics) FetchCompleted(resource, outcome string, took time.Duration) {
	m.ListFetches.WithLabelValues(resource, outcome).Inc()
	m.ListFetchDuration.WithLabelValues(resource).Observe(took.Seconds())
}

func (m *Metrics) MutationCompleted(resource string, action listview.Action, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.Mutations.WithLabelValues(resource, string(action), result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Middleware records every request except the scrape endpoint itself. Routes are
// labelled by their template to keep cardinality bounded.
func (m *Metrics) Middleware(skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == skipPath {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
