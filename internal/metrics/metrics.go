// Package metrics defines the Prometheus counters the sync and generation
// paths report to.
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeConflict = "conflict"
	OutcomeFallback = "fallback"
)

// Metrics holds the service counters.
type Metrics struct {
	gatherer prometheus.Gatherer

	SyncFallbacks     *prometheus.CounterVec
	ProfilePushes     *prometheus.CounterVec
	RecipeGenerations *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
}

// New registers the counters on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		SyncFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_sync_fallbacks_total",
				Help: "Loads served from the local cache because the remote store failed",
			},
			[]string{"entity"},
		),
		ProfilePushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_profile_pushes_total",
				Help: "Background dietary profile pushes by outcome",
			},
			[]string{"outcome"},
		),
		RecipeGenerations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_recipe_generations_total",
				Help: "Recipe generation attempts by outcome",
			},
			[]string{"provider", "outcome"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware counts requests by route template and status.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
