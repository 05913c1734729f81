// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cookbook_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cookbook_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Recipe metrics, incremented only after the unit-of-work commits
	RecipeViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cookbook_recipe_views_total",
			Help: "Total number of committed recipe detail reads",
		},
	)

	RecipesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cookbook_recipes_created_total",
			Help: "Total number of recipes created",
		},
	)

	RateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cookbook_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)

	PanicRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cookbook_panic_recoveries_total",
			Help: "Total number of panics recovered in HTTP handlers",
		},
	)
)
