// Package metrics provides the Prometheus registry reference and the HTTP
// server metrics. Upstream metrics are defined in their own packages
// (client, cache, ratelimit) to keep those packages self-contained.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the default Prometheus registry.
// All metrics are registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

const namespace = "pokedex"

// HTTP server metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Metrics Documentation
//
// Budget Metrics (pkg/ratelimit):
//   - pokeapi_budget_remaining (Gauge): Requests left in the current one-second window
//   - pokeapi_rate_limit_blocks_total (Counter): Requests blocked during a 429 cooldown
//   - pokeapi_rate_limit_throttles_total (Counter): Requests delayed to the next window
//
// Cache Metrics (pkg/cache):
//   - pokeapi_cache_lookups_total{result} (Counter): Lookups by result (hit, stale, miss)
//   - pokeapi_cache_bytes_written_total (Counter): Bytes written to the cache
//   - pokeapi_cache_revalidations_total{outcome} (Counter): Conditional requests (sent, not_modified)
//   - pokeapi_cache_errors_total{operation} (Counter): Cache operation errors
//
// Upstream Request Metrics (pkg/client):
//   - pokeapi_requests_total{endpoint, status} (Counter): Requests by endpoint and status
//   - pokeapi_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - pokeapi_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// HTTP Server Metrics (this package):
//   - pokedex_http_requests_total{method, path, status_code} (Counter)
//   - pokedex_http_request_duration_seconds{method, path} (Histogram)
//   - pokedex_http_requests_in_flight (Gauge)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(pokeapi_cache_lookups_total{result="hit"}[5m])) /
//   sum(rate(pokeapi_cache_lookups_total[5m]))
//
//   # Upstream Error Rate
//   rate(pokeapi_errors_total[5m])
//
//   # P95 Page Render Latency
//   histogram_quantile(0.95, rate(pokedex_http_request_duration_seconds_bucket{path="/"}[5m]))
