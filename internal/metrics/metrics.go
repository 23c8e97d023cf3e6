package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// Proxy request rate by route and status class.
	HTTPRequestsTotal *prometheus.CounterVec

	// Proxy request latency. Includes the upstream round trip.
	HTTPRequestDuration *prometheus.HistogramVec

	HTTPRequestsInFlight prometheus.Gauge

	// WeatherKit calls by operation (availability, forecast) and outcome.
	UpstreamCallsTotal *prometheus.CounterVec

	// WeatherKit latency per call. Token signing is included.
	UpstreamDuration *prometheus.HistogramVec

	// Developer tokens signed. One per upstream call; tokens are not reused.
	TokensIssuedTotal prometheus.Counter

	// 0 closed, 1 half-open, 2 open.
	BreakerState prometheus.Gauge
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)
	UpstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherkit_calls_total",
			Help: "Total number of WeatherKit API calls",
		},
		[]string{"operation", "status"},
	)
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherkit_call_duration_seconds",
			Help:    "WeatherKit API latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)
	TokensIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weatherkit_tokens_issued_total",
			Help: "Total number of developer tokens signed",
		},
	)
	BreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "weatherkit_breaker_state",
			Help: "Circuit breaker state for WeatherKit calls (0 closed, 1 half-open, 2 open)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		UpstreamCallsTotal, UpstreamDuration, TokensIssuedTotal,
		BreakerState,
	)
}

// Handler serves application and runtime metrics in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
