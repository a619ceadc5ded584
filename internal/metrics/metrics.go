// Package metrics provides Prometheus metrics for Hydrarr upstream calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all Hydrarr metrics
	namespace = "hydrarr"
)

// Metrics holds the instruments recorded by the access layer
type Metrics struct {
	// UpstreamRequests counts upstream calls by service type and outcome
	UpstreamRequests *prometheus.CounterVec

	// UpstreamDuration tracks upstream call latency
	UpstreamDuration *prometheus.HistogramVec

	// FallbackServed counts demo-mode responses by operation
	FallbackServed *prometheus.CounterVec

	// ProviderFailures counts swallowed provider failures in fan-out operations
	ProviderFailures *prometheus.CounterVec

	// BreakerState is 0 closed, 1 half-open, 2 open
	BreakerState *prometheus.GaugeVec
}

// New creates the instruments and registers them on reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of upstream API calls",
			},
			[]string{"service", "outcome"},
		),
		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Duration of upstream API calls in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
			},
			[]string{"service"},
		),
		FallbackServed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sample_fallback_total",
				Help:      "Total number of responses served from built-in sample data",
			},
			[]string{"operation"},
		),
		ProviderFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_failures_total",
				Help:      "Provider failures isolated during aggregation",
			},
			[]string{"operation", "service"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state per endpoint (0 closed, 1 half-open, 2 open)",
			},
			[]string{"endpoint"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.UpstreamRequests,
			m.UpstreamDuration,
			m.FallbackServed,
			m.ProviderFailures,
			m.BreakerState,
		)
	}

	return m
}

// ObserveRequest records one upstream call
func (m *Metrics) ObserveRequest(service, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(service, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}

// ObserveFallback records a demo-mode response
func (m *Metrics) ObserveFallback(operation string) {
	if m == nil {
		return
	}
	m.FallbackServed.WithLabelValues(operation).Inc()
}

// ObserveProviderFailure records an isolated provider failure
func (m *Metrics) ObserveProviderFailure(operation, service string) {
	if m == nil {
		return
	}
	m.ProviderFailures.WithLabelValues(operation, service).Inc()
}

// SetBreakerState records the state of an endpoint's breaker
func (m *Metrics) SetBreakerState(endpoint string, state float64) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(endpoint).Set(state)
}
