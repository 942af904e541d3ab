// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Fallback kinds.
const (
	FallbackDecimals     = "decimals"
	FallbackMessagingFee = "messaging_fee"
	FallbackAllowance    = "allowance"
)

var (
	// RequestsTotal counts API calls by endpoint, route family and outcome.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_requests_total",
			Help: "Number of quote and build requests by endpoint, route and outcome.",
		},
		[]string{"endpoint", "route", "outcome"},
	)

	// RequestDuration observes handler latency.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_request_duration_seconds",
			Help:    "Latency of bridge API requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// FallbacksTotal counts degraded-mode answers (default decimals, zero fee, trusted allowance).
	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_fallbacks_total",
			Help: "Number of RPC reads answered with a documented fallback value.",
		},
		[]string{"kind", "network"},
	)

	registerOnce sync.Once
)

// MustRegisterMetrics registers every collector with the default registry. Safe to call twice.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal, RequestDuration, FallbacksTotal)
	})
}

// RecordFallback increments the fallback counter for kind on network.
func RecordFallback(kind, network string) {
	FallbacksTotal.WithLabelValues(kind, network).Inc()
}
