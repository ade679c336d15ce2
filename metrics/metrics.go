// Package metrics provides Prometheus metrics for the simulator service.
// Scrape them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "okto_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "okto_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "okto_http_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)

	// Valuation Metrics
	ValuationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "okto_valuations_total",
			Help: "Valuation estimates by outcome (ok, invalid_input, unknown_brand)",
		},
		[]string{"outcome"},
	)

	ValuationCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "okto_valuation_cache_hits_total",
			Help: "Valuation estimates served from the cache",
		},
	)

	// Market Scan Metrics
	MarketScansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "okto_market_scans_total",
			Help: "Total number of synthetic market scans generated",
		},
	)

	ScanOpportunities = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "okto_market_scan_opportunities",
			Help:    "Number of opportunity listings per scan",
			Buckets: []float64{1, 2, 5, 10, 15, 20, 30, 50},
		},
	)

	SeededDealsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "okto_market_seeded_deals_total",
			Help: "Scans that needed an injected opportunity",
		},
	)

	// Simulator Metrics
	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "okto_simulations_total",
			Help: "Delayed simulator runs by flow and outcome (complete, superseded, cancelled, failed)",
		},
		[]string{"flow", "outcome"},
	)
)
