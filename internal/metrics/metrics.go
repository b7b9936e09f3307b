// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the feed engine:
// - API endpoint latency and throughput
// - Upstream catalog calls
// - Cache efficiency per domain
// - Pool builds and availability lookups
// - Circuit breaker state

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Upstream Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream catalog requests",
		},
		[]string{"upstream", "endpoint", "result"}, // result: "ok", "error", "rejected"
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream catalog request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"upstream", "endpoint"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "availability", "shelves", "feed", ...
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Feed Engine Metrics
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of feed and shelf requests",
		},
		[]string{"endpoint", "mode", "cache"}, // mode: "personal", "guest"; cache: "hit", "miss"
	)

	PoolBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pool_build_duration_seconds",
			Help:    "Duration of a single shelf pool build",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"path"}, // "fast", "slow", "guest", "recent"
	)

	PoolPagesFetched = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pool_pages_fetched",
			Help:    "Upstream pages fetched per shelf pool build",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 10, 15},
		},
		[]string{"path"},
	)

	AvailabilityLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_lookups_total",
			Help: "Total number of availability lookups that reached upstream",
		},
		[]string{"result"}, // "available", "unavailable", "error"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamRequest records one upstream call. A nil err counts as "ok".
func RecordUpstreamRequest(upstream, endpoint string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(upstream, endpoint, result).Inc()
	UpstreamRequestDuration.WithLabelValues(upstream, endpoint).Observe(duration.Seconds())
}

// RecordCacheHit counts a fresh read from the named cache.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss counts a missing or stale read from the named cache.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheSweep reports the result of one janitor pass.
func RecordCacheSweep(cacheType string, evicted, remaining int) {
	CacheEvictions.WithLabelValues(cacheType).Add(float64(evicted))
	CacheSize.WithLabelValues(cacheType).Set(float64(remaining))
}

// RecordFeedRequest counts a feed or shelf request by filter mode and cache outcome.
func RecordFeedRequest(endpoint string, guest, cached bool) {
	mode := "personal"
	if guest {
		mode = "guest"
	}
	hit := "miss"
	if cached {
		hit = "hit"
	}
	FeedRequestsTotal.WithLabelValues(endpoint, mode, hit).Inc()
}

// RecordPoolBuild records a finished pool build.
func RecordPoolBuild(path string, pages int, duration time.Duration) {
	PoolBuildDuration.WithLabelValues(path).Observe(duration.Seconds())
	PoolPagesFetched.WithLabelValues(path).Observe(float64(pages))
}

// RecordAvailabilityLookup counts an upstream-backed availability decision.
func RecordAvailabilityLookup(available bool, err error) {
	switch {
	case err != nil:
		AvailabilityLookups.WithLabelValues("error").Inc()
	case available:
		AvailabilityLookups.WithLabelValues("available").Inc()
	default:
		AvailabilityLookups.WithLabelValues("unavailable").Inc()
	}
}

// SetAppInfo publishes the build version.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// FormatStatus converts an HTTP status code to a label value.
func FormatStatus(code int) string {
	return strconv.Itoa(code)
}
