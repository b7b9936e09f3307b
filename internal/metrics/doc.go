// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

/*
Package metrics provides Prometheus metrics collection and export.

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: labels method, endpoint, status_code
  - api_request_duration_seconds: labels method, endpoint
  - api_active_requests

Upstream Metrics:
  - upstream_requests_total: labels upstream (tmdb, streaming, tmdb_web), endpoint, result
  - upstream_request_duration_seconds

Cache Metrics (cache_type is the cache domain name):
  - cache_hits_total, cache_misses_total, cache_evictions_total, cache_entries

Feed Engine Metrics:
  - feed_requests_total: labels endpoint, mode (personal, guest), cache (hit, miss)
  - pool_build_duration_seconds, pool_pages_fetched: label path (fast, slow, guest, recent)
  - availability_lookups_total: label result

Circuit Breaker Metrics:
  - circuit_breaker_state (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total, circuit_breaker_state_transitions_total

All collectors are registered with the default registry through promauto.
*/
package metrics
