// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

/*
Package middleware provides the infrastructure middleware mounted by the api
router. All of it uses the chi signature func(http.Handler) http.Handler.

  - RequestID: X-Request-ID propagation and logging context
  - AccessLog: one zerolog line per request
  - PrometheusMetrics: request counters and latency histograms keyed by
    chi route pattern

Order matters: RequestID must run first so the other two see the ids in the
request context.

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
