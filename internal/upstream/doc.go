// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

/*
Package upstream provides the HTTP clients for the external catalog services
and the Adapter facade the feed engine reads through.

Clients:

  - TMDBClient: trending, top rated, discover, search, genres, per-title
    watch providers, provider and region lists
  - StreamingClient: the "new on streaming" change feed, scoped to provider
    catalog codes and countries, paged by cursor
  - WatchPageScraper: provider deep links parsed from the public watch page
    with goquery

Every client shares the same request path (restClient): a token bucket from
golang.org/x/time/rate paces calls, a gobreaker circuit breaker
short-circuits a failing upstream, and each call is recorded in the upstream
Prometheus metrics. Nothing retries; callers treat a failed fetch as the end
of a scan.

Errors:

	ErrNotConfigured   the client has no API key
	*StatusError       non-2xx response; errors.Is(err, ErrUpstreamStatus) matches it
	IsNotFound(err)    a 404 from upstream
	IsUnavailable(err) unconfigured, breaker open, 5xx/429 or a transport failure

Adapter routes shelf strategies to endpoints, translates catalog.Filter values
into discover parameters and reads listing pages, change-feed rounds, lists and
watch links through their own caches.
*/
package upstream
