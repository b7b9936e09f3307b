// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

/*
Package api provides the HTTP REST API layer for Streamshelf.

Every endpoint answers with the same JSON envelope:

	{
	  "success": true,
	  "data": { ... },
	  "error": null,
	  "metadata": {"requestId": "...", "timestamp": "...", "durationMs": 12, "cached": true}
	}

Errors set success to false and carry a machine-readable code:
VALIDATION_ERROR (400), NOT_FOUND (404), RATE_LIMIT_EXCEEDED (429),
SERVICE_UNAVAILABLE (503) and INTERNAL_ERROR (500). Internal errors are logged
with the request id and never echoed to the client.

Endpoints (/api/v1):

  - GET /feed: one page of shelves for the caller's providers and countries
  - GET /shelf/{shelfID}: one shelf, optionally several pages deep or resumed from a cursor
  - GET /search?q=: text search narrowed to available titles
  - GET /discover: attribute filters (genres, dates, ratings, language, runtime, sort)
  - GET /providers, GET /regions: upstream reference data
  - GET /titles/{mediaKind}/{id}/providers: per-country offer map
  - GET /titles/{mediaKind}/{id}/links: provider deep links per country
  - GET, PUT /preferences: saved selections keyed by the identity header
  - GET /health, GET /health/live: upstream breaker states and liveness

Filter parameters shared by the catalog endpoints:

	providerIds   comma-separated provider ids (alias: providers)
	countries     comma-separated country codes
	country       single country override
	mediaKind     movie, series or mixed (alias: type)
	vpn           any country counts
	includePaid   rent and buy offers count; when absent the saved preference applies
	unfiltered    ignore saved preferences

Every shelf carries nextPage, nextOffset and nextCursor. Passing them back to
/shelf as page, offset and cursor resumes right after the last item shown, so
items fetched but not shown are never skipped.

With no providers from the query or saved preferences the request runs in
guest mode and shelves are not narrowed by availability.

Middleware order: request id, real IP, access log, panic recovery, CORS and
compression globally; rate limiting, security headers, Prometheus metrics and
the request timeout on the API group.
*/
package api
