// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

/*
Package feed assembles the paginated home feed and single-shelf views.

A feed request is resolved into a filter context (explicit providers,
saved preferences or guest), the caller's shelf list is sliced to the
requested page window, and every shelf in the window is built concurrently:

	shelf list -> window -> pool builds (errgroup, limit ShelfConcurrency)
	                          \-> availability lookups (one semaphore per request)
	           -> Diversify -> cached response

Pools are built with BackfillHeadroom extra items so Diversify can replace
titles that an earlier shelf on the same page already shows. Responses are
cached per filter signature and page; empty responses and cancelled
requests are never cached.
*/
package feed
