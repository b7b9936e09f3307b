// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

/*
Package services provides suture.Service wrappers for Streamshelf components.

HTTPServerService adapts the blocking ListenAndServe of *http.Server to
suture's Serve(ctx). On cancellation it drains in-flight requests with
Shutdown and closes whatever is still running once the drain timeout passes.

CacheJanitorService periodically calls Cleanup on the response and lookup
caches so entries that are never read again do not accumulate.

Each wrapper implements fmt.Stringer so suture can name it in log events.
*/
package services
