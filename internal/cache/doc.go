// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

/*
Package cache provides the thread-safe in-memory TTL cache used by every layer
of the feed engine.

# Overview

Each cache domain (availability, shelf catalog, pages, composite feeds, watch
links) gets its own Cache instance so hit rates and evictions are reported per
domain. TTLs are passed on every Set; the domain TTLs live in config.

Entries are derived values. Concurrent fills of the same key are allowed and
the last writer wins, so there is no locking beyond the map itself.

# Expiration

Expiry is checked lazily on Get. Expired entries are also swept by the cache
janitor service (internal/supervisor/services) calling Cleanup on an interval.
The clock is injectable so tests can step time forward:

	now := time.Unix(0, 0)
	c := cache.New("availability", cache.WithClock(func() time.Time { return now }))
	c.Set("avail:movie:1", true, time.Hour)
	now = now.Add(2 * time.Hour)
	_, fresh := c.Get("avail:movie:1") // fresh == false

# Keys

Use the prefix constants in keys.go together with GenerateKey for composite
keys built from request parameters.
*/
package cache
