// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package cache

import "time"

// Cacher is the read-through cache contract the engine components depend on.
// *Cache implements it; tests may substitute a double.
type Cacher interface {
	// Get returns the value and true when the entry exists and is fresh.
	Get(key string) (interface{}, bool)

	// Set stores value under key for ttl.
	Set(key string, value interface{}, ttl time.Duration)
}

var _ Cacher = (*Cache)(nil)
