// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package cache

import (
	"crypto/sha256"
	"fmt"

	"github.com/goccy/go-json"
)

// Key prefixes, one per cache domain.
const (
	PrefixAvailability = "avail"
	PrefixProviderMap  = "providers"
	PrefixShelves      = "shelves"
	PrefixGenres       = "genres"
	PrefixPage         = "page"
	PrefixRecent       = "recent"
	PrefixFeed         = "feed"
	PrefixShelf        = "shelf"
	PrefixWatchLinks   = "links"
	PrefixUpstreamList = "list"
)

// GenerateKey creates a compact cache key from a prefix and parameters.
// Parameters are JSON encoded and hashed, so struct field order matters and
// slices should be normalized by the caller.
func GenerateKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", prefix, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, hash[:16])
}
