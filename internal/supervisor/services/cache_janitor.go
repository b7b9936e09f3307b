// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package services

import (
	"context"
	"time"

	"github.com/tomtom215/streamshelf/internal/logging"
)

// Sweeper is a cache that can drop its expired entries in bulk.
// *cache.Cache satisfies it.
type Sweeper interface {
	Name() string
	Cleanup() int
}

// CacheJanitorService sweeps expired entries out of a set of caches on a
// fixed interval. Reads already ignore expired entries; the sweep bounds
// memory held by keys that are never read again.
type CacheJanitorService struct {
	caches   []Sweeper
	interval time.Duration
	name     string
}

// NewCacheJanitorService sweeps caches every interval. A non-positive
// interval means one minute.
func NewCacheJanitorService(interval time.Duration, caches ...Sweeper) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{
		caches:   caches,
		interval: interval,
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service.
func (j *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep runs one cleanup pass over every cache and returns the total number
// of entries removed.
func (j *CacheJanitorService) Sweep() int {
	total := 0
	for _, c := range j.caches {
		n := c.Cleanup()
		if n > 0 {
			logging.Debug().Str("cache", c.Name()).Int("evicted", n).Msg("Cache sweep")
		}
		total += n
	}
	return total
}

// String implements fmt.Stringer for suture's logs.
func (j *CacheJanitorService) String() string {
	return j.name
}
