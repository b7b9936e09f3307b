// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

// Package availability decides whether catalog items are offered by a
// caller's streaming services in the caller's countries.
//
// Decisions are cached per (kind, id, country scope, provider set,
// monetization). Provider maps are cached separately per item so that
// different provider sets for the same title share one upstream lookup.
// Upstream failures are cached as "not available" (fail closed) for the
// shorter failure TTL; a cancelled request never writes to either cache.
package availability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/streamshelf/internal/cache"
	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/logging"
	"github.com/tomtom215/streamshelf/internal/metrics"
)

// defaultGateSize bounds FilterAvailable when the caller passes no gate.
const defaultGateSize = 8

// ProviderSource fetches the per-country provider map of one title.
type ProviderSource interface {
	FetchProviderMap(ctx context.Context, kind catalog.MediaKind, id int) (catalog.ProviderMap, error)
}

// Resolver answers availability questions through two caches.
type Resolver struct {
	source      ProviderSource
	decisions   cache.Cacher
	maps        cache.Cacher
	decisionTTL time.Duration
	mapTTL      time.Duration
	failureTTL  time.Duration
	group       singleflight.Group
}

// NewResolver creates a resolver. decisions holds booleans, maps holds
// provider maps. failureTTL applies to decisions made after a lookup error
// and is capped at decisionTTL.
func NewResolver(source ProviderSource, decisions, maps cache.Cacher, decisionTTL, mapTTL, failureTTL time.Duration) *Resolver {
	if failureTTL <= 0 || failureTTL > decisionTTL {
		failureTTL = decisionTTL
	}
	return &Resolver{
		source:      source,
		decisions:   decisions,
		maps:        maps,
		decisionTTL: decisionTTL,
		mapTTL:      mapTTL,
		failureTTL:  failureTTL,
	}
}

func decisionKey(kind catalog.MediaKind, id int, fc catalog.FilterContext) string {
	return fmt.Sprintf("%s:%s:%d:%s:%s:%s", cache.PrefixAvailability, kind, id,
		fc.CountrySignature(), fc.ProviderSignature(), fc.Monetization)
}

func mapKey(kind catalog.MediaKind, id int) string {
	return fmt.Sprintf("%s:%s:%d", cache.PrefixProviderMap, kind, id)
}

// IsAvailable reports whether the item is offered by any of the context's
// providers in any allowed country. A guest context has nothing to filter
// by and always yields true.
func (r *Resolver) IsAvailable(ctx context.Context, kind catalog.MediaKind, id int, fc catalog.FilterContext) bool {
	if fc.Guest() {
		return true
	}
	key := decisionKey(kind, id, fc)
	if ok, hit := r.cachedDecision(key); hit {
		return ok
	}
	return r.resolve(ctx, key, kind, id, fc)
}

func (r *Resolver) cachedDecision(key string) (available, hit bool) {
	v, ok := r.decisions.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func (r *Resolver) resolve(ctx context.Context, key string, kind catalog.MediaKind, id int, fc catalog.FilterContext) bool {
	if ctx.Err() != nil {
		return false
	}

	pm, err := r.providerMap(ctx, kind, id)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		logging.Ctx(ctx).Debug().Err(err).Str("component", "availability").
			Str("kind", string(kind)).Int("id", id).Msg("Provider lookup failed, treating as unavailable")
		metrics.RecordAvailabilityLookup(false, err)
		r.decisions.Set(key, false, r.failureTTL)
		return false
	}

	available := pm.Offers(fc.ProviderIDs, fc.Countries, fc.AnyCountry, fc.Monetization)
	metrics.RecordAvailabilityLookup(available, nil)
	r.decisions.Set(key, available, r.decisionTTL)
	return available
}

// providerMap reads through the map cache. Concurrent misses for the same
// title share one upstream call, which runs detached from the first caller's
// cancellation so the others are not failed by it; the client timeout still
// bounds it.
func (r *Resolver) providerMap(ctx context.Context, kind catalog.MediaKind, id int) (catalog.ProviderMap, error) {
	key := mapKey(kind, id)
	if v, ok := r.maps.Get(key); ok {
		if pm, ok := v.(catalog.ProviderMap); ok {
			return pm, nil
		}
	}

	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		pm, err := r.source.FetchProviderMap(shared, kind, id)
		if err != nil {
			return nil, err
		}
		if pm == nil {
			pm = catalog.ProviderMap{}
		}
		r.maps.Set(key, pm, r.mapTTL)
		return pm, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(catalog.ProviderMap), nil
	}
}

// Regions returns the cached per-country provider map of one title.
func (r *Resolver) Regions(ctx context.Context, kind catalog.MediaKind, id int) (catalog.ProviderMap, error) {
	return r.providerMap(ctx, kind, id)
}

// FilterAvailable checks items concurrently and returns the available ones
// in input order. gate bounds in-flight lookups and is meant to be shared by
// every shelf of one request; cached decisions do not take a slot.
func (r *Resolver) FilterAvailable(ctx context.Context, items []catalog.Item, fc catalog.FilterContext, gate *semaphore.Weighted) []catalog.Item {
	if fc.Guest() || len(items) == 0 {
		return items
	}
	if gate == nil {
		gate = semaphore.NewWeighted(defaultGateSize)
	}

	keep := make([]bool, len(items))
	var wg sync.WaitGroup

	for i, it := range items {
		key := decisionKey(it.Kind, it.ID, fc)
		if ok, hit := r.cachedDecision(key); hit {
			keep[i] = ok
			continue
		}
		if err := gate.Acquire(ctx, 1); err != nil {
			break // cancelled; remaining items stay unavailable
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer gate.Release(1)
			keep[i] = r.resolve(ctx, key, it.Kind, it.ID, fc)
		}()
	}
	wg.Wait()

	out := make([]catalog.Item, 0, len(items))
	for i, it := range items {
		if keep[i] {
			out = append(out, it)
		}
	}
	return out
}
