// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package feed

import (
	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/pool"
)

// Diversify removes items repeated across the pools of one response page.
//
// Pools are processed in order. Each keeps its own items that no earlier
// pool used, then backfills from its superset, in superset order, with
// items nobody has used yet, up to limit. Pools left empty are dropped.
// Each kept pool's continuation is moved to just after its last shown item.
// The input pools are not modified.
func Diversify(pools []pool.Pool, limit int) []pool.Pool {
	if limit < 1 {
		return nil
	}
	used := make(map[catalog.Key]struct{})
	out := make([]pool.Pool, 0, len(pools))

	for _, p := range pools {
		items := make([]catalog.Item, 0, limit)
		local := make(map[catalog.Key]struct{}, limit)

		take := func(candidates []catalog.Item) {
			for _, it := range candidates {
				if len(items) == limit {
					return
				}
				k := it.Key()
				if _, dup := used[k]; dup {
					continue
				}
				if _, dup := local[k]; dup {
					continue
				}
				local[k] = struct{}{}
				items = append(items, it)
			}
		}
		take(p.Items)
		take(p.Superset)

		if len(items) == 0 {
			continue
		}
		for k := range local {
			used[k] = struct{}{}
		}
		p.Keep(items)
		out = append(out, p)
	}
	return out
}
