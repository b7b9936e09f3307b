// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package pool

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/logging"
	"github.com/tomtom215/streamshelf/internal/metrics"
)

// Path names how a pool was filtered.
type Path string

const (
	// PathFast pushes the provider filter into a discovery query.
	PathFast Path = "fast"
	// PathSlow filters each fetched page through the availability resolver.
	PathSlow Path = "slow"
	// PathGuest takes items unfiltered.
	PathGuest Path = "guest"
	// PathRecent walks the change-feed cursor.
	PathRecent Path = "recent"
)

// Fetcher pages upstream listings.
type Fetcher interface {
	FetchShelfPage(ctx context.Context, shelf catalog.ShelfDefinition, page int) (catalog.Page, error)
	FetchRecentlyAdded(ctx context.Context, codes, countries []string, kind catalog.MediaKind, cursor string) (catalog.ChangesPage, error)
}

// Filterer keeps the items available under a filter context.
type Filterer interface {
	FilterAvailable(ctx context.Context, items []catalog.Item, fc catalog.FilterContext, gate *semaphore.Weighted) []catalog.Item
}

// Options are the scan budgets.
type Options struct {
	PrimaryBudget   int // pages scanned while below target
	SecondaryBudget int // extra pages allowed to reach MinRowFloor
	MinRowFloor     int
	RecentRounds    int // change-feed rounds per build
}

// Request describes one pool build.
type Request struct {
	Shelf      catalog.ShelfDefinition
	Filter     catalog.FilterContext
	TargetSize int
	StartPage  int
	Cursor     string

	// StartOffset skips that many upstream items of StartPage (or of the
	// first change-feed round) already served by a previous build.
	StartOffset int

	// Gate bounds availability lookups across every pool of a request.
	Gate *semaphore.Weighted

	// PrimaryBudget overrides Options.PrimaryBudget when positive.
	PrimaryBudget int
}

// Pool is the filtered, deduplicated content of one shelf.
type Pool struct {
	Shelf catalog.ShelfDefinition

	// Items holds at most the target size, in first-seen order.
	Items []catalog.Item
	// Superset holds every approved item in fetch order, the backfill source.
	Superset []catalog.Item

	// The continuation resumes right after the last item of Items. A
	// page-based shelf resumes at NextPage skipping NextOffset upstream
	// items; a change-feed shelf resumes at NextCursor skipping NextOffset
	// items of that round. All zero means exhausted.
	NextPage   int
	NextOffset int
	NextCursor string

	TotalPages   int
	PagesFetched int
	Path         Path

	// positions parallels Superset; end continues after the whole superset.
	positions []position
	end       continuation
}

// continuation is where the next build of a shelf resumes.
type continuation struct {
	page   int
	offset int
	cursor string
}

// position locates an approved item in the upstream listing.
type position struct {
	page   int    // 0 for change-feed items
	cursor string // cursor the change-feed round was requested with
	after  string // the round's next cursor
	index  int    // among the page's raw items, before filtering
	last   bool   // final raw item of its page or round
}

func (pos position) successor(totalPages int) continuation {
	if !pos.last {
		return continuation{page: pos.page, offset: pos.index + 1, cursor: pos.cursor}
	}
	if pos.page == 0 {
		return continuation{cursor: pos.after}
	}
	if totalPages > 0 && pos.page >= totalPages {
		return continuation{}
	}
	return continuation{page: pos.page + 1}
}

// HasMore reports whether the continuation points anywhere.
func (p *Pool) HasMore() bool {
	return p.NextPage > 0 || p.NextCursor != "" || p.NextOffset > 0
}

// Keep replaces Items with a selection from Superset and moves the
// continuation to just after the selected item that comes last in
// Superset, so paging on never skips an item that was fetched but not
// shown. Items of Superset before that point that are not selected are
// assumed to be shown elsewhere. Pools without position data keep their
// continuation.
func (p *Pool) Keep(items []catalog.Item) {
	p.Items = items
	if len(p.positions) != len(p.Superset) {
		return
	}
	index := make(map[catalog.Key]int, len(p.Superset))
	for i, it := range p.Superset {
		index[it.Key()] = i
	}
	last := -1
	for _, it := range items {
		if i, ok := index[it.Key()]; ok && i > last {
			last = i
		}
	}
	p.resumeAfter(last)
}

// resumeAfter sets the continuation after Superset[i]; -1 or the final
// superset index continue after everything fetched.
func (p *Pool) resumeAfter(i int) {
	c := p.end
	if i >= 0 && i < len(p.positions)-1 {
		c = p.positions[i].successor(p.TotalPages)
	}
	p.NextPage, p.NextOffset, p.NextCursor = c.page, c.offset, c.cursor
}

// Builder builds pools from upstream pages.
type Builder struct {
	fetcher  Fetcher
	resolver Filterer
	opts     Options
}

// NewBuilder creates a pool builder.
func NewBuilder(fetcher Fetcher, resolver Filterer, opts Options) *Builder {
	if opts.PrimaryBudget < 1 {
		opts.PrimaryBudget = 1
	}
	if opts.RecentRounds < 1 {
		opts.RecentRounds = 1
	}
	return &Builder{fetcher: fetcher, resolver: resolver, opts: opts}
}

// BuildPool builds one pool. It never fails: fetch errors end the scan and
// whatever was collected so far is returned.
func (b *Builder) BuildPool(ctx context.Context, req Request) Pool {
	start := time.Now()

	var p Pool
	if req.Shelf.Strategy == catalog.StrategyRecentlyAdded {
		p = b.buildRecent(ctx, req)
	} else {
		p = b.scan(ctx, req)
	}
	p.Shelf = req.Shelf

	metrics.RecordPoolBuild(string(p.Path), p.PagesFetched, time.Since(start))
	return p
}

// plan picks the filtering path and the shelf actually fetched.
func plan(shelf catalog.ShelfDefinition, fc catalog.FilterContext) (Path, catalog.ShelfDefinition) {
	if fc.Guest() {
		return PathGuest, shelf
	}
	if country := fc.SingleCountry(); country != "" && shelf.DiscoverRepresentable() {
		return PathFast, shelf.AsDiscover(catalog.ProviderScope{
			ProviderIDs:  fc.ProviderIDs,
			Region:       country,
			Monetization: fc.Monetization,
		})
	}
	return PathSlow, shelf
}

// collector accumulates approved items without duplicates.
type collector struct {
	seen      map[catalog.Key]struct{}
	superset  []catalog.Item
	positions []position
}

func newCollector(capacity int) *collector {
	return &collector{
		seen:     make(map[catalog.Key]struct{}, capacity),
		superset: make([]catalog.Item, 0, capacity),
	}
}

// add records the approved items of one upstream page or round. raw is the
// page as fetched, approved the subset of raw[skip:] that passed filtering.
func (c *collector) add(at position, raw []catalog.Item, skip int, approved []catalog.Item) {
	index := make(map[catalog.Key]int, len(raw)-skip)
	for i := len(raw) - 1; i >= skip; i-- {
		index[raw[i].Key()] = i
	}
	for _, it := range approved {
		k := it.Key()
		if _, dup := c.seen[k]; dup {
			continue
		}
		c.seen[k] = struct{}{}
		pos := at
		pos.index = index[k]
		pos.last = pos.index == len(raw)-1
		c.superset = append(c.superset, it)
		c.positions = append(c.positions, pos)
	}
}

func (c *collector) len() int {
	return len(c.superset)
}

// finish trims Items to target and points the continuation after the last
// kept item. end is the continuation after the whole superset.
func (c *collector) finish(p *Pool, target int, end continuation) {
	n := min(target, len(c.superset))
	p.Superset = c.superset
	p.positions = c.positions
	p.end = end
	p.Items = c.superset[:n]
	p.resumeAfter(n - 1)
}

// scan pages a listing under the scan budget. The primary budget applies
// while the pool is below target; if the pool is still below the row floor
// afterwards the secondary budget continues until the floor is met.
func (b *Builder) scan(ctx context.Context, req Request) Pool {
	path, shelf := plan(req.Shelf, req.Filter)
	log := logging.Ctx(ctx).With().Str("component", "pool").Str("shelf", req.Shelf.ID).Str("path", string(path)).Logger()

	target := max(req.TargetSize, 1)
	primary := b.opts.PrimaryBudget
	if req.PrimaryBudget > 0 {
		primary = req.PrimaryBudget
	}
	floor := min(b.opts.MinRowFloor, target)

	p := Pool{Path: path}
	c := newCollector(target)
	page := max(req.StartPage, 1)
	offset := max(req.StartOffset, 0)
	budget := primary
	goal := target
	extended := false
	exhausted := false

	for {
		if c.len() >= goal {
			break
		}
		if p.PagesFetched >= budget {
			if !extended && c.len() < floor && b.opts.SecondaryBudget > 0 {
				extended = true
				budget += b.opts.SecondaryBudget
				goal = floor
				continue
			}
			break
		}
		if p.TotalPages > 0 && page > p.TotalPages {
			exhausted = true
			break
		}
		if ctx.Err() != nil {
			exhausted = true
			break
		}

		res, err := b.fetcher.FetchShelfPage(ctx, shelf, page)
		p.PagesFetched++
		if err != nil {
			log.Debug().Err(err).Int("page", page).Msg("Shelf page fetch failed, ending scan")
			exhausted = true
			break
		}
		if res.TotalPages > 0 {
			p.TotalPages = res.TotalPages
		}
		fetched := page
		page++
		if len(res.Items) == 0 {
			exhausted = true
			break
		}

		skip := min(offset, len(res.Items))
		offset = 0
		approved := res.Items[skip:]
		if path == PathSlow && len(approved) > 0 {
			approved = b.resolver.FilterAvailable(ctx, approved, req.Filter, req.Gate)
		}
		c.add(position{page: fetched}, res.Items, skip, approved)
	}

	var end continuation
	if !exhausted && p.TotalPages > 0 && page <= p.TotalPages {
		end.page = page
	}
	c.finish(&p, target, end)
	return p
}

// buildRecent walks the change feed from req.Cursor. The feed is already
// scoped to the shelf's catalogs and countries, so nothing is resolved.
func (b *Builder) buildRecent(ctx context.Context, req Request) Pool {
	shelf := req.Shelf
	target := max(req.TargetSize, 1)
	p := Pool{Path: PathRecent}
	c := newCollector(target)

	cursor := req.Cursor
	offset := max(req.StartOffset, 0)
	next := ""
	for round := 0; round < b.opts.RecentRounds && c.len() < target; round++ {
		if ctx.Err() != nil {
			break
		}
		res, err := b.fetcher.FetchRecentlyAdded(ctx, shelf.CatalogCodes, shelf.Countries, shelf.Kind, cursor)
		p.PagesFetched++
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).Str("component", "pool").Str("shelf", shelf.ID).
				Msg("Change feed fetch failed, ending scan")
			break
		}
		skip := min(offset, len(res.Items))
		offset = 0
		c.add(position{cursor: cursor, after: res.NextCursor}, res.Items, skip, res.Items[skip:])
		next = res.NextCursor
		if next == "" {
			break
		}
		cursor = next
	}

	c.finish(&p, target, continuation{cursor: next})
	return p
}
