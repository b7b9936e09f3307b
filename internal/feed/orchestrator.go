// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package feed

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tomtom215/streamshelf/internal/cache"
	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/config"
	"github.com/tomtom215/streamshelf/internal/logging"
	"github.com/tomtom215/streamshelf/internal/metrics"
	"github.com/tomtom215/streamshelf/internal/pool"
	"github.com/tomtom215/streamshelf/internal/prefs"
	"github.com/tomtom215/streamshelf/internal/shelves"
)

var (
	// ErrShelfNotFound is returned for shelf ids not in the caller's list.
	ErrShelfNotFound = errors.New("shelf not found")

	// ErrEmptyQuery is returned by Search for a blank query.
	ErrEmptyQuery = errors.New("search query is empty")
)

// ShelfSource builds shelf lists.
type ShelfSource interface {
	BuildShelves(ctx context.Context, sel catalog.Selection, providerIDs []int, countries []string) []catalog.ShelfDefinition
	BuildGuestShelves(ctx context.Context, sel catalog.Selection, country string) []catalog.ShelfDefinition
}

// PoolBuilder builds the content of one shelf.
type PoolBuilder interface {
	BuildPool(ctx context.Context, req pool.Request) pool.Pool
}

// PreferenceSource looks up a user's saved filter defaults.
type PreferenceSource interface {
	Get(userID string) (prefs.Preferences, bool, error)
}

// Orchestrator assembles paginated feeds and single shelves.
type Orchestrator struct {
	shelves    ShelfSource
	pools      PoolBuilder
	prefs      PreferenceSource
	feedCache  cache.Cacher
	shelfCache cache.Cacher
	cfg        config.FeedConfig
	feedTTL    time.Duration
	shelfTTL   time.Duration
}

// NewOrchestrator wires the engine. prefs may be nil.
func NewOrchestrator(sh ShelfSource, pools PoolBuilder, saved PreferenceSource, feedCache, shelfCache cache.Cacher, cfg config.FeedConfig, ttl config.CacheConfig) *Orchestrator {
	return &Orchestrator{
		shelves:    sh,
		pools:      pools,
		prefs:      saved,
		feedCache:  feedCache,
		shelfCache: shelfCache,
		cfg:        cfg,
		feedTTL:    ttl.FeedTTL,
		shelfTTL:   ttl.ShelfTTL,
	}
}

// ShelfView is one shelf as returned to clients. NextPage, NextOffset and
// NextCursor are passed back as page, offset and cursor to continue right
// after the last item shown.
type ShelfView struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	MediaKind  catalog.MediaKind `json:"mediaKind"`
	Strategy   catalog.Strategy  `json:"strategy"`
	Items      []catalog.Item    `json:"items"`
	NextPage   int               `json:"nextPage,omitempty"`
	NextOffset int               `json:"nextOffset,omitempty"`
	NextCursor string            `json:"nextCursor,omitempty"`
	TotalPages int               `json:"totalPages,omitempty"`
}

func viewOf(p pool.Pool) ShelfView {
	items := p.Items
	if items == nil {
		items = []catalog.Item{}
	}
	return ShelfView{
		ID:         p.Shelf.ID,
		Title:      p.Shelf.Title,
		MediaKind:  p.Shelf.Kind,
		Strategy:   p.Shelf.Strategy,
		Items:      items,
		NextPage:   p.NextPage,
		NextOffset: p.NextOffset,
		NextCursor: p.NextCursor,
		TotalPages: p.TotalPages,
	}
}

// FeedRequest asks for one page of shelves.
type FeedRequest struct {
	FilterParams
	Page     int
	PageSize int
}

// FeedResponse is one page of the home feed.
type FeedResponse struct {
	Shelves      []ShelfView `json:"shelves"`
	Page         int         `json:"page"`
	PageSize     int         `json:"pageSize"`
	TotalShelves int         `json:"totalShelves"`
	HasMore      bool        `json:"hasMore"`
	NextPage     int         `json:"nextPage,omitempty"`
	Mode         string      `json:"mode"`
	Countries    []string    `json:"countries,omitempty"`
	AnyCountry   bool        `json:"anyCountry,omitempty"`

	Cached bool `json:"-"`
}

// ShelfRequest asks for one shelf, possibly several upstream pages deep.
type ShelfRequest struct {
	FilterParams
	Page   int
	Offset int
	Pages  int
	Cursor string
}

// ShelfResponse is a single shelf with its continuation.
type ShelfResponse struct {
	Shelf   ShelfView `json:"shelf"`
	Page    int       `json:"page"`
	Pages   int       `json:"pages"`
	HasMore bool      `json:"hasMore"`
	Mode    string    `json:"mode"`

	Cached bool `json:"-"`
}

// SearchResponse holds one result shelf per media kind.
type SearchResponse struct {
	Query   string      `json:"query,omitempty"`
	Shelves []ShelfView `json:"shelves"`
	Mode    string      `json:"mode"`
}

func mode(fc catalog.FilterContext) string {
	if fc.Guest() {
		return "guest"
	}
	return "personalized"
}

type feedKey struct {
	Providers   []int
	Countries   []string
	AnyCountry  bool
	IncludePaid bool
	Selection   catalog.Selection
	Page        int
	PageSize    int
	Guest       bool
}

// GetFeed returns one page of shelves for the resolved filter context.
func (o *Orchestrator) GetFeed(ctx context.Context, req FeedRequest) (*FeedResponse, error) {
	fc := o.ResolveFilter(req.FilterParams)
	page := max(req.Page, 1)
	size := req.PageSize
	if size <= 0 {
		size = o.cfg.ShelvesPerPage
	}
	size = min(size, o.cfg.MaxShelvesPerPage)

	key := cache.GenerateKey(cache.PrefixFeed, feedKey{
		Providers:   fc.ProviderIDs,
		Countries:   fc.Countries,
		AnyCountry:  fc.AnyCountry,
		IncludePaid: fc.Monetization == catalog.IncludePaid,
		Selection:   fc.Selection,
		Page:        page,
		PageSize:    size,
		Guest:       fc.Guest(),
	})
	if v, ok := o.feedCache.Get(key); ok {
		if resp, ok := v.(*FeedResponse); ok {
			metrics.RecordFeedRequest("feed", fc.Guest(), true)
			out := *resp
			out.Cached = true
			return &out, nil
		}
	}

	list := o.shelfList(ctx, fc)
	start := (page - 1) * size
	var window []catalog.ShelfDefinition
	if start < len(list) {
		window = list[start:min(start+size, len(list))]
	}

	target := o.cfg.ItemsPerShelf + o.cfg.BackfillHeadroom
	pools := o.buildPools(ctx, window, fc, target)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	diversified := Diversify(pools, o.cfg.ItemsPerShelf)

	resp := &FeedResponse{
		Shelves:      make([]ShelfView, 0, len(diversified)),
		Page:         page,
		PageSize:     size,
		TotalShelves: len(list),
		HasMore:      start+size < len(list),
		Mode:         mode(fc),
		Countries:    fc.Countries,
		AnyCountry:   fc.AnyCountry,
	}
	for _, p := range diversified {
		resp.Shelves = append(resp.Shelves, viewOf(p))
	}
	if resp.HasMore {
		resp.NextPage = page + 1
	}

	// An empty page usually means upstream is down; don't pin it.
	if len(resp.Shelves) > 0 {
		o.feedCache.Set(key, resp, o.feedTTL)
	}
	metrics.RecordFeedRequest("feed", fc.Guest(), false)
	logging.Ctx(ctx).Debug().Str("component", "feed").Str("mode", resp.Mode).Int("page", page).
		Int("shelves", len(resp.Shelves)).Int("total_shelves", len(list)).Msg("Feed page built")
	return resp, nil
}

func (o *Orchestrator) shelfList(ctx context.Context, fc catalog.FilterContext) []catalog.ShelfDefinition {
	if fc.Guest() {
		return o.shelves.BuildGuestShelves(ctx, fc.Selection, fc.SingleCountry())
	}
	return o.shelves.BuildShelves(ctx, fc.Selection, fc.ProviderIDs, fc.Countries)
}

// buildPools builds every shelf of a window concurrently. One availability
// gate is shared by all of them.
func (o *Orchestrator) buildPools(ctx context.Context, window []catalog.ShelfDefinition, fc catalog.FilterContext, target int) []pool.Pool {
	gate := semaphore.NewWeighted(int64(max(o.cfg.AvailabilityConcurrency, 1)))
	pools := make([]pool.Pool, len(window))

	var g errgroup.Group
	g.SetLimit(max(o.cfg.ShelfConcurrency, 1))
	for i, shelf := range window {
		g.Go(func() error {
			pools[i] = o.pools.BuildPool(ctx, pool.Request{
				Shelf:      shelf,
				Filter:     fc,
				TargetSize: target,
				Gate:       gate,
			})
			return nil
		})
	}
	_ = g.Wait() // pool builds never fail

	return pools
}

type shelfKey struct {
	ShelfID     string
	Providers   []int
	Countries   []string
	AnyCountry  bool
	IncludePaid bool
	Guest       bool
	Page        int
	Offset      int
	Pages       int
	Cursor      string
}

// GetShelf returns one shelf from the caller's list. pages (1..MaxShelfPages)
// scales both the item target and the primary scan budget.
func (o *Orchestrator) GetShelf(ctx context.Context, shelfID string, req ShelfRequest) (*ShelfResponse, error) {
	kind, ok := shelves.KindFromShelfID(shelfID)
	if !ok {
		return nil, ErrShelfNotFound
	}
	params := req.FilterParams
	params.MediaKind = catalog.SelectMovie
	if kind == catalog.KindSeries {
		params.MediaKind = catalog.SelectSeries
	}
	fc := o.ResolveFilter(params)

	page := max(req.Page, 1)
	offset := max(req.Offset, 0)
	pages := min(max(req.Pages, 1), max(o.cfg.MaxShelfPages, 1))

	key := cache.GenerateKey(cache.PrefixShelf, shelfKey{
		ShelfID:     shelfID,
		Providers:   fc.ProviderIDs,
		Countries:   fc.Countries,
		AnyCountry:  fc.AnyCountry,
		IncludePaid: fc.Monetization == catalog.IncludePaid,
		Guest:       fc.Guest(),
		Page:        page,
		Offset:      offset,
		Pages:       pages,
		Cursor:      req.Cursor,
	})
	if v, ok := o.shelfCache.Get(key); ok {
		if resp, ok := v.(*ShelfResponse); ok {
			metrics.RecordFeedRequest("shelf", fc.Guest(), true)
			out := *resp
			out.Cached = true
			return &out, nil
		}
	}

	var def catalog.ShelfDefinition
	found := false
	for _, s := range o.shelfList(ctx, fc) {
		if s.ID == shelfID {
			def, found = s, true
			break
		}
	}
	if !found {
		return nil, ErrShelfNotFound
	}

	p := o.pools.BuildPool(ctx, pool.Request{
		Shelf:         def,
		Filter:        fc,
		TargetSize:    o.cfg.ItemsPerShelf * pages,
		StartPage:     page,
		StartOffset:   offset,
		Cursor:        req.Cursor,
		Gate:          semaphore.NewWeighted(int64(max(o.cfg.AvailabilityConcurrency, 1))),
		PrimaryBudget: o.cfg.PrimaryScanBudget * pages,
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &ShelfResponse{
		Shelf:   viewOf(p),
		Page:    page,
		Pages:   pages,
		HasMore: p.HasMore(),
		Mode:    mode(fc),
	}
	if len(p.Items) > 0 {
		o.shelfCache.Set(key, resp, o.shelfTTL)
	}
	metrics.RecordFeedRequest("shelf", fc.Guest(), false)
	return resp, nil
}

// Search runs a free-text search per media kind, filtered like any shelf.
func (o *Orchestrator) Search(ctx context.Context, query string, fc catalog.FilterContext) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	defs := make([]catalog.ShelfDefinition, 0, 2)
	for _, kind := range fc.Selection.Kinds() {
		defs = append(defs, catalog.ShelfDefinition{
			ID:       string(kind) + ":search",
			Title:    "Results for \"" + query + "\"",
			Kind:     kind,
			Strategy: catalog.StrategySearch,
			Query:    query,
		})
	}
	resp, err := o.runSynthetic(ctx, defs, fc)
	if err != nil {
		return nil, err
	}
	resp.Query = query
	metrics.RecordFeedRequest("search", fc.Guest(), false)
	return resp, nil
}

// Discover runs an attribute-filtered discovery per media kind.
func (o *Orchestrator) Discover(ctx context.Context, filters []catalog.Filter, fc catalog.FilterContext) (*SearchResponse, error) {
	defs := make([]catalog.ShelfDefinition, 0, 2)
	for _, kind := range fc.Selection.Kinds() {
		defs = append(defs, catalog.ShelfDefinition{
			ID:       string(kind) + ":discover",
			Title:    "Discover",
			Kind:     kind,
			Strategy: catalog.StrategyDiscover,
			Filters:  filters,
		})
	}
	resp, err := o.runSynthetic(ctx, defs, fc)
	if err != nil {
		return nil, err
	}
	metrics.RecordFeedRequest("discover", fc.Guest(), false)
	return resp, nil
}

func (o *Orchestrator) runSynthetic(ctx context.Context, defs []catalog.ShelfDefinition, fc catalog.FilterContext) (*SearchResponse, error) {
	pools := o.buildPools(ctx, defs, fc, o.cfg.ItemsPerShelf)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp := &SearchResponse{Shelves: make([]ShelfView, 0, len(pools)), Mode: mode(fc)}
	for _, p := range pools {
		if len(p.Items) == 0 {
			continue
		}
		resp.Shelves = append(resp.Shelves, viewOf(p))
	}
	return resp, nil
}
