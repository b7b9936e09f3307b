// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package upstream

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"

	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/config"
)

// MaxWatchLinkCountries caps how many watch pages one request may scrape.
const MaxWatchLinkCountries = 12

const clickoutHost = "click.justwatch.com"

// WatchPageScraper extracts provider deep links from the public TMDB watch
// page, which embeds clickout anchors carrying the provider and offer type.
type WatchPageScraper struct {
	rest *restClient
}

// NewWatchPageScraper creates a scraper for the configured TMDB web origin.
// It shares the TMDB pacing settings but has its own breaker.
func NewWatchPageScraper(cfg config.TMDBConfig) *WatchPageScraper {
	rest := newRESTClient("tmdb_web", cfg.WebBaseURL, cfg.Timeout, cfg.RequestsPerSecond/4+1, 4)
	rest.headers.Set("User-Agent", "Mozilla/5.0 (compatible; Streamshelf/1.0)")
	rest.headers.Set("Accept", "text/html")
	return &WatchPageScraper{rest: rest}
}

// WatchLinks scrapes one country's watch page for a title.
func (s *WatchPageScraper) WatchLinks(ctx context.Context, kind catalog.MediaKind, id int, country string) ([]catalog.WatchLink, error) {
	path := fmt.Sprintf("/%s/%d/watch", tmdbPath(kind), id)
	q := url.Values{}
	q.Set("locale", country)

	var links []catalog.WatchLink
	err := s.rest.do(ctx, "watch_page", path, q, func(body io.Reader) error {
		doc, err := goquery.NewDocumentFromReader(body)
		if err != nil {
			return fmt.Errorf("tmdb_web watch_page: failed to parse HTML: %w", err)
		}
		links = extractClickouts(doc, country)
		return nil
	})
	return links, err
}

// extractClickouts returns one link per (provider, monetization, target)
// in document order.
func extractClickouts(doc *goquery.Document, country string) []catalog.WatchLink {
	var out []catalog.WatchLink
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, clickoutHost+"/") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		target := strings.TrimSpace(u.Query().Get("r"))
		if target == "" {
			return
		}

		link := catalog.WatchLink{Country: country, URL: target}
		if ctx := decodeClickoutContext(u.Query().Get("cx")); ctx != nil {
			link.ProviderID = ctx.providerID()
			link.ProviderName = strings.TrimSpace(ctx.Provider)
			link.MonetizationType = strings.ToLower(strings.TrimSpace(ctx.MonetizationType))
			link.PresentationType = strings.ToLower(strings.TrimSpace(ctx.PresentationType))
		}

		key := strconv.Itoa(link.ProviderID) + "|" + link.MonetizationType + "|" + target
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, link)
	})
	return out
}

type clickoutContext struct {
	ProviderID       json.RawMessage `json:"providerId"`
	Provider         string          `json:"provider"`
	MonetizationType string          `json:"monetizationType"`
	PresentationType string          `json:"presentationType"`
}

func (c *clickoutContext) providerID() int {
	return parseTMDBID(c.ProviderID)
}

// decodeClickoutContext decodes the base64url "cx" payload and returns the
// clickout_context entry, or nil.
func decodeClickoutContext(cx string) *clickoutContext {
	if cx == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(cx, "="))
	if err != nil {
		return nil
	}

	var payload struct {
		Data []struct {
			Schema string          `json:"schema"`
			Data   json.RawMessage `json:"data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	for _, entry := range payload.Data {
		if !strings.Contains(entry.Schema, "clickout_context") {
			continue
		}
		var ctx clickoutContext
		if err := json.Unmarshal(entry.Data, &ctx); err != nil {
			return nil
		}
		return &ctx
	}
	return nil
}

// NormalizeLinkCountries upper-cases and deduplicates country codes in
// input order, keeping at most MaxWatchLinkCountries.
func NormalizeLinkCountries(countries []string) []string {
	out := make([]string, 0, len(countries))
	seen := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		cc := catalog.NormalizeCountry(c)
		if cc == "" {
			continue
		}
		if _, dup := seen[cc]; dup {
			continue
		}
		seen[cc] = struct{}{}
		out = append(out, cc)
		if len(out) == MaxWatchLinkCountries {
			break
		}
	}
	return out
}

// watchLinkTimeout bounds a full multi-country scrape.
const watchLinkTimeout = 15 * time.Second
