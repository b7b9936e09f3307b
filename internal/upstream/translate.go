// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package upstream

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/streamshelf/internal/catalog"
)

// discoverQuery translates typed filters into TMDB discover parameters.
// Later filters of the same variant override earlier ones.
func discoverQuery(kind catalog.MediaKind, filters []catalog.Filter) url.Values {
	q := url.Values{}
	q.Set("sort_by", "popularity.desc")
	q.Set("include_adult", "false")

	dateField := "primary_release_date"
	if kind == catalog.KindSeries {
		dateField = "first_air_date"
	}

	for _, f := range filters {
		switch v := f.(type) {
		case catalog.DateRange:
			setIf(q, dateField+".gte", v.From)
			setIf(q, dateField+".lte", v.To)
		case catalog.RatingRange:
			if v.Min > 0 {
				q.Set("vote_average.gte", strconv.FormatFloat(v.Min, 'f', -1, 64))
			}
			if v.Max > 0 {
				q.Set("vote_average.lte", strconv.FormatFloat(v.Max, 'f', -1, 64))
			}
			if v.MinVotes > 0 {
				q.Set("vote_count.gte", strconv.Itoa(v.MinVotes))
			}
			if v.MaxVotes > 0 {
				q.Set("vote_count.lte", strconv.Itoa(v.MaxVotes))
			}
		case catalog.GenreSet:
			setIf(q, "with_genres", joinInts(v.With, ","))
			setIf(q, "without_genres", joinInts(v.Without, ","))
		case catalog.Language:
			setIf(q, "with_original_language", v.Code)
		case catalog.RuntimeRange:
			if v.Min > 0 {
				q.Set("with_runtime.gte", strconv.Itoa(v.Min))
			}
			if v.Max > 0 {
				q.Set("with_runtime.lte", strconv.Itoa(v.Max))
			}
		case catalog.ProviderScope:
			// Pipe means OR: available on any of the providers.
			q.Set("with_watch_providers", joinInts(v.ProviderIDs, "|"))
			q.Set("watch_region", v.Region)
			q.Set("with_watch_monetization_types", monetizationTypes(v.Monetization))
		case catalog.SortBy:
			setIf(q, "sort_by", v.Field)
		}
	}
	return q
}

func monetizationTypes(m catalog.Monetization) string {
	if m == catalog.IncludePaid {
		return "flatrate|free|ads|rent|buy"
	}
	return "flatrate|free|ads"
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func joinInts(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}

// tmdbPath maps a media kind to the TMDB path segment.
func tmdbPath(kind catalog.MediaKind) string {
	if kind == catalog.KindSeries {
		return "tv"
	}
	return "movie"
}
