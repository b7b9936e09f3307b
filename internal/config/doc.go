// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

/*
Package config loads application configuration with koanf.

Sources are layered with clear precedence: environment variables override the
optional YAML file, which overrides built-in defaults. The file is looked up
at $CONFIG_PATH, then ./config.yaml and /etc/streamshelf/config.yaml.

Only environment variables listed in the mapping table are read, for example:

	TMDB_API_KEY              tmdb.api_key
	STREAMING_API_KEY         streaming.api_key (RAPIDAPI_KEY also accepted)
	FEED_DEFAULT_COUNTRY      feed.default_country
	FEED_PRIMARY_SCAN_BUDGET  feed.primary_scan_budget
	CACHE_FEED_TTL            cache.feed_ttl (Go duration, e.g. 20m)
	CORS_ORIGINS              security.cors_origins (comma separated)
	LOG_LEVEL                 logging.level

Provider catalog code overrides are file-only:

	streaming:
	  catalog_codes:
	    "1796": netflix
*/
package config
