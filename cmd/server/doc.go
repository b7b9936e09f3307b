// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

/*
Package main is the entry point for the Streamshelf server.

Streamshelf serves paginated home feeds of movie and series shelves, each
shelf narrowed to titles actually streamable on the caller's services in the
caller's countries.

# Application Architecture

	RootSupervisor ("streamshelf")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Cache janitor (sweeps expired entries on an interval)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, optional YAML file and environment
 2. Logging: zerolog with JSON or console output
 3. Caches: one in-memory cache per domain (feed, shelf, availability, pages, ...)
 4. Upstream: TMDB client, streaming availability client and watch-page scraper,
    each behind a rate limiter and circuit breaker
 5. Engine: availability resolver, shelf builder, pool builder, orchestrator
 6. Preferences: JSON file store (in-memory when no path is set)
 7. Supervisor tree and HTTP server

# Configuration

Priority: environment variables > config file > defaults. The config file is
read from CONFIG_PATH, ./config.yaml or /etc/streamshelf/config.yaml.

	# Server
	HTTP_PORT=8080
	HTTP_TIMEOUT=30s
	SHUTDOWN_TIMEOUT=10s
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Upstreams
	TMDB_API_KEY=<key>           # required for catalog data
	STREAMING_API_KEY=<key>      # optional, enables recently added shelves

	# Feed
	FEED_DEFAULT_COUNTRY=US
	FEED_GEO_HEADERS=CF-IPCountry,X-Country-Code
	FEED_SHELVES_PER_PAGE=6

	# Cache
	CACHE_AVAILABILITY_TTL=6h
	CACHE_AVAILABILITY_FAILURE_TTL=1m   # a failed provider lookup hides a title this long

	# Security
	CORS_ORIGINS=https://app.example.com
	RATE_LIMIT_REQS=120
	RATE_LIMIT_WINDOW=1m
	TRUSTED_USER_HEADER=X-User-ID

	# Preferences
	PREFERENCES_PATH=/data/preferences.json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server stops accepting
connections and drains in-flight requests for up to SHUTDOWN_TIMEOUT, then
closes connections still open so their feed builds stop.

# Example Usage

	export TMDB_API_KEY=your-key
	export LOG_FORMAT=console
	./streamshelf

	curl -H 'X-User-ID: alice' 'http://localhost:8080/api/v1/feed?providerIds=8,9&countries=US'
*/
package main
