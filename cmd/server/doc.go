// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main is the entry point for the Marquee server.
//
// Marquee serves movie recommendations computed from user ratings stored in
// DuckDB and movie data fetched from TMDB, with results cached in redis,
// badger or process memory.
//
// # Startup
//
//  1. Environment: an optional .env file is loaded (godotenv)
//  2. Configuration: defaults, config.yaml, then environment (koanf)
//  3. Database: DuckDB user store, optionally seeded from a YAML fixture
//  4. Cache: the configured gateway behind a best-effort wrapper
//  5. Catalog: TMDB client with rate limiting, circuit breaker and cache-aside
//  6. Engine: tiered recommendation engine over a peer-pool snapshot
//  7. Events: in-process rating event bus and cache invalidation consumer
//  8. Supervisor tree: cache probe, event consumer and HTTP server
//
// # Configuration
//
// Commonly set environment variables:
//
//	TMDB_API_KEY=...            # required
//	PORT=5050
//	CACHE_BACKEND=redis         # redis | badger | memory | none
//	REDIS_URL=redis://localhost:6379/0
//	DUCKDB_PATH=/data/marquee.duckdb
//	SEED_FILE=/data/seed.yaml
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
// server gracefully, then the consumer and probe. The cache and database are
// closed last.
//
// # Example Usage
//
//	export TMDB_API_KEY=your-key
//	export CACHE_BACKEND=memory
//	./marquee
//
//	curl localhost:5050/api/v1/recommendations/user/alice?limit=10
package main
