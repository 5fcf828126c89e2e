// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads Marquee's configuration.
//
// Configuration is layered with Koanf v2 (highest priority wins):
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, config.yaml, /etc/marquee/config.yaml)
//  3. Environment variables (TMDB_API_KEY, REDIS_URL, CACHE_BACKEND, ...)
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
package config

import (
	"time"
)

// Cache backends accepted by CacheConfig.Backend.
const (
	CacheBackendRedis  = "redis"
	CacheBackendBadger = "badger"
	CacheBackendMemory = "memory"
	CacheBackendNone   = "none"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Cache     CacheConfig     `koanf:"cache"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CacheConfig selects and configures the cache gateway backend.
type CacheConfig struct {
	// Backend is one of redis, badger, memory, none.
	Backend string `koanf:"backend"`

	Redis  RedisConfig  `koanf:"redis"`
	Badger BadgerConfig `koanf:"badger"`

	// OpTimeout bounds every individual cache operation.
	OpTimeout time.Duration `koanf:"op_timeout"`

	// ProbeInterval is how often the availability probe runs.
	ProbeInterval time.Duration `koanf:"probe_interval"`
}

// RedisConfig holds redis connection settings. URL takes precedence over Host/Port.
type RedisConfig struct {
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	TLS      bool   `koanf:"tls"`
}

// BadgerConfig holds embedded badger settings. An empty Path runs in memory.
type BadgerConfig struct {
	Path string `koanf:"path"`
}

// CatalogConfig holds upstream movie catalog (TMDB) settings.
type CatalogConfig struct {
	BaseURL        string        `koanf:"base_url"`
	APIKey         string        `koanf:"api_key"`
	Timeout        time.Duration `koanf:"timeout"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	RateLimitRPS   float64       `koanf:"rate_limit_rps"`
	RateLimitBurst int           `koanf:"rate_limit_burst"`
	MaxRetries     int           `koanf:"max_retries"`
}

// DatabaseConfig holds DuckDB user store settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
	SeedFile  string `koanf:"seed_file"`
}

// RecommendConfig holds recommendation engine tuning.
type RecommendConfig struct {
	DefaultLimit      int           `koanf:"default_limit"`
	MaxLimit          int           `koanf:"max_limit"`
	MinRatingsForCF   int           `koanf:"min_ratings_for_cf"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	EnrichConcurrency int           `koanf:"enrich_concurrency"`
	PeerPoolLimit     int           `koanf:"peer_pool_limit"` // 0 = unbounded
	PeerSnapshotTTL   time.Duration `koanf:"peer_snapshot_ttl"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	SimilarityWorkers int           `koanf:"similarity_workers"` // 0 = runtime.NumCPU()
}

// SecurityConfig holds CORS and inbound rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Load reads configuration from defaults, the config file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
