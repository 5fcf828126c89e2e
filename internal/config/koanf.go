// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marquee/config.yaml",
	"/etc/marquee/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, applied before file and env layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5050,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Cache: CacheConfig{
			Backend: CacheBackendMemory,
			Redis: RedisConfig{
				Host: "127.0.0.1",
				Port: 6379,
			},
			OpTimeout:     250 * time.Millisecond,
			ProbeInterval: 15 * time.Second,
		},
		Catalog: CatalogConfig{
			BaseURL:        "https://api.themoviedb.org/3",
			Timeout:        10 * time.Second,
			CacheTTL:       time.Hour,
			RateLimitRPS:   40,
			RateLimitBurst: 20,
			MaxRetries:     3,
		},
		Database: DatabaseConfig{
			Path:      "/data/marquee.duckdb",
			MaxMemory: "512MB",
			Threads:   0,
		},
		Recommend: RecommendConfig{
			DefaultLimit:      12,
			MaxLimit:          100,
			MinRatingsForCF:   3,
			CacheTTL:          6 * time.Hour,
			EnrichConcurrency: 8,
			PeerPoolLimit:     0,
			PeerSnapshotTTL:   time.Minute,
			RequestTimeout:    10 * time.Second,
			SimilarityWorkers: 0,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"http://localhost:5173"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// LoadWithKoanf loads configuration with Koanf v2 (ENV > file > defaults)
// and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// TMDB_API_KEY -> catalog.api_key, REDIS_URL -> cache.redis.url, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"host":             "server.host",
	"port":             "server.port",
	"http_port":        "server.port",
	"server_timeout":   "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",
	"node_env":         "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Cache gateway
	"cache_backend":        "cache.backend",
	"cache_op_timeout":     "cache.op_timeout",
	"cache_probe_interval": "cache.probe_interval",
	"redis_url":            "cache.redis.url",
	"redis_host":           "cache.redis.host",
	"redis_port":           "cache.redis.port",
	"redis_password":       "cache.redis.password",
	"redis_db":             "cache.redis.db",
	"redis_tls":            "cache.redis.tls",
	"badger_path":          "cache.badger.path",

	// Catalog
	"tmdb_base_url":         "catalog.base_url",
	"tmdb_api_key":          "catalog.api_key",
	"tmdb_timeout":          "catalog.timeout",
	"tmdb_cache_ttl":        "catalog.cache_ttl",
	"tmdb_rate_limit_rps":   "catalog.rate_limit_rps",
	"tmdb_rate_limit_burst": "catalog.rate_limit_burst",
	"tmdb_max_retries":      "catalog.max_retries",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_file":         "database.seed_file",

	// Recommendation engine
	"recommend_default_limit":      "recommend.default_limit",
	"recommend_max_limit":          "recommend.max_limit",
	"recommend_min_ratings":        "recommend.min_ratings_for_cf",
	"recommend_cache_ttl":          "recommend.cache_ttl",
	"recommend_enrich_concurrency": "recommend.enrich_concurrency",
	"recommend_peer_pool_limit":    "recommend.peer_pool_limit",
	"recommend_peer_snapshot_ttl":  "recommend.peer_snapshot_ttl",
	"recommend_request_timeout":    "recommend.request_timeout",
	"recommend_similarity_workers": "recommend.similarity_workers",

	// Security
	"cors_origins":       "security.cors_origins",
	"rate_limit_reqs":    "security.rate_limit_reqs",
	"rate_limit_window":  "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",
}

// envTransformFunc maps an environment variable name to its koanf path, or "" to skip it.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
