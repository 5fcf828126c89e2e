// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

var validCacheBackends = map[string]bool{
	CacheBackendRedis: true, CacheBackendBadger: true, CacheBackendMemory: true, CacheBackendNone: true,
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateCache() error {
	if !validCacheBackends[c.Cache.Backend] {
		return fmt.Errorf("cache.backend must be one of redis, badger, memory, none, got %q", c.Cache.Backend)
	}
	if c.Cache.OpTimeout <= 0 {
		return fmt.Errorf("cache.op_timeout must be positive, got %v", c.Cache.OpTimeout)
	}
	if c.Cache.ProbeInterval <= 0 {
		return fmt.Errorf("cache.probe_interval must be positive, got %v", c.Cache.ProbeInterval)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Cache.Redis.URL == "" && c.Cache.Redis.Host == "" {
		return fmt.Errorf("cache.redis.url or cache.redis.host is required for the redis backend")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("catalog.base_url must be an absolute URL, got %q", c.Catalog.BaseURL)
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be positive, got %v", c.Catalog.Timeout)
	}
	if c.Catalog.RateLimitRPS <= 0 {
		return fmt.Errorf("catalog.rate_limit_rps must be positive, got %v", c.Catalog.RateLimitRPS)
	}
	if c.Catalog.RateLimitBurst < 1 {
		return fmt.Errorf("catalog.rate_limit_burst must be at least 1, got %d", c.Catalog.RateLimitBurst)
	}
	if c.Catalog.MaxRetries < 0 {
		return fmt.Errorf("catalog.max_retries must not be negative, got %d", c.Catalog.MaxRetries)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required (use :memory: for an ephemeral store)")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultLimit <= 0 {
		return fmt.Errorf("recommend.default_limit must be positive, got %d", r.DefaultLimit)
	}
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("recommend.max_limit (%d) must be >= recommend.default_limit (%d)", r.MaxLimit, r.DefaultLimit)
	}
	if r.MinRatingsForCF < 1 {
		return fmt.Errorf("recommend.min_ratings_for_cf must be at least 1, got %d", r.MinRatingsForCF)
	}
	if r.CacheTTL <= 0 {
		return fmt.Errorf("recommend.cache_ttl must be positive, got %v", r.CacheTTL)
	}
	if r.EnrichConcurrency < 1 {
		return fmt.Errorf("recommend.enrich_concurrency must be at least 1, got %d", r.EnrichConcurrency)
	}
	if r.PeerPoolLimit < 0 {
		return fmt.Errorf("recommend.peer_pool_limit must not be negative, got %d", r.PeerPoolLimit)
	}
	if r.SimilarityWorkers < 0 {
		return fmt.Errorf("recommend.similarity_workers must not be negative, got %d", r.SimilarityWorkers)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
