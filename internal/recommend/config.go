// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package recommend

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains the engine's tuning parameters.
type Config struct {
	// DefaultLimit is used when a request asks for limit <= 0.
	DefaultLimit int

	// MinRatingsForCF is the rating count at which collaborative filtering applies.
	MinRatingsForCF int

	// CacheTTL is how long a computed result stays cached.
	CacheTTL time.Duration

	// EnrichConcurrency caps concurrent detail lookups per request.
	EnrichConcurrency int

	// PeerPoolLimit caps the peer pool. 0 = unbounded.
	PeerPoolLimit int

	// SimilarityWorkers is the number of goroutines scoring peers. 0 = runtime.NumCPU().
	SimilarityWorkers int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:      12,
		MinRatingsForCF:   3,
		CacheTTL:          6 * time.Hour,
		EnrichConcurrency: 8,
		PeerPoolLimit:     0,
		SimilarityWorkers: 0,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MinRatingsForCF < 1 {
		return fmt.Errorf("min_ratings_for_cf must be positive, got %d", c.MinRatingsForCF)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %v", c.CacheTTL)
	}
	if c.EnrichConcurrency < 1 {
		return fmt.Errorf("enrich_concurrency must be positive, got %d", c.EnrichConcurrency)
	}
	if c.PeerPoolLimit < 0 {
		return fmt.Errorf("peer_pool_limit must be non-negative, got %d", c.PeerPoolLimit)
	}
	if c.SimilarityWorkers < 0 {
		return fmt.Errorf("similarity_workers must be non-negative, got %d", c.SimilarityWorkers)
	}
	return nil
}

func (c *Config) workers() int {
	if c.SimilarityWorkers > 0 {
		return c.SimilarityWorkers
	}
	return runtime.NumCPU()
}
