// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides the key-value cache gateway used for recommendation
// results, catalog responses and HTTP response caching.
//
// A Gateway is selected once at startup by New from configuration:
//
//	gw, err := cache.New(&cfg.Cache, logger)
//	be := cache.NewBestEffort(gw, cfg.Cache.OpTimeout, logger)
//	if data, ok := be.Get(ctx, "recs:alice:12"); ok {
//	    // hit
//	}
//
// Gateway methods return errors. Callers that must never fail because of the
// cache go through BestEffort, which bounds each call with a timeout and turns
// every failure into "absent".
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/config"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New("cache: miss")

	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("cache: unavailable")
)

// Gateway is the capability contract of a key-value cache with expiry.
type Gateway interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Available reports whether the store is believed reachable. It must not block.
	Available(ctx context.Context) bool

	// Get returns the stored bytes or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// SetWithExpiry stores value under key for ttl.
	SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Close() error
}

// PrefixDeleter is implemented by gateways that can drop every key sharing a prefix.
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// Prober is implemented by gateways whose availability is refreshed by a periodic probe.
type Prober interface {
	Probe(ctx context.Context) error
}

// New builds the gateway selected by cfg.Backend.
//
// A redis backend that cannot be reached at startup is still returned; it
// reports unavailable until a probe succeeds.
func New(cfg *config.CacheConfig, logger zerolog.Logger) (Gateway, error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		gw, err := NewRedisGateway(&cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := gw.Probe(ctx); err != nil {
			logger.Warn().Err(err).Str("backend", gw.Name()).Msg("Redis not reachable at startup, cache disabled until probe succeeds")
		}
		return gw, nil
	case config.CacheBackendBadger:
		return NewBadgerGateway(cfg.Badger.Path, logger)
	case config.CacheBackendMemory:
		return NewMemoryGateway(), nil
	case config.CacheBackendNone, "":
		return NoopGateway{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
