// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/metrics"
)

// DefaultOpTimeout bounds a single cache call when no timeout is configured.
const DefaultOpTimeout = 250 * time.Millisecond

// BestEffort wraps a Gateway so that every call yields a result or nothing.
// Failures are logged and counted, never returned.
type BestEffort struct {
	gw      Gateway
	timeout time.Duration
	logger  zerolog.Logger
}

// NewBestEffort wraps gw. A nil gw behaves like NoopGateway.
func NewBestEffort(gw Gateway, timeout time.Duration, logger zerolog.Logger) *BestEffort {
	if gw == nil {
		gw = NoopGateway{}
	}
	if timeout <= 0 {
		timeout = DefaultOpTimeout
	}
	return &BestEffort{
		gw:      gw,
		timeout: timeout,
		logger:  logger.With().Str("component", "cache").Str("backend", gw.Name()).Logger(),
	}
}

// Backend returns the wrapped gateway's name.
func (b *BestEffort) Backend() string { return b.gw.Name() }

// Available reports whether the wrapped gateway is available.
func (b *BestEffort) Available(ctx context.Context) bool { return b.gw.Available(ctx) }

// Get returns the cached bytes and true on a hit. An unavailable gateway is skipped.
func (b *BestEffort) Get(ctx context.Context, key string) ([]byte, bool) {
	if !b.gw.Available(ctx) {
		metrics.RecordCacheOp(b.gw.Name(), "get", "skipped")
		return nil, false
	}

	opCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	data, err := b.gw.Get(opCtx, key)
	switch {
	case err == nil:
		metrics.RecordCacheOp(b.gw.Name(), "get", "hit")
		return data, true
	case errors.Is(err, ErrMiss):
		metrics.RecordCacheOp(b.gw.Name(), "get", "miss")
	default:
		metrics.RecordCacheOp(b.gw.Name(), "get", "error")
		b.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss")
	}
	return nil, false
}

// Set stores value for ttl. The write is not tied to the caller's cancellation.
func (b *BestEffort) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if !b.gw.Available(ctx) {
		metrics.RecordCacheOp(b.gw.Name(), "set", "skipped")
		return
	}

	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	defer cancel()

	if err := b.gw.SetWithExpiry(opCtx, key, value, ttl); err != nil {
		metrics.RecordCacheOp(b.gw.Name(), "set", "error")
		b.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		return
	}
	metrics.RecordCacheOp(b.gw.Name(), "set", "ok")
}

// GetJSON decodes a cached JSON value into v. A decode failure counts as a miss.
func (b *BestEffort) GetJSON(ctx context.Context, key string, v any) bool {
	data, ok := b.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		b.logger.Warn().Err(err).Str("key", key).Msg("Cached value is not valid JSON, treating as miss")
		return false
	}
	return true
}

// SetJSON encodes v as JSON and stores it for ttl.
func (b *BestEffort) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		b.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode cache value")
		return
	}
	b.Set(ctx, key, data, ttl)
}

// DeletePrefix removes keys with prefix when the gateway supports it.
// It reports whether the delete ran successfully.
func (b *BestEffort) DeletePrefix(ctx context.Context, prefix string) bool {
	pd, ok := b.gw.(PrefixDeleter)
	if !ok || !b.gw.Available(ctx) {
		return false
	}

	opCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := pd.DeletePrefix(opCtx, prefix); err != nil {
		metrics.RecordCacheOp(b.gw.Name(), "delete_prefix", "error")
		b.logger.Warn().Err(err).Str("prefix", prefix).Msg("Cache prefix delete failed")
		return false
	}
	metrics.RecordCacheOp(b.gw.Name(), "delete_prefix", "ok")
	return true
}
