// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/config"
)

// scanBatch is the COUNT hint for SCAN during prefix deletes.
const scanBatch = 200

// RedisGateway is the redis-backed live store.
//
// Availability is an atomic flag: Probe sets it from a PING and any transport
// error clears it, so Available never performs I/O.
type RedisGateway struct {
	client    *redis.Client
	available atomic.Bool
	logger    zerolog.Logger
}

// NewRedisGateway builds a client from cfg.URL, or from host and port when no URL is set.
// No connection is made until the first command.
func NewRedisGateway(cfg *config.RedisConfig, logger zerolog.Logger) (*RedisGateway, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	return newRedisGatewayWithClient(redis.NewClient(opts), logger), nil
}

func newRedisGatewayWithClient(client *redis.Client, logger zerolog.Logger) *RedisGateway {
	return &RedisGateway{
		client: client,
		logger: logger.With().Str("component", "cache").Str("backend", "redis").Logger(),
	}
}

func redisOptions(cfg *config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	if cfg.TLS && opts.TLSConfig == nil {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second
	opts.MaxRetries = 1
	return opts, nil
}

// Name returns "redis".
func (r *RedisGateway) Name() string { return "redis" }

// Available reports the result of the last probe or command.
func (r *RedisGateway) Available(context.Context) bool {
	return r.available.Load()
}

// Probe pings redis and updates the availability flag.
func (r *RedisGateway) Probe(ctx context.Context) error {
	err := r.client.Ping(ctx).Err()
	was := r.available.Swap(err == nil)
	switch {
	case err == nil && !was:
		r.logger.Info().Msg("Redis connection available")
	case err != nil && was:
		r.logger.Warn().Err(err).Msg("Redis connection lost")
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Get returns the value for key, mapping redis.Nil to ErrMiss.
func (r *RedisGateway) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		r.markFailure(err)
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// SetWithExpiry runs SET key value EX ttl.
func (r *RedisGateway) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.markFailure(err)
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// DeletePrefix removes keys matching prefix* with SCAN and UNLINK.
func (r *RedisGateway) DeletePrefix(ctx context.Context, prefix string) error {
	iter := r.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanBatch).Iterator()

	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.client.Unlink(ctx, batch...).Err(); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= scanBatch {
			if err := flush(); err != nil {
				r.markFailure(err)
				return fmt.Errorf("redis unlink: %w", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		r.markFailure(err)
		return fmt.Errorf("redis scan: %w", err)
	}
	if err := flush(); err != nil {
		r.markFailure(err)
		return fmt.Errorf("redis unlink: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *RedisGateway) Close() error {
	r.available.Store(false)
	return r.client.Close()
}

// markFailure clears availability unless the caller gave up on its own.
func (r *RedisGateway) markFailure(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if r.available.Swap(false) {
		r.logger.Warn().Err(err).Msg("Redis command failed, cache marked unavailable")
	}
}

// escapeGlob escapes redis MATCH pattern metacharacters.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

var (
	_ Gateway       = (*RedisGateway)(nil)
	_ PrefixDeleter = (*RedisGateway)(nil)
	_ Prober        = (*RedisGateway)(nil)
)
