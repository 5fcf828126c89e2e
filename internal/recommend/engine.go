// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package recommend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// Engine produces recommendations. It is safe for concurrent use.
type Engine struct {
	cfg     *Config
	users   UserStore
	catalog Catalog
	cache   *cache.BestEffort
	tiers   []tier
	logger  zerolog.Logger
}

// NewEngine creates an engine. A nil cfg uses DefaultConfig and a nil cache disables caching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, users UserStore, cat Catalog, c *cache.BestEffort, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if cat == nil {
		return nil, errors.New("catalog is required")
	}

	logger = logger.With().Str("component", "recommend").Logger()
	if c == nil {
		c = cache.NewBestEffort(nil, 0, logger)
	}

	e := &Engine{
		cfg:     cfg,
		users:   users,
		catalog: cat,
		cache:   c,
		logger:  logger,
	}
	e.tiers = e.buildTiers()
	return e, nil
}

// CacheKeyPrefix is the prefix shared by every cached result of userID.
func CacheKeyPrefix(userID string) string {
	return "recs:" + url.QueryEscape(userID) + ":"
}

// CacheKey is the base cache key for (userID, limit).
func CacheKey(userID string, limit int) string {
	return CacheKeyPrefix(userID) + strconv.Itoa(limit)
}

// Recommend returns at most limit movies for userID. limit <= 0 uses the default.
//
// Cache failures, unknown users, and per-item detail failures all degrade
// silently. The only error is ErrCatalogUnavailable (or the context's error)
// when every applicable tier failed.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) (*Result, error) {
	start := time.Now()
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	logger := logging.CtxWith(ctx).Str("component", "recommend").Str("user_id", userID).Int("limit", limit).Logger()

	base := CacheKey(userID, limit)
	if items, ok := e.readCache(ctx, base); ok {
		metrics.RecordRecommendation(TierCache, time.Since(start))
		return &Result{Items: items, Tier: TierCache, CacheHit: true}, nil
	}

	profile := e.loadProfile(ctx, userID, logger)

	var lastErr error
	for _, t := range e.tiers {
		if !t.applies(profile) {
			continue
		}

		key := t.key(base, profile)
		if key != base {
			if items, ok := e.readCache(ctx, key); ok {
				metrics.RecordRecommendation(TierCache, time.Since(start))
				return &Result{Items: items, Tier: TierCache, CacheHit: true}, nil
			}
		}

		items, partial, err := t.run(ctx, profile, limit)
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Items built after the deadline are mostly placeholders.
			if err != nil {
				metrics.RecommendTierFailures.WithLabelValues(t.name).Inc()
			}
			return nil, fmt.Errorf("recommend: %w", ctxErr)
		}
		if err != nil {
			metrics.RecommendTierFailures.WithLabelValues(t.name).Inc()
			logger.Warn().Err(err).Str("tier", t.name).Msg("Tier failed, falling through")
			lastErr = err
			continue
		}
		if len(items) > limit {
			items = items[:limit]
		}

		// Results reached only because an earlier tier failed, or holding
		// placeholders, are not cached.
		if lastErr == nil && !partial {
			e.cache.SetJSON(ctx, key, items, e.cfg.CacheTTL)
		}

		metrics.RecordRecommendation(t.name, time.Since(start))
		logger.Debug().Str("tier", t.name).Int("results", len(items)).Dur("latency", time.Since(start)).Msg("Recommendation complete")
		return &Result{Items: items, Tier: t.name}, nil
	}

	if lastErr == nil {
		return nil, ErrCatalogUnavailable
	}
	logger.Error().Err(lastErr).Msg("All recommendation tiers failed")
	return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, lastErr)
}

// readCache returns a cached result and records the lookup.
func (e *Engine) readCache(ctx context.Context, key string) ([]catalog.Movie, bool) {
	var items []catalog.Movie
	hit := e.cache.GetJSON(ctx, key, &items)
	metrics.RecordRecommendCache(hit)
	if hit && items == nil {
		items = []catalog.Movie{}
	}
	return items, hit
}

// loadProfile returns the user's profile, or an empty one for an unknown user.
// Store failures are treated like an unknown user.
func (e *Engine) loadProfile(ctx context.Context, userID string, logger zerolog.Logger) *UserProfile {
	p, err := e.users.FindUser(ctx, userID)
	switch {
	case err == nil && p != nil:
		return p
	case err == nil || errors.Is(err, ErrUserNotFound):
		logger.Debug().Msg("Unknown user, using fallback tiers")
	default:
		logger.Warn().Err(err).Msg("User lookup failed, treating as unknown user")
	}
	return &UserProfile{ID: userID}
}
