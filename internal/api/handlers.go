// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/events"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recommend"
)

// Recommender produces recommendations for a user.
type Recommender interface {
	Recommend(ctx context.Context, userID string, limit int) (*recommend.Result, error)
}

// RatingStore is the user store surface used by the rating routes.
type RatingStore interface {
	UpsertRating(ctx context.Context, userID string, tmdbID int, rating float64) error
	DeleteRating(ctx context.Context, userID string, tmdbID int) error
	ListRatings(ctx context.Context, userID string) ([]recommend.Rating, error)
	SetPreferredGenres(ctx context.Context, userID string, genres []string) error
	Ping(ctx context.Context) error
}

// Handler contains the dependencies of the API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: request decoding and parameter parsing
//   - handlers_health.go: health endpoints
//   - handlers_recommend.go: recommendation endpoint
//   - handlers_movies.go: catalog endpoints
//   - handlers_ratings.go: rating and preference endpoints
type Handler struct {
	engine    Recommender
	catalog   catalog.Catalog
	store     RatingStore
	publisher events.Publisher
	cache     *cache.BestEffort
	config    *config.Config
	startTime time.Time
	version   string

	// breakerState reports the catalog circuit breaker state. Optional.
	breakerState func() gobreaker.State
}

// HandlerDeps groups the handler's collaborators.
type HandlerDeps struct {
	Engine    Recommender
	Catalog   catalog.Catalog
	Store     RatingStore
	Publisher events.Publisher
	Cache     *cache.BestEffort
	Config    *config.Config
	Version   string

	// BreakerState is optional.
	BreakerState func() gobreaker.State
}

// NewHandler creates the API handler.
//
//	handler := api.NewHandler(api.HandlerDeps{Engine: engine, Catalog: cat, Store: store, ...})
//	router := api.NewRouter(handler, api.NewChiMiddleware(cfg))
//	srv := &http.Server{Handler: router.SetupChi()}
func NewHandler(deps HandlerDeps) *Handler {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	c := deps.Cache
	if c == nil {
		c = cache.NewBestEffort(nil, 0, logging.Logger())
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		engine:       deps.Engine,
		catalog:      deps.Catalog,
		store:        deps.Store,
		publisher:    deps.Publisher,
		cache:        c,
		config:       cfg,
		startTime:    time.Now(),
		version:      version,
		breakerState: deps.BreakerState,
	}
}

// requestTimeout bounds handler work that calls the catalog or the engine.
func (h *Handler) requestTimeout() time.Duration {
	if h.config.Recommend.RequestTimeout > 0 {
		return h.config.Recommend.RequestTimeout
	}
	return 10 * time.Second
}

func (h *Handler) defaultLimit() int {
	if h.config.Recommend.DefaultLimit > 0 {
		return h.config.Recommend.DefaultLimit
	}
	return 12
}

func (h *Handler) maxLimit() int {
	if h.config.Recommend.MaxLimit > 0 {
		return h.config.Recommend.MaxLimit
	}
	return 100
}

// publish emits a rating change. A failure is logged; the write it reports
// has already succeeded.
func (h *Handler) publish(ctx context.Context, userID string, tmdbID int, kind string) {
	if h.publisher == nil {
		return
	}
	err := h.publisher.PublishRatingChanged(ctx, events.RatingChanged{
		UserID:     userID,
		TMDBID:     tmdbID,
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("user_id", sanitizeLogValue(userID)).
			Str("kind", kind).
			Msg("Failed to publish rating change, cached recommendations may be stale")
	}
}
