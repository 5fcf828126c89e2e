// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/metrics"
)

// Tier names, also used as metric labels.
const (
	TierCollaborative = "collaborative"
	TierPreference    = "preference"
	TierPopular       = "popular"
	TierCache         = "cache"
)

// tier is one stage of the fallback chain.
type tier struct {
	name string

	// applies is the tier's precondition.
	applies func(p *UserProfile) bool

	// key returns the cache key for the tier's result given the base key.
	key func(base string, p *UserProfile) string

	// run returns the tier's items. partial reports that some items are
	// placeholders for failed detail lookups.
	run func(ctx context.Context, p *UserProfile, limit int) (items []catalog.Movie, partial bool, err error)
}

func baseKey(base string, _ *UserProfile) string { return base }

// buildTiers returns the chain in evaluation order.
func (e *Engine) buildTiers() []tier {
	return []tier{
		{
			name: TierCollaborative,
			applies: func(p *UserProfile) bool {
				return len(p.Ratings) >= e.cfg.MinRatingsForCF
			},
			key: baseKey,
			run: e.runCollaborative,
		},
		{
			name: TierPreference,
			applies: func(p *UserProfile) bool {
				return len(catalog.NormalizeGenres(p.PreferredGenres)) > 0
			},
			key: func(base string, p *UserProfile) string {
				return base + ":g=" + strings.Join(catalog.NormalizeGenres(p.PreferredGenres), ",")
			},
			run: e.runPreference,
		},
		{
			name:    TierPopular,
			applies: func(*UserProfile) bool { return true },
			key:     baseKey,
			run:     e.runPopular,
		},
	}
}

// runCollaborative scores the peer pool and enriches the top ids.
func (e *Engine) runCollaborative(ctx context.Context, p *UserProfile, limit int) ([]catalog.Movie, bool, error) {
	peers, err := e.users.PeerPool(ctx, p.ID, e.cfg.PeerPoolLimit)
	if err != nil {
		return nil, false, fmt.Errorf("load peer pool: %w", err)
	}

	scored, err := scoreCandidates(ctx, p.Ratings, peers, e.cfg.workers())
	if err != nil {
		return nil, false, fmt.Errorf("score candidates: %w", err)
	}
	metrics.RecommendCandidates.Observe(float64(len(scored)))

	if len(scored) > limit {
		scored = scored[:limit]
	}
	ids := make([]int, len(scored))
	for i, c := range scored {
		ids[i] = c.TMDBID
	}

	e.logger.Debug().
		Str("user_id", p.ID).
		Int("peers", len(peers)).
		Int("candidates", len(ids)).
		Msg("Collaborative scoring complete")

	movies, failed := e.enrich(ctx, ids)
	return movies, failed > 0, nil
}

// runPreference discovers popular movies in the user's preferred genres.
func (e *Engine) runPreference(ctx context.Context, p *UserProfile, limit int) ([]catalog.Movie, bool, error) {
	return e.discover(ctx, catalog.DiscoverParams{
		SortBy:     catalog.SortPopularityDesc,
		WithGenres: p.PreferredGenres,
		Page:       1,
	}, limit)
}

// runPopular discovers globally popular movies.
func (e *Engine) runPopular(ctx context.Context, _ *UserProfile, limit int) ([]catalog.Movie, bool, error) {
	return e.discover(ctx, catalog.DiscoverParams{
		SortBy: catalog.SortPopularityDesc,
		Page:   1,
	}, limit)
}

func (e *Engine) discover(ctx context.Context, params catalog.DiscoverParams, limit int) ([]catalog.Movie, bool, error) {
	page, err := e.catalog.Discover(ctx, params)
	if err != nil {
		return nil, false, fmt.Errorf("discover: %w", err)
	}
	if page == nil {
		return []catalog.Movie{}, false, nil
	}
	return truncate(page.Results, limit), false, nil
}

// truncate returns at most limit movies, never nil.
func truncate(movies []catalog.Movie, limit int) []catalog.Movie {
	if len(movies) > limit {
		movies = movies[:limit]
	}
	out := make([]catalog.Movie, len(movies))
	copy(out, movies)
	return out
}
