// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/marquee/internal/catalog"
)

var (
	// ErrCatalogUnavailable is returned when every applicable tier failed.
	ErrCatalogUnavailable = errors.New("recommendation system unavailable")

	// ErrUserNotFound is returned by a UserStore for an unknown user.
	ErrUserNotFound = errors.New("user not found")
)

// Rating is one explicit rating of a movie by a user, in [0, 10].
type Rating struct {
	TMDBID    int       `json:"tmdbId"`
	Rating    float64   `json:"rating"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserProfile is the engine's read-only view of a user.
type UserProfile struct {
	ID              string   `json:"id"`
	Ratings         []Rating `json:"ratings"`
	PreferredGenres []string `json:"favoriteGenres"`
}

// ScoredCandidate is an unrated movie scored by collaborative filtering.
type ScoredCandidate struct {
	TMDBID         int
	Score          float64
	SimilarityMass float64
}

// Result is the answer to a recommendation request.
type Result struct {
	Items    []catalog.Movie `json:"results"`
	Tier     string          `json:"tier"`
	CacheHit bool            `json:"cacheHit"`
}

// UserStore supplies user profiles and the collaborative peer pool.
type UserStore interface {
	// FindUser returns ErrUserNotFound for an unknown id.
	FindUser(ctx context.Context, id string) (*UserProfile, error)

	// PeerPool returns every user other than excludeID with at least one
	// rating, in a deterministic order. limit <= 0 means unbounded.
	PeerPool(ctx context.Context, excludeID string, limit int) ([]UserProfile, error)
}

// Catalog is the subset of the movie catalog used by the engine.
type Catalog interface {
	Discover(ctx context.Context, params catalog.DiscoverParams) (*catalog.Page, error)
	Details(ctx context.Context, id int) (*catalog.Movie, error)
}
