// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package validation

// MaxPreferredGenres caps the genres in a preferences update.
const MaxPreferredGenres = 20

// RatingRequest is the body of POST /users/{userID}/ratings.
// Rating is a pointer so a missing rating fails "required" while 0 is accepted.
type RatingRequest struct {
	MovieID int      `json:"movieId" validate:"gt=0"`
	Rating  *float64 `json:"rating" validate:"required,gte=0,lte=10"`
}

// PreferencesRequest is the body of PUT /users/{userID}/preferences.
type PreferencesRequest struct {
	FavoriteGenres []string `json:"favoriteGenres" validate:"max=20,dive,genreid"`
}

// RecommendationQuery holds the recommendation route's parameters.
type RecommendationQuery struct {
	UserID string `json:"userId" validate:"userid"`
	Limit  int    `json:"limit" validate:"gte=0"`
}

// SearchQuery holds GET /movies/search query parameters. Zero values mean unset.
type SearchQuery struct {
	Query     string  `json:"q" validate:"max=200"`
	Page      int     `json:"page" validate:"gte=0,lte=500"`
	Year      int     `json:"year" validate:"omitempty,gte=1870,lte=2100"`
	Genre     string  `json:"genre" validate:"omitempty,genreid"`
	SortBy    string  `json:"sort_by" validate:"omitempty,oneof=popularity.desc popularity.asc vote_average.desc vote_average.asc primary_release_date.desc primary_release_date.asc revenue.desc"`
	RatingGTE float64 `json:"rating_gte" validate:"gte=0,lte=10"`
}
