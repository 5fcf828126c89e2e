// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Sort orders accepted by the discover endpoint.
const (
	SortPopularityDesc = "popularity.desc"
)

var (
	// ErrNotFound is returned when the catalog has no record for the requested id.
	ErrNotFound = errors.New("catalog: not found")

	// ErrRateLimited is returned when the catalog keeps answering HTTP 429 after all retries.
	ErrRateLimited = errors.New("catalog: rate limited")

	// ErrCircuitOpen is returned while the circuit breaker rejects calls.
	ErrCircuitOpen = errors.New("catalog: circuit open")
)

// Catalog is the movie catalog contract.
type Catalog interface {
	Discover(ctx context.Context, params DiscoverParams) (*Page, error)
	Details(ctx context.Context, id int) (*Movie, error)
	Search(ctx context.Context, params SearchParams) (*Page, error)
	Trending(ctx context.Context) ([]Movie, error)
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is a catalog item record. Summaries from listings populate GenreIDs,
// detail records populate Genres and Runtime.
//
// A placeholder built by the recommendation engine carries only ID and TMDBID.
type Movie struct {
	ID               int     `json:"id"`
	TMDBID           int     `json:"tmdbId,omitempty"`
	Title            string  `json:"title,omitempty"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Popularity       float64 `json:"popularity,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	VoteCount        int     `json:"vote_count,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Genres           []Genre `json:"genres,omitempty"`
	Runtime          int     `json:"runtime,omitempty"`
	Tagline          string  `json:"tagline,omitempty"`
	Status           string  `json:"status,omitempty"`
	IMDBID           string  `json:"imdb_id,omitempty"`
}

// Placeholder returns the minimal record used when a detail lookup fails.
func Placeholder(id int) Movie {
	return Movie{ID: id, TMDBID: id}
}

// Page is one page of a paginated listing.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// DiscoverParams are the filters of the discover endpoint. Zero values are omitted.
type DiscoverParams struct {
	SortBy             string
	WithGenres         []string
	Page               int
	IncludeAdult       *bool
	PrimaryReleaseYear int
	VoteAverageGTE     float64
}

// Values encodes the params as query values. Genres are sorted so equal
// genre sets encode identically.
func (p DiscoverParams) Values() url.Values {
	v := url.Values{}
	if p.SortBy != "" {
		v.Set("sort_by", p.SortBy)
	}
	if genres := NormalizeGenres(p.WithGenres); len(genres) > 0 {
		v.Set("with_genres", strings.Join(genres, ","))
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.IncludeAdult != nil {
		v.Set("include_adult", strconv.FormatBool(*p.IncludeAdult))
	}
	if p.PrimaryReleaseYear > 0 {
		v.Set("primary_release_year", strconv.Itoa(p.PrimaryReleaseYear))
	}
	if p.VoteAverageGTE > 0 {
		v.Set("vote_average.gte", strconv.FormatFloat(p.VoteAverageGTE, 'f', -1, 64))
	}
	return v
}

// CanonicalKey is the sorted, encoded form of the params.
func (p DiscoverParams) CanonicalKey() string {
	return p.Values().Encode()
}

// SearchParams are the filters of the search endpoint.
type SearchParams struct {
	Query              string
	Page               int
	IncludeAdult       *bool
	PrimaryReleaseYear int
}

// Values encodes the params as query values.
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	v.Set("query", p.Query)
	page := p.Page
	if page <= 0 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if p.IncludeAdult != nil {
		v.Set("include_adult", strconv.FormatBool(*p.IncludeAdult))
	}
	if p.PrimaryReleaseYear > 0 {
		v.Set("primary_release_year", strconv.Itoa(p.PrimaryReleaseYear))
	}
	return v
}

// NormalizeGenres trims, dedupes and sorts a genre list.
func NormalizeGenres(genres []string) []string {
	if len(genres) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
