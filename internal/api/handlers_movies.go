// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/validation"
)

// MoviePage is the payload of the paginated movie routes.
type MoviePage struct {
	Results      []catalog.Movie `json:"results"`
	Page         int             `json:"page"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
}

// MovieList is the payload of the trending route.
type MovieList struct {
	Results []catalog.Movie `json:"results"`
}

func newMoviePage(p *catalog.Page, requested int) MoviePage {
	out := MoviePage{Results: []catalog.Movie{}, Page: requested, TotalPages: 1}
	if p == nil {
		return out
	}
	if p.Results != nil {
		out.Results = p.Results
	}
	if p.Page > 0 {
		out.Page = p.Page
	}
	if p.TotalPages > 0 {
		out.TotalPages = p.TotalPages
	}
	out.TotalResults = p.TotalResults
	return out
}

func excludeAdult() *bool {
	v := false
	return &v
}

// SearchMovies godoc
// @Summary Search or discover movies
// @Description With q, searches titles. Without q, runs a discover query with the given filters. Adult titles are excluded.
// @Tags movies
// @Produce json
// @Param q query string false "Title search text"
// @Param page query int false "Page (default 1)"
// @Param year query int false "Primary release year"
// @Param genre query string false "TMDB genre id"
// @Param sort_by query string false "Discover sort order"
// @Param rating_gte query number false "Minimum vote average"
// @Success 200 {object} APIResponse{data=MoviePage}
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/v1/movies/search [get]
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q, err := parseSearchQuery(r)
	if err != nil {
		rw.ValidationError(err.Error(), nil)
		return
	}
	if !validateRequest(rw, &q) {
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout())
	defer cancel()

	var page *catalog.Page
	if q.Query != "" {
		page, err = h.catalog.Search(ctx, catalog.SearchParams{
			Query:              q.Query,
			Page:               q.Page,
			IncludeAdult:       excludeAdult(),
			PrimaryReleaseYear: q.Year,
		})
	} else {
		params := catalog.DiscoverParams{
			SortBy:             q.SortBy,
			Page:               q.Page,
			IncludeAdult:       excludeAdult(),
			PrimaryReleaseYear: q.Year,
			VoteAverageGTE:     q.RatingGTE,
		}
		if q.Genre != "" {
			params.WithGenres = []string{q.Genre}
		}
		page, err = h.catalog.Discover(ctx, params)
	}
	if err != nil {
		writeUpstreamError(rw, err, "No movies found")
		return
	}

	rw.Success(newMoviePage(page, q.Page))
}

func parseSearchQuery(r *http.Request) (validation.SearchQuery, error) {
	var (
		q   validation.SearchQuery
		err error
	)
	values := r.URL.Query()
	q.Query = strings.TrimSpace(values.Get("q"))
	q.Genre = strings.TrimSpace(values.Get("genre"))
	q.SortBy = strings.TrimSpace(values.Get("sort_by"))
	if q.Page, err = queryInt(r, "page", 0); err != nil {
		return q, err
	}
	if q.Year, err = queryInt(r, "year", 0); err != nil {
		return q, err
	}
	if q.RatingGTE, err = queryFloat(r, "rating_gte", 0); err != nil {
		return q, err
	}
	return q, nil
}

// GetMovieDetails godoc
// @Summary Movie details
// @Tags movies
// @Produce json
// @Param id path int true "TMDB movie id"
// @Success 200 {object} APIResponse{data=catalog.Movie}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/v1/movies/details/{id} [get]
func (h *Handler) GetMovieDetails(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		rw.BadRequest("Invalid movie ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout())
	defer cancel()

	movie, err := h.catalog.Details(ctx, id)
	if err != nil {
		writeUpstreamError(rw, err, "Movie not found")
		return
	}
	rw.Success(movie)
}

// GetTrendingMovies godoc
// @Summary Trending movies this week
// @Tags movies
// @Produce json
// @Success 200 {object} APIResponse{data=MovieList}
// @Failure 502 {object} APIResponse
// @Router /api/v1/movies/trending [get]
func (h *Handler) GetTrendingMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout())
	defer cancel()

	movies, err := h.catalog.Trending(ctx)
	if err != nil {
		writeUpstreamError(rw, err, "No movies found")
		return
	}
	if movies == nil {
		movies = []catalog.Movie{}
	}
	rw.Success(MovieList{Results: movies})
}

// GetPopularMovies godoc
// @Summary Popular movies
// @Tags movies
// @Produce json
// @Param page query int false "Page (default 1)"
// @Success 200 {object} APIResponse{data=MoviePage}
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/v1/movies/popular [get]
func (h *Handler) GetPopularMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, err := queryInt(r, "page", 1)
	if err != nil {
		rw.ValidationError(err.Error(), nil)
		return
	}
	if verr := validation.ValidateVar("page", page, "gte=1,lte=500"); verr != nil {
		writeValidationError(rw, verr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout())
	defer cancel()

	result, err := h.catalog.Discover(ctx, catalog.DiscoverParams{
		SortBy:       catalog.SortPopularityDesc,
		Page:         page,
		IncludeAdult: excludeAdult(),
	})
	if err != nil {
		writeUpstreamError(rw, err, "No movies found")
		return
	}
	rw.Success(newMoviePage(result, page))
}
