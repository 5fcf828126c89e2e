// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/database"
	"github.com/tomtom215/marquee/internal/events"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/validation"
)

// RatingResponse echoes a stored rating.
type RatingResponse struct {
	UserID  string  `json:"userId"`
	MovieID int     `json:"movieId"`
	Rating  float64 `json:"rating"`
}

// RatingsResponse lists a user's ratings, most recent first.
type RatingsResponse struct {
	UserID  string             `json:"userId"`
	Ratings []recommend.Rating `json:"ratings"`
}

// PreferencesResponse echoes stored preferences.
type PreferencesResponse struct {
	UserID         string   `json:"userId"`
	FavoriteGenres []string `json:"favoriteGenres"`
}

// userIDParam reads and validates the {userID} path parameter.
func userIDParam(rw *ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userID")
	if verr := validation.ValidateVar("userId", userID, "userid"); verr != nil {
		writeValidationError(rw, verr)
		return "", false
	}
	return userID, true
}

// RateMovie godoc
// @Summary Rate a movie
// @Description Creates or replaces the user's rating of a movie. Ratings range from 0 to 10.
// @Tags ratings
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param body body validation.RatingRequest true "Rating"
// @Success 201 {object} APIResponse{data=RatingResponse}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /api/v1/users/{userID}/ratings [post]
func (h *Handler) RateMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := userIDParam(rw, r)
	if !ok {
		return
	}

	var req validation.RatingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validateRequest(rw, &req) {
		return
	}

	if err := h.store.UpsertRating(r.Context(), userID, req.MovieID, *req.Rating); err != nil {
		rw.DatabaseError(err)
		return
	}
	h.publish(r.Context(), userID, req.MovieID, events.KindRatingUpserted)

	rw.Created(RatingResponse{UserID: userID, MovieID: req.MovieID, Rating: *req.Rating})
}

// ListRatings godoc
// @Summary List a user's ratings
// @Description Most recent first. An unknown user has no ratings.
// @Tags ratings
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} APIResponse{data=RatingsResponse}
// @Failure 400 {object} APIResponse
// @Router /api/v1/users/{userID}/ratings [get]
func (h *Handler) ListRatings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := userIDParam(rw, r)
	if !ok {
		return
	}

	ratings, err := h.store.ListRatings(r.Context(), userID)
	switch {
	case errors.Is(err, recommend.ErrUserNotFound):
		ratings = []recommend.Rating{}
	case err != nil:
		rw.DatabaseError(err)
		return
	}
	if ratings == nil {
		ratings = []recommend.Rating{}
	}
	rw.Success(RatingsResponse{UserID: userID, Ratings: ratings})
}

// DeleteRating godoc
// @Summary Delete a rating
// @Tags ratings
// @Param userID path string true "User ID"
// @Param movieID path int true "TMDB movie id"
// @Success 204
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/v1/users/{userID}/ratings/{movieID} [delete]
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := userIDParam(rw, r)
	if !ok {
		return
	}
	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil || movieID <= 0 {
		rw.BadRequest("Invalid movie ID")
		return
	}

	err = h.store.DeleteRating(r.Context(), userID, movieID)
	switch {
	case errors.Is(err, database.ErrRatingNotFound):
		rw.NotFound("Rating not found")
		return
	case err != nil:
		rw.DatabaseError(err)
		return
	}
	h.publish(r.Context(), userID, movieID, events.KindRatingDeleted)

	rw.NoContent()
}

// UpdatePreferences godoc
// @Summary Replace preferred genres
// @Description Replaces the user's favorite genres with TMDB genre ids. An empty list clears them.
// @Tags ratings
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param body body validation.PreferencesRequest true "Preferences"
// @Success 200 {object} APIResponse{data=PreferencesResponse}
// @Failure 400 {object} APIResponse
// @Router /api/v1/users/{userID}/preferences [put]
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := userIDParam(rw, r)
	if !ok {
		return
	}

	var req validation.PreferencesRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validateRequest(rw, &req) {
		return
	}

	if err := h.store.SetPreferredGenres(r.Context(), userID, req.FavoriteGenres); err != nil {
		rw.DatabaseError(err)
		return
	}
	h.publish(r.Context(), userID, 0, events.KindPreferencesUpdated)

	genres := catalog.NormalizeGenres(req.FavoriteGenres)
	if genres == nil {
		genres = []string{}
	}
	rw.Success(PreferencesResponse{UserID: userID, FavoriteGenres: genres})
}
