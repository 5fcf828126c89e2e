// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/validation"
)

// EmptyRecommendationsMessage is returned alongside an empty result.
const EmptyRecommendationsMessage = "No recommendations available yet. Rate more movies!"

// RecommendationsResponse is the payload of the recommendation route.
type RecommendationsResponse struct {
	Results  []catalog.Movie `json:"results"`
	Message  string          `json:"message"`
	Tier     string          `json:"tier"`
	CacheHit bool            `json:"cacheHit"`
}

// GetRecommendations godoc
// @Summary Personalized recommendations
// @Description Returns up to limit movies for the user. Users with enough ratings get collaborative filtering, users with preferred genres get genre discovery, everyone else gets popular movies.
// @Tags recommendations
// @Produce json
// @Param userID path string true "User ID"
// @Param limit query int false "Maximum results (default 12)"
// @Success 200 {object} APIResponse{data=RecommendationsResponse}
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/v1/recommendations/user/{userID} [get]
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		rw.ValidationError(err.Error(), nil)
		return
	}

	q := validation.RecommendationQuery{UserID: userID, Limit: limit}
	if !validateRequest(rw, &q) {
		return
	}
	if verr := validation.ValidateVar("limit", limit, "lte="+strconv.Itoa(h.maxLimit())); verr != nil {
		writeValidationError(rw, verr)
		return
	}
	if limit == 0 {
		limit = h.defaultLimit()
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout())
	defer cancel()

	result, err := h.engine.Recommend(ctx, userID, limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("user_id", sanitizeLogValue(userID)).
			Msg("Failed to generate recommendations")
		writeUpstreamError(rw, err, "Movie not found")
		return
	}

	items := result.Items
	if items == nil {
		items = []catalog.Movie{}
	}
	resp := RecommendationsResponse{
		Results:  items,
		Tier:     result.Tier,
		CacheHit: result.CacheHit,
	}
	if len(items) == 0 {
		resp.Message = EmptyRecommendationsMessage
	}
	rw.Success(resp)
}
