// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/validation"
)

// writeValidationError writes a 400 VALIDATION_ERROR for verr.
func writeValidationError(rw *ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.ValidationError(apiErr.Message, apiErr.Details)
}

// writeUpstreamError maps engine and catalog failures to a response:
//
//	recommend.ErrCatalogUnavailable            -> 503 SERVICE_UNAVAILABLE
//	catalog.ErrNotFound                        -> 404 NOT_FOUND
//	catalog.ErrCircuitOpen,
//	catalog.ErrRateLimited, deadline exceeded  -> 503 SERVICE_UNAVAILABLE
//	anything else                              -> 502 EXTERNAL_SERVICE_ERROR
//
// ErrCatalogUnavailable is checked first since it may wrap a tier's ErrNotFound.
func writeUpstreamError(rw *ResponseWriter, err error, notFoundMessage string) {
	const unavailable = "Movie catalog is temporarily unavailable, please try again later"
	switch {
	case errors.Is(err, recommend.ErrCatalogUnavailable):
		rw.ServiceUnavailable(unavailable)
	case errors.Is(err, catalog.ErrNotFound):
		rw.NotFound(notFoundMessage)
	case errors.Is(err, catalog.ErrCircuitOpen),
		errors.Is(err, catalog.ErrRateLimited),
		errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable(unavailable)
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body.
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request canceled")
	default:
		rw.ExternalServiceError("tmdb", err)
	}
}
