// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// @title Marquee API
// @version 1.0
// @description Movie recommendations, catalog browsing and user ratings backed by TMDB.
// @description
// @description ## Recommendation tiers
// @description
// @description 1. **collaborative**: users with at least 3 ratings get movies rated 4+ by similar users.
// @description 2. **preference**: users with preferred genres get popular movies from those genres.
// @description 3. **popular**: everyone else gets the most popular movies.
// @description
// @description A tier that fails falls through to the next one. A short result is returned as is.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address under /api/v1.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {
// @description     "code": "VALIDATION_ERROR",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-01T12:00:00Z"
// @description   }
// @description }
// @description ```
//
// @contact.name The Marquee Authors
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5050
// @BasePath /
// @schemes http https
//
// @tag.name Recommendations
// @tag.description Personalized recommendations with tiered fallback
//
// @tag.name Movies
// @tag.description Catalog search, details, trending and popular lists (cached)
//
// @tag.name Ratings
// @tag.description Per-user ratings and genre preferences
//
// @tag.name Core
// @tag.description Health and readiness probes
package main
