// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package api provides Marquee's HTTP API.

Routes are mounted under /api/v1 on a chi router:

	GET    /api/v1/recommendations/user/{userID}?limit=N
	GET    /api/v1/movies/search?q=&page=&year=&genre=&sort_by=&rating_gte=
	GET    /api/v1/movies/details/{id}
	GET    /api/v1/movies/trending
	GET    /api/v1/movies/popular
	POST   /api/v1/users/{userID}/ratings
	GET    /api/v1/users/{userID}/ratings
	DELETE /api/v1/users/{userID}/ratings/{movieID}
	PUT    /api/v1/users/{userID}/preferences

Operational routes sit outside the versioned prefix: /health, /health/live,
/health/ready, /metrics, and /swagger/*.

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "metadata": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}, "metadata": {...}}

The movie routes are wrapped by ResponseCache, which stores 2xx bodies in
the cache gateway for an hour and marks responses with X-Cache: HIT or MISS.
Rating and preference writes publish a RatingChanged event so cached
recommendations for the user are dropped.
*/
package api
