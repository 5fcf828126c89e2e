// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docs holds the OpenAPI document served at /swagger/*.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "The Marquee Authors"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/recommendations/user/{userID}": {
            "get": {
                "description": "Returns up to limit movies for the user. Users with enough ratings get collaborative filtering, users with preferred genres get genre discovery, everyone else gets popular movies.",
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "Personalized recommendations",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"type": "integer", "description": "Maximum results (default 12)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.RecommendationsResponse"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/movies/search": {
            "get": {
                "description": "With q, searches titles. Without q, runs a discover query with the given filters. Adult titles are excluded.",
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Search or discover movies",
                "parameters": [
                    {"type": "string", "description": "Title search text", "name": "q", "in": "query"},
                    {"type": "integer", "description": "Page (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Primary release year", "name": "year", "in": "query"},
                    {"type": "string", "description": "TMDB genre id", "name": "genre", "in": "query"},
                    {"type": "string", "description": "Discover sort order", "name": "sort_by", "in": "query"},
                    {"type": "number", "description": "Minimum vote average", "name": "rating_gte", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.MoviePage"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/movies/details/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Movie details",
                "parameters": [
                    {"type": "integer", "description": "TMDB movie id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/catalog.Movie"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/movies/trending": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Trending movies this week",
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.MovieList"}}}]}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/movies/popular": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Popular movies",
                "parameters": [
                    {"type": "integer", "description": "Page (default 1)", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.MoviePage"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/users/{userID}/ratings": {
            "get": {
                "description": "Most recent first. An unknown user has no ratings.",
                "produces": ["application/json"],
                "tags": ["ratings"],
                "summary": "List a user's ratings",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.RatingsResponse"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "post": {
                "description": "Creates or replaces the user's rating of a movie. Ratings range from 0 to 10.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ratings"],
                "summary": "Rate a movie",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"description": "Rating", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.RatingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.RatingResponse"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/users/{userID}/ratings/{movieID}": {
            "delete": {
                "tags": ["ratings"],
                "summary": "Delete a rating",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"type": "integer", "description": "TMDB movie id", "name": "movieID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/users/{userID}/preferences": {
            "put": {
                "description": "Replaces the user's favorite genres with TMDB genre ids. An empty list clears them.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ratings"],
                "summary": "Replace preferred genres",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"description": "Preferences", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.PreferencesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.PreferencesResponse"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports database connectivity, cache backend and availability, catalog breaker state, and uptime.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/api.APIResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.HealthStatus"}}}]}}
                }
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {},
                "request_id": {"type": "string"}
            }
        },
        "api.APIMeta": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"},
                "duration_ms": {"type": "integer"}
            }
        },
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/api.APIError"},
                "metadata": {"$ref": "#/definitions/api.APIMeta"}
            }
        },
        "api.HealthStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "version": {"type": "string"},
                "timestamp": {"type": "string"},
                "uptime_seconds": {"type": "number"},
                "cache_backend": {"type": "string"},
                "cache_available": {"type": "boolean"},
                "database_connected": {"type": "boolean"},
                "catalog_breaker": {"type": "string"}
            }
        },
        "api.MovieList": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/catalog.Movie"}}
            }
        },
        "api.MoviePage": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/catalog.Movie"}},
                "page": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "total_results": {"type": "integer"}
            }
        },
        "api.PreferencesResponse": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "favoriteGenres": {"type": "array", "items": {"type": "string"}}
            }
        },
        "api.RatingResponse": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "movieId": {"type": "integer"},
                "rating": {"type": "number"}
            }
        },
        "api.RatingsResponse": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "ratings": {"type": "array", "items": {"$ref": "#/definitions/recommend.Rating"}}
            }
        },
        "api.RecommendationsResponse": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/catalog.Movie"}},
                "message": {"type": "string"},
                "tier": {"type": "string"},
                "cacheHit": {"type": "boolean"}
            }
        },
        "catalog.Genre": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "catalog.Movie": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "tmdbId": {"type": "integer"},
                "title": {"type": "string"},
                "original_title": {"type": "string"},
                "overview": {"type": "string"},
                "poster_path": {"type": "string"},
                "backdrop_path": {"type": "string"},
                "release_date": {"type": "string"},
                "original_language": {"type": "string"},
                "popularity": {"type": "number"},
                "vote_average": {"type": "number"},
                "vote_count": {"type": "integer"},
                "adult": {"type": "boolean"},
                "genre_ids": {"type": "array", "items": {"type": "integer"}},
                "genres": {"type": "array", "items": {"$ref": "#/definitions/catalog.Genre"}},
                "runtime": {"type": "integer"},
                "tagline": {"type": "string"},
                "status": {"type": "string"},
                "imdb_id": {"type": "string"}
            }
        },
        "recommend.Rating": {
            "type": "object",
            "properties": {
                "tmdbId": {"type": "integer"},
                "rating": {"type": "number"},
                "updatedAt": {"type": "string"}
            }
        },
        "validation.PreferencesRequest": {
            "type": "object",
            "properties": {
                "favoriteGenres": {"type": "array", "maxItems": 20, "items": {"type": "string"}}
            }
        },
        "validation.RatingRequest": {
            "type": "object",
            "required": ["rating"],
            "properties": {
                "movieId": {"type": "integer"},
                "rating": {"type": "number", "minimum": 0, "maximum": 10}
            }
        }
    },
    "tags": [
        {"description": "Personalized recommendations", "name": "recommendations"},
        {"description": "Movie catalog search, details, trending and popular listings", "name": "movies"},
        {"description": "User ratings and genre preferences", "name": "ratings"},
        {"description": "Health and readiness probes", "name": "health"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5050",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Marquee API",
	Description:      "Movie recommendations backed by collaborative filtering over user ratings, with a TMDB catalog proxy.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
