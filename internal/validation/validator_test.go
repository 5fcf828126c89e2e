// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package validation

import (
	"strings"
	"sync"
	"testing"
)

func ptr(f float64) *float64 { return &f }

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	results := make(chan any, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- GetValidator()
		}()
	}
	wg.Wait()
	close(results)

	first := GetValidator()
	for v := range results {
		if v != first {
			t.Fatal("GetValidator() returned different instances")
		}
	}
}

func TestRatingRequest(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		req       RatingRequest
		wantField string
	}{
		{"valid", RatingRequest{MovieID: 550, Rating: ptr(8)}, ""},
		{"zero rating", RatingRequest{MovieID: 550, Rating: ptr(0)}, ""},
		{"max rating", RatingRequest{MovieID: 550, Rating: ptr(10)}, ""},
		{"fractional", RatingRequest{MovieID: 1, Rating: ptr(7.5)}, ""},
		{"missing rating", RatingRequest{MovieID: 550}, "rating"},
		{"negative", RatingRequest{MovieID: 550, Rating: ptr(-0.5)}, "rating"},
		{"too high", RatingRequest{MovieID: 550, Rating: ptr(10.1)}, "rating"},
		{"zero movie", RatingRequest{Rating: ptr(5)}, "movieId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := err.Fields[0].Field; got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestPreferencesRequest(t *testing.T) {
	t.Parallel()

	tooMany := make([]string, MaxPreferredGenres+1)
	for i := range tooMany {
		tooMany[i] = "18"
	}

	tests := []struct {
		name    string
		genres  []string
		wantErr bool
	}{
		{"empty clears", nil, false},
		{"ids", []string{"18", "27", "10749"}, false},
		{"name instead of id", []string{"Drama"}, true},
		{"blank", []string{""}, true},
		{"too many", tooMany, true},
		{"at limit", tooMany[:MaxPreferredGenres], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&PreferencesRequest{FavoriteGenres: tt.genres})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecommendationQuery(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		q       RecommendationQuery
		wantErr bool
	}{
		{"object id", RecommendationQuery{UserID: "64b7f0c2e1a4b5c6d7e8f901", Limit: 12}, false},
		{"default limit", RecommendationQuery{UserID: "alice"}, false},
		{"whitespace", RecommendationQuery{UserID: "al ice"}, true},
		{"empty", RecommendationQuery{}, true},
		{"too long", RecommendationQuery{UserID: strings.Repeat("x", 129)}, true},
		{"negative limit", RecommendationQuery{UserID: "a", Limit: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(&tt.q); (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchQuery(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		q       SearchQuery
		wantErr bool
	}{
		{"zero", SearchQuery{}, false},
		{"full", SearchQuery{Query: "alien", Page: 2, Year: 1979, Genre: "27", SortBy: "vote_average.desc", RatingGTE: 7}, false},
		{"bad sort", SearchQuery{SortBy: "title"}, true},
		{"bad year", SearchQuery{Year: 1500}, true},
		{"page too high", SearchQuery{Page: 501}, true},
		{"rating too high", SearchQuery{RatingGTE: 11}, true},
		{"genre name", SearchQuery{Genre: "horror"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(&tt.q); (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"lte", &RatingRequest{MovieID: 1, Rating: ptr(11)}, "rating must be less than or equal to 10"},
		{"gte", &RatingRequest{MovieID: 1, Rating: ptr(-1)}, "rating must be greater than or equal to 0"},
		{"required", &RatingRequest{MovieID: 1}, "rating is required"},
		{"gt", &RatingRequest{MovieID: 0, Rating: ptr(1)}, "movieId must be greater than 0"},
		{"genreid", &PreferencesRequest{FavoriteGenres: []string{"x"}}, "favoriteGenres[0] must be a numeric TMDB genre id"},
		{"max items", &PreferencesRequest{FavoriteGenres: make([]string, 21)}, "favoriteGenres must be at most 20 items"},
		{"max chars", &SearchQuery{Query: strings.Repeat("q", 201)}, "q must be at most 200 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(tt.v)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := err.Fields[0].Message; got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()
	err := ValidateStruct(&RatingRequest{MovieID: 550, Rating: ptr(42)})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Details["field"] != "rating" || apiErr.Details["tag"] != "lte" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()
	err := ValidateStruct(&RatingRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(err.Fields) != 2 {
		t.Fatalf("errors = %d, want 2", len(err.Fields))
	}
	apiErr := err.ToAPIError()
	if !strings.Contains(apiErr.Message, "movieId:") || !strings.Contains(apiErr.Message, "rating:") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]any)
	if !ok || len(fields) != 2 {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_Empty(t *testing.T) {
	t.Parallel()
	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Message != "Validation failed" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestValidateVar(t *testing.T) {
	t.Parallel()
	if err := ValidateVar("limit", 12, "gte=1,lte=100"); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	err := ValidateVar("limit", 500, "gte=1,lte=100")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "limit must be less than or equal to 100" {
		t.Errorf("message = %q", got)
	}
	if err.Fields[0].Field != "limit" {
		t.Errorf("field = %q", err.Fields[0].Field)
	}
}
