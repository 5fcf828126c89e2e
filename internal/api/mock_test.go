// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/database"
	"github.com/tomtom215/marquee/internal/events"
	"github.com/tomtom215/marquee/internal/recommend"
)

type mockRecommender struct {
	result *recommend.Result
	err    error

	calls     atomic.Int32
	lastLimit atomic.Int32
}

func (m *mockRecommender) Recommend(_ context.Context, _ string, limit int) (*recommend.Result, error) {
	m.calls.Add(1)
	m.lastLimit.Store(int32(limit))
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockCatalog struct {
	mu           sync.Mutex
	page         *catalog.Page
	trending     []catalog.Movie
	movies       map[int]catalog.Movie
	err          error
	lastSearch   catalog.SearchParams
	lastDiscover catalog.DiscoverParams

	searchCalls   atomic.Int32
	discoverCalls atomic.Int32
	detailsCalls  atomic.Int32
	trendingCalls atomic.Int32
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		page: &catalog.Page{
			Page:         1,
			Results:      []catalog.Movie{{ID: 1, Title: "Alien"}, {ID: 2, Title: "Heat"}},
			TotalPages:   4,
			TotalResults: 80,
		},
		trending: []catalog.Movie{{ID: 3, Title: "Dune"}},
		movies:   map[int]catalog.Movie{550: {ID: 550, Title: "Fight Club"}},
	}
}

func (m *mockCatalog) Discover(_ context.Context, p catalog.DiscoverParams) (*catalog.Page, error) {
	m.discoverCalls.Add(1)
	m.mu.Lock()
	m.lastDiscover = p
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.page, nil
}

func (m *mockCatalog) Search(_ context.Context, p catalog.SearchParams) (*catalog.Page, error) {
	m.searchCalls.Add(1)
	m.mu.Lock()
	m.lastSearch = p
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.page, nil
}

func (m *mockCatalog) Details(_ context.Context, id int) (*catalog.Movie, error) {
	m.detailsCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	movie, ok := m.movies[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &movie, nil
}

func (m *mockCatalog) Trending(context.Context) ([]catalog.Movie, error) {
	m.trendingCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.trending, nil
}

func (m *mockCatalog) discoverParams() catalog.DiscoverParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastDiscover
}

func (m *mockCatalog) searchParams() catalog.SearchParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSearch
}

type mockStore struct {
	mu      sync.Mutex
	ratings map[string]map[int]float64
	genres  map[string][]string
	err     error
	pingErr error

	upsertCalls atomic.Int32
}

func newMockStore() *mockStore {
	return &mockStore{
		ratings: make(map[string]map[int]float64),
		genres:  make(map[string][]string),
	}
}

func (m *mockStore) UpsertRating(_ context.Context, userID string, tmdbID int, rating float64) error {
	m.upsertCalls.Add(1)
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ratings[userID] == nil {
		m.ratings[userID] = make(map[int]float64)
	}
	m.ratings[userID][tmdbID] = rating
	return nil
}

func (m *mockStore) DeleteRating(_ context.Context, userID string, tmdbID int) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ratings[userID][tmdbID]; !ok {
		return database.ErrRatingNotFound
	}
	delete(m.ratings[userID], tmdbID)
	return nil
}

func (m *mockStore) ListRatings(_ context.Context, userID string) ([]recommend.Rating, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byMovie, ok := m.ratings[userID]
	if !ok {
		return nil, recommend.ErrUserNotFound
	}
	out := make([]recommend.Rating, 0, len(byMovie))
	for id, r := range byMovie {
		out = append(out, recommend.Rating{TMDBID: id, Rating: r})
	}
	return out, nil
}

func (m *mockStore) SetPreferredGenres(_ context.Context, userID string, genres []string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.genres[userID] = catalog.NormalizeGenres(genres)
	return nil
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }

type mockPublisher struct {
	mu     sync.Mutex
	events []events.RatingChanged
	err    error
}

func (m *mockPublisher) PublishRatingChanged(_ context.Context, e events.RatingChanged) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockPublisher) published() []events.RatingChanged {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.RatingChanged(nil), m.events...)
}

// apiFixture is a router over mocks and a memory cache.
type apiFixture struct {
	engine    *mockRecommender
	catalog   *mockCatalog
	store     *mockStore
	publisher *mockPublisher
	gw        *cache.MemoryGateway
	handler   *Handler
	mw        *ChiMiddlewareConfig
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	gw := cache.NewMemoryGateway()
	t.Cleanup(func() { _ = gw.Close() })

	f := &apiFixture{
		engine: &mockRecommender{result: &recommend.Result{
			Items: []catalog.Movie{{ID: 10, Title: "Ran"}},
			Tier:  recommend.TierPopular,
		}},
		catalog:   newMockCatalog(),
		store:     newMockStore(),
		publisher: &mockPublisher{},
		gw:        gw,
	}

	cfg := &config.Config{
		Recommend: config.RecommendConfig{
			DefaultLimit:   12,
			MaxLimit:       100,
			RequestTimeout: time.Second,
		},
	}
	f.handler = NewHandler(HandlerDeps{
		Engine:    f.engine,
		Catalog:   f.catalog,
		Store:     f.store,
		Publisher: f.publisher,
		Cache:     cache.NewBestEffort(gw, time.Second, zerolog.Nop()),
		Config:    cfg,
		Version:   "test",
	})

	f.mw = DefaultChiMiddlewareConfig()
	f.mw.CORSAllowedOrigins = []string{"https://marquee.example"}
	f.mw.RateLimitDisabled = true
	return f
}

func (f *apiFixture) router() http.Handler {
	return NewRouter(f.handler, NewChiMiddleware(f.mw)).SetupChi()
}

func (f *apiFixture) do(t *testing.T, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router().ServeHTTP(rec, req)
	return rec
}

// envelope is the decoded APIResponse with raw data.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"metadata"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("response not successful: %s", rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) *APIError {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
	return env.Error
}

var errBoom = errors.New("boom")
