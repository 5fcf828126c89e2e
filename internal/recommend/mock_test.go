// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/marquee/internal/catalog"
)

// mockStore is an in-memory UserStore with call counters.
type mockStore struct {
	mu       sync.Mutex
	users    map[string]UserProfile
	findErr  error
	peersErr error

	findCalls atomic.Int32
	peerCalls atomic.Int32
}

func newMockStore(users ...UserProfile) *mockStore {
	m := &mockStore{users: make(map[string]UserProfile)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockStore) FindUser(_ context.Context, id string) (*UserProfile, error) {
	m.findCalls.Add(1)
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *mockStore) PeerPool(_ context.Context, excludeID string, limit int) ([]UserProfile, error) {
	m.peerCalls.Add(1)
	if m.peersErr != nil {
		return nil, m.peersErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.users))
	for id, u := range m.users {
		if id != excludeID && len(u.Ratings) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]UserProfile, len(ids))
	for i, id := range ids {
		out[i] = m.users[id]
	}
	return out, nil
}

// mockCatalog serves a fixed popularity ranking and per-genre rankings.
type mockCatalog struct {
	popular     []catalog.Movie
	byGenre     map[string][]catalog.Movie
	discoverErr error
	failDetails map[int]bool
	// detailsDelay blocks each Details call until it elapses or ctx is done.
	detailsDelay time.Duration

	discoverCalls atomic.Int32
	detailsCalls  atomic.Int32

	mu         sync.Mutex
	lastParams catalog.DiscoverParams
}

func newMockCatalog(n int) *mockCatalog {
	popular := make([]catalog.Movie, n)
	for i := range popular {
		popular[i] = catalog.Movie{ID: 1000 + i, Title: fmt.Sprintf("Popular %d", i), Popularity: float64(n - i)}
	}
	return &mockCatalog{
		popular:     popular,
		byGenre:     make(map[string][]catalog.Movie),
		failDetails: make(map[int]bool),
	}
}

func (m *mockCatalog) Discover(_ context.Context, params catalog.DiscoverParams) (*catalog.Page, error) {
	m.discoverCalls.Add(1)
	m.mu.Lock()
	m.lastParams = params
	m.mu.Unlock()

	if m.discoverErr != nil {
		return nil, m.discoverErr
	}
	if len(params.WithGenres) > 0 {
		key := params.Values().Get("with_genres")
		return &catalog.Page{Page: 1, Results: m.byGenre[key]}, nil
	}
	return &catalog.Page{Page: 1, Results: m.popular}, nil
}

func (m *mockCatalog) Details(ctx context.Context, id int) (*catalog.Movie, error) {
	m.detailsCalls.Add(1)
	if m.detailsDelay > 0 {
		select {
		case <-time.After(m.detailsDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.failDetails[id] {
		return nil, errors.New("upstream timeout")
	}
	return &catalog.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id), Runtime: 100}, nil
}

func (m *mockCatalog) params() catalog.DiscoverParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastParams
}
