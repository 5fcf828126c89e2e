// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"sync/atomic"
)

// mockCatalog is a Catalog with configurable errors and call counters.
type mockCatalog struct {
	err           error
	discoverCalls atomic.Int32
	detailsCalls  atomic.Int32
	searchCalls   atomic.Int32
	trendingCalls atomic.Int32
}

func (m *mockCatalog) Discover(_ context.Context, params DiscoverParams) (*Page, error) {
	m.discoverCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return &Page{Page: params.Page, Results: []Movie{{ID: 1, Title: "Popular"}}}, nil
}

func (m *mockCatalog) Details(_ context.Context, id int) (*Movie, error) {
	m.detailsCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return &Movie{ID: id, Title: "Details"}, nil
}

func (m *mockCatalog) Search(_ context.Context, params SearchParams) (*Page, error) {
	m.searchCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return &Page{Page: params.Page, Results: []Movie{{ID: 2, Title: params.Query}}}, nil
}

func (m *mockCatalog) Trending(context.Context) ([]Movie, error) {
	m.trendingCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return []Movie{{ID: 3, Title: "Trending"}}, nil
}
