// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// entry is a cached value with its expiration.
type entry struct {
	data      []byte
	expiresAt time.Time
}

// Stats tracks cache performance metrics
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// MemoryGateway is a process-local gateway with per-entry TTL.
//
// Expired entries are removed lazily on Get and by a background cleanup loop
// that runs until Close is called.
type MemoryGateway struct {
	mu      sync.RWMutex
	entries map[string]entry

	statsMu sync.Mutex
	stats   Stats

	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryGateway creates an in-memory gateway and starts its cleanup loop.
func NewMemoryGateway() *MemoryGateway {
	return newMemoryGateway(5 * time.Minute)
}

func newMemoryGateway(cleanupInterval time.Duration) *MemoryGateway {
	m := &MemoryGateway{
		entries: make(map[string]entry),
		stats:   Stats{LastCleanup: time.Now()},
		stop:    make(chan struct{}),
	}
	go m.cleanupLoop(cleanupInterval)
	return m
}

// Name returns "memory".
func (m *MemoryGateway) Name() string { return "memory" }

// Available always reports true.
func (m *MemoryGateway) Available(context.Context) bool { return true }

// Get retrieves a value, treating expired entries as misses.
func (m *MemoryGateway) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		m.record(func(s *Stats) { s.Misses++ })
		return nil, ErrMiss
	}

	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		m.record(func(s *Stats) { s.Misses++; s.Evictions++ })
		return nil, ErrMiss
	}

	m.record(func(s *Stats) { s.Hits++ })
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

// SetWithExpiry stores a copy of value for ttl.
func (m *MemoryGateway) SetWithExpiry(_ context.Context, key string, value []byte, ttl time.Duration) error {
	data := make([]byte, len(value))
	copy(data, value)

	m.mu.Lock()
	m.entries[key] = entry{data: data, expiresAt: time.Now().Add(ttl)}
	total := int64(len(m.entries))
	m.mu.Unlock()

	m.record(func(s *Stats) { s.TotalKeys = total })
	return nil
}

// DeletePrefix removes every key starting with prefix.
func (m *MemoryGateway) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	var removed int64
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			removed++
		}
	}
	total := int64(len(m.entries))
	m.mu.Unlock()

	m.record(func(s *Stats) { s.Evictions += removed; s.TotalKeys = total })
	return nil
}

// Close stops the cleanup loop.
func (m *MemoryGateway) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	return nil
}

// GetStats returns a snapshot of current cache statistics.
func (m *MemoryGateway) GetStats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// HitRate returns the cache hit rate as a percentage
func (m *MemoryGateway) HitRate() float64 {
	stats := m.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

func (m *MemoryGateway) record(fn func(*Stats)) {
	m.statsMu.Lock()
	fn(&m.stats)
	m.statsMu.Unlock()
}

// cleanupLoop periodically removes expired entries
func (m *MemoryGateway) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup removes all expired entries
func (m *MemoryGateway) cleanup() {
	now := time.Now()
	m.mu.Lock()
	var evictions int64
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
			evictions++
		}
	}
	total := int64(len(m.entries))
	m.mu.Unlock()

	m.record(func(s *Stats) {
		s.Evictions += evictions
		s.TotalKeys = total
		s.LastCleanup = now
	})
}

var (
	_ Gateway       = (*MemoryGateway)(nil)
	_ PrefixDeleter = (*MemoryGateway)(nil)
)
