// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
)

// DefaultSnapshotSize is the number of (exclude, limit) pools kept by a PeerSnapshot.
const DefaultSnapshotSize = 256

// peerLoadTimeout bounds a shared pool query, independent of any one caller.
const peerLoadTimeout = 30 * time.Second

type peerKey struct {
	exclude string
	limit   int
}

// PeerSnapshot caches PeerPool results for a short TTL. Concurrent misses for
// the same key share one query. Cached slices are shared and must not be modified.
//
// Rating writes must call Purge so the next request sees them.
type PeerSnapshot struct {
	store recommend.UserStore
	lru   *expirable.LRU[peerKey, []recommend.UserProfile]
	group singleflight.Group
}

// NewPeerSnapshot wraps store. ttl <= 0 defaults to one minute, size <= 0 to DefaultSnapshotSize.
func NewPeerSnapshot(store recommend.UserStore, ttl time.Duration, size int) *PeerSnapshot {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if size <= 0 {
		size = DefaultSnapshotSize
	}
	return &PeerSnapshot{
		store: store,
		lru:   expirable.NewLRU[peerKey, []recommend.UserProfile](size, nil, ttl),
	}
}

// FindUser is never cached.
func (p *PeerSnapshot) FindUser(ctx context.Context, id string) (*recommend.UserProfile, error) {
	return p.store.FindUser(ctx, id)
}

// PeerPool returns the cached pool for (excludeID, limit), loading it on a miss.
// The shared load is detached from ctx. ctx only bounds how long this caller waits.
func (p *PeerSnapshot) PeerPool(ctx context.Context, excludeID string, limit int) ([]recommend.UserProfile, error) {
	if limit < 0 {
		limit = 0
	}
	key := peerKey{exclude: excludeID, limit: limit}
	if peers, ok := p.lru.Get(key); ok {
		metrics.PeerSnapshotLookups.WithLabelValues("hit").Inc()
		return peers, nil
	}
	metrics.PeerSnapshotLookups.WithLabelValues("miss").Inc()

	ch := p.group.DoChan(excludeID+"\x00"+strconv.Itoa(limit), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), peerLoadTimeout)
		defer cancel()

		peers, err := p.store.PeerPool(loadCtx, excludeID, limit)
		if err != nil {
			return nil, err
		}
		p.lru.Add(key, peers)
		return peers, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]recommend.UserProfile), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Purge drops every cached pool.
func (p *PeerSnapshot) Purge() {
	p.lru.Purge()
}

// Len returns the number of cached pools.
func (p *PeerSnapshot) Len() int {
	return p.lru.Len()
}
