// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"time"
)

// NoopGateway is the gateway used when caching is disabled.
type NoopGateway struct{}

func (NoopGateway) Name() string { return "none" }

func (NoopGateway) Available(context.Context) bool { return false }

func (NoopGateway) Close() error { return nil }

func (NoopGateway) Get(context.Context, string) ([]byte, error) {
	return nil, ErrMiss
}

func (NoopGateway) SetWithExpiry(context.Context, string, []byte, time.Duration) error {
	return nil
}

var _ Gateway = NoopGateway{}
