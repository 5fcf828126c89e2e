// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package services adapts Marquee components to suture.Service.
//
//   - HTTPServerService runs the API's *http.Server with graceful shutdown.
//   - CacheProbeService refreshes cache availability and the cache_available gauge.
//
// The rating event consumer implements suture.Service itself and is added
// to the tree directly.
package services
