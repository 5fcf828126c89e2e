// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package testinfra starts real backing services for integration tests
// using testcontainers-go.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/cache/...
//
// Tests call SkipIfNoDocker first so the suite still passes on machines
// without a Docker daemon.
package testinfra
