// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"io"

	"github.com/rs/zerolog"
)

// closeWithLog closes a resource and logs any error.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func closeWithLog(closer io.Closer, logger zerolog.Logger, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource in error paths where Close errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// rollbackQuietly is deferred after BeginTx; it is a no-op once the tx committed.
func rollbackQuietly(tx interface{ Rollback() error }) {
	_ = tx.Rollback()
}
