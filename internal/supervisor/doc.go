// Marquee - Movie Recommendation Service
// Copyright 2026 The Marquee Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package supervisor runs Marquee's long-lived components under a suture v4
supervisor tree.

Services are grouped by layer so a failing component is restarted without
disturbing the others:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewCacheProbeService(gw, cfg.Cache.ProbeInterval, logger))
	tree.AddMessagingService(events.NewConsumer(bus, peers, responses, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	errCh := tree.ServeBackground(ctx)

Supervisor events (service panics, restarts, backoff) are logged through
sutureslog into the zerolog-backed slog handler, so they share the
application's JSON log stream.

A service's Serve must block until its context is canceled and return the
context error; returning early counts as a failure and triggers a restart.
Return suture.ErrDoNotRestart for one-shot work.
*/
package supervisor
