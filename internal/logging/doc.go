// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

// Package logging provides centralized zerolog-based logging for Replex.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("addr", addr).Msg("Server starting")
//	logging.Err(err).Msg("Listener failed")
//
//	// Inside a request: request_id and client fields are added
//	logging.Ctx(ctx).Warn().Err(err).Msg("Upstream retry")
//
// # Configuration
//
// main maps the logging section of the configuration onto Config:
//   - REPLEX_LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - REPLEX_LOG_FORMAT: json, console (default: json)
//   - REPLEX_LOG_CALLER: include caller file and line (default: false)
//
// # Request Context
//
// The request ID middleware stores a request ID with ContextWithRequestID,
// and the client context middleware stores the Plex client identity with
// ContextWithClient. Ctx reads both back so every line logged while serving
// a request can be correlated.
//
// # Redaction
//
// Plex tokens travel in query strings and headers. Anything that logs a URL
// or query goes through RedactURL or RedactQuery first.
//
// # slog Adapter
//
// NewSlogLogger returns an *slog.Logger that writes through zerolog, used by
// the suture supervisor's event hook.
//
// # Output Formats
//
// JSON Format (Production):
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","message":"Server starting","addr":"0.0.0.0:3001"}
//
// Console Format (Development):
//
//	10:30:00 INF Server starting addr=0.0.0.0:3001
//
// # Testing
//
//	var buf bytes.Buffer
//	ctx := logging.ContextWithLogger(ctx, logging.NewTestLogger(&buf))
package logging
