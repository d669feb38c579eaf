// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

/*
Package middleware provides the HTTP middleware shared by every Replex route.

Key Components:

  - RequestID: assigns a request ID and stores it in the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation
  - AccessLog: per-request debug log, warn for slow or 5xx requests

None of these write response headers. Plex clients receive exactly what the
upstream server (or an intercept handler) produced.

Middleware Stack:

All three are func(http.Handler) http.Handler and are installed on the chi
router in order:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(middleware.DefaultSlowThreshold))

PrometheusMetrics labels requests with the chi route pattern
("/hubs/sections/{id}"), falling back to "unmatched" outside a router.
*/
package middleware
