// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and are
exposed at /replex/metrics in Prometheus text format:

	curl http://localhost:3001/replex/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Inbound requests (counter)
    Labels: method, endpoint (chi route pattern), status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: Requests in flight (gauge)
  - proxy_passthrough_total: Requests forwarded without transformation (counter)
    Labels: kind

Upstream Metrics:
  - upstream_requests_total: Plex round trips (counter)
    Labels: status_code ("transport_error" when no response arrived)
  - upstream_request_duration_seconds: Plex latency (histogram)
  - upstream_retries_total: Retried Plex calls (counter)
    Labels: reason

Cache Metrics (cache_type is "documents" or "hero_art"):
  - cache_hits_total, cache_misses_total, cache_evictions_total (counters)
  - cache_shared_loads_total: Lookups answered by a concurrent in-flight fetch (counter)
  - cache_entries: Current entries (gauge)

Pipeline Metrics:
  - pipeline_duration_seconds: Transform pipeline runtime (histogram)
    Labels: route
  - pipeline_errors_total: Failed transforms (counter)
    Labels: transform

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result (counter)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total: Labels name, from_state, to_state (counter)

# Thread Safety

All helpers are safe for concurrent use.
*/
package metrics
