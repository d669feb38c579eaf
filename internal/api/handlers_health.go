// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/metrics"
)

// HealthStatus is the body of /replex/health.
type HealthStatus struct {
	Status  string      `json:"status"`
	Cache   CacheHealth `json:"cache"`
	Breaker string      `json:"breaker"`
	Uptime  float64     `json:"uptime_seconds"`
}

// CacheHealth summarises the document cache.
type CacheHealth struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Health reports whether Plex is reachable as far as the circuit breaker
// knows. An open breaker answers 503 so load balancers stop routing here.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.client.CacheStats()
	breaker := h.client.BreakerState()

	health := HealthStatus{
		Status: "healthy",
		Cache: CacheHealth{
			Entries: stats.Entries,
			Hits:    stats.Hits,
			Misses:  stats.Misses,
		},
		Breaker: breaker,
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	status := http.StatusOK
	if breaker == "open" {
		health.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	data, err := json.Marshal(health)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal health response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write health response")
	}
}

// Metrics serves the Prometheus exposition, refreshing the uptime gauge
// first.
func (h *Handler) Metrics() http.Handler {
	exposition := promhttp.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.AppUptime.Set(time.Since(h.startTime).Seconds())
		exposition.ServeHTTP(w, r)
	})
}
