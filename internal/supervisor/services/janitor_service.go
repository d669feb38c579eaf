// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package services

import (
	"context"
	"time"

	"github.com/tomtom215/replex/internal/logging"
)

// ExpiringCache drops expired entries on demand. Satisfied by *plex.Client.
type ExpiringCache interface {
	CleanupExpired() int
}

// CacheJanitorService sweeps expired upstream documents on a fixed
// interval. Lookups already skip expired entries; the sweep frees them and
// refreshes the cache_entries gauge.
type CacheJanitorService struct {
	cache    ExpiringCache
	interval time.Duration
}

// NewCacheJanitorService creates a janitor. A non-positive interval means
// one minute.
func NewCacheJanitorService(cache ExpiringCache, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{cache: cache, interval: interval}
}

// Serve implements suture.Service.
func (j *CacheJanitorService) Serve(ctx context.Context) error {
	logger := logging.WithComponent("cache-janitor")
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := j.cache.CleanupExpired(); n > 0 {
				logger.Debug().Int("removed", n).Msg("Expired cache entries removed")
			}
		}
	}
}

// String implements fmt.Stringer.
func (j *CacheJanitorService) String() string {
	return "cache-janitor"
}
