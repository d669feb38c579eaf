// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

/*
Package cache provides the process-wide memoisation layer for parsed Plex documents.

Key Components:

  - LFU: generic least-frequently-used store with per-entry TTL, O(1) operations
    and hit/miss/eviction counters
  - Loader: singleflight front over an LFU exposing GetOrLoad, Insert, Invalidate
    and Stats; the backing map is never exposed

# Loader Semantics

Concurrent GetOrLoad calls for one key run the load function once. The load runs on
a context detached from any single caller; it is cancelled only when every waiting
caller has returned (each caller still honours its own context). Errors are returned
to every waiter and are never cached.

Usage:

	docs := cache.NewLoader[*models.Document]("documents", 10000, 30*time.Second)
	doc, err := docs.GetOrLoad(ctx, "hubs:"+token, func(ctx context.Context) (*models.Document, error) {
	    return client.Get(ctx, cc, "/hubs")
	})

Values are shared between callers. Store immutable values or copy on the way out.
*/
package cache
