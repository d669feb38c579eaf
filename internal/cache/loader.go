// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/replex/internal/metrics"
)

// LoadFunc produces the value for a cache miss. The context it receives is
// detached from any single caller and is cancelled only when every caller
// waiting on the load has gone away.
type LoadFunc[V any] func(ctx context.Context) (V, error)

// maxJoinAttempts bounds how often a caller re-joins after landing on a load
// that the previous waiters abandoned.
const maxJoinAttempts = 3

// flight tracks the callers waiting on one in-flight load.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Loader is a memoising front for an LFU cache. Concurrent misses on the
// same key share a single call to the load function, and failed loads are
// never stored.
type Loader[V any] struct {
	name  string
	store *LFU[V]
	group singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

// NewLoader creates a loader backed by an LFU of the given capacity and TTL.
// name labels the cache in metrics.
func NewLoader[V any](name string, capacity int, ttl time.Duration) *Loader[V] {
	l := &Loader[V]{
		name:    name,
		store:   NewLFU[V](capacity, ttl),
		flights: make(map[string]*flight),
	}
	l.store.OnEvict(func(string) {
		metrics.CacheEvictions.WithLabelValues(name).Inc()
	})
	return l
}

// Name returns the metrics label of the loader.
func (l *Loader[V]) Name() string {
	return l.name
}

// GetOrLoad returns the cached value for key, or runs load once for all
// concurrent callers of key and caches a successful result.
func (l *Loader[V]) GetOrLoad(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	if v, ok := l.store.Get(key); ok {
		metrics.RecordCacheLookup(l.name, true)
		return v, nil
	}
	metrics.RecordCacheLookup(l.name, false)

	var (
		v   V
		err error
	)
	for attempt := 0; attempt < maxJoinAttempts; attempt++ {
		v, err = l.join(ctx, key, load)
		// A leader cancelled by waiters that all left is not this caller's failure.
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			continue
		}
		break
	}
	return v, err
}

func (l *Loader[V]) join(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	var zero V

	l.mu.Lock()
	fl, ok := l.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		fl = &flight{ctx: fctx, cancel: cancel}
		l.flights[key] = fl
	}
	fl.waiters++
	l.mu.Unlock()

	ch := l.group.DoChan(key, func() (interface{}, error) {
		defer l.finish(key, fl)
		v, err := load(fl.ctx)
		if err != nil {
			return nil, err
		}
		l.store.Set(key, v)
		metrics.CacheSize.WithLabelValues(l.name).Set(float64(l.store.Len()))
		return v, nil
	})

	select {
	case res := <-ch:
		l.leave(key, fl)
		if res.Shared {
			metrics.CacheSharedLoads.WithLabelValues(l.name).Inc()
		}
		if res.Err != nil {
			return zero, res.Err
		}
		v, ok := res.Val.(V)
		if !ok {
			return zero, nil
		}
		return v, nil
	case <-ctx.Done():
		l.leave(key, fl)
		return zero, ctx.Err()
	}
}

// leave drops one waiter. The last waiter out cancels the load.
func (l *Loader[V]) leave(key string, fl *flight) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fl.waiters--
	if fl.waiters > 0 {
		return
	}
	fl.cancel()
	if l.flights[key] == fl {
		delete(l.flights, key)
	}
}

// finish retires the flight once the load has returned.
func (l *Loader[V]) finish(key string, fl *flight) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.flights[key] == fl {
		delete(l.flights, key)
	}
}

// Insert stores value under key with the default TTL.
func (l *Loader[V]) Insert(key string, value V) {
	l.store.Set(key, value)
	metrics.CacheSize.WithLabelValues(l.name).Set(float64(l.store.Len()))
}

// Invalidate removes key. It reports whether the key was cached.
func (l *Loader[V]) Invalidate(key string) bool {
	removed := l.store.Delete(key)
	metrics.CacheSize.WithLabelValues(l.name).Set(float64(l.store.Len()))
	return removed
}

// CleanupExpired drops expired entries and returns how many went.
func (l *Loader[V]) CleanupExpired() int {
	removed := l.store.CleanupExpired()
	metrics.CacheSize.WithLabelValues(l.name).Set(float64(l.store.Len()))
	return removed
}

// Stats returns the counters of the backing store.
func (l *Loader[V]) Stats() Stats {
	return l.store.Stats()
}
