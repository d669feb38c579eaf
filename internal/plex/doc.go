// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

/*
Package plex is the upstream client used by intercept handlers and transforms.

Request Handling:
  - Every inbound header is forwarded except Accept, Accept-Encoding, Host and
    hop-by-hop headers
  - Accept: application/json, Accept-Language: en-US and Accept-Encoding: gzip
    are forced; gzip bodies are decoded with klauspost/compress
  - Each call carries a 30 second ceiling on top of the caller's context
  - Responses are parsed according to the response Content-Type

Failure Semantics:

Every operation returns nil or one of ErrNotFound, *StatusError, *TransportError
or *DecodeError. A 401 is retried up to twice with 200 ms exponential backoff
(cenkalti/backoff), 5xx answers and transport failures once, other 4xx never.
A gobreaker circuit breaker counts transport failures and 5xx answers; while it
is open calls fail fast with a *TransportError.

Caching:
  - GetCached memoises parsed documents under "<name>:<token>" in a singleflight
    LFU loader (internal/cache); callers receive private copies
  - GetHeroArt keeps provider cover art URLs for 30 days in an expirable LRU
    (hashicorp/golang-lru); misses are never cached
  - Provider lookups are paced by a golang.org/x/time/rate limiter
*/
package plex
