// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

/*
Package api is the HTTP front of the proxy: a chi router that intercepts a
handful of Plex discovery endpoints and forwards everything else.

# Routes

Intercepted (response rewritten by a transform pipeline):

	GET /hubs/promoted                              promoted hubs
	GET /hubs/sections/{id}                         library hubs
	GET /replex/library/collections/{ids}/children  mixed collections
	GET /replex/{style}/*                           styled hub keys

Owned by the proxy:

	GET /replex/image/hero/{type}/{uuid}  307 to provider cover art
	GET /replex/health                    breaker and cache status
	GET /replex/metrics                   Prometheus exposition

Adjusted passthrough:

	GET /photo/:/transcode                size preset expanded to height/width
	GET /library/metadata/{id}/related    own deadline (RelatedTimeout)
	GET /library/metadata/{id}            includeRelated=0 when DisableRelated
	    /playQueues                       includeRelated=0 when DisableRelated
	    /video/:/transcode/*, /:/timeline*, /library/parts/{part}/file.{ext}
	                                      302 to RedirectStreamsURL when enabled

Everything else is forwarded by an httputil.ReverseProxy that only
rewrites the Host header.

# Errors

Intercept routes answer errors with an empty body:

	missing token            401
	invalid path parameters  400
	plex.ErrNotFound         404
	decode or status error   500
	transport or open breaker 502
	deadline exceeded        504

A cancelled request aborts the connection.
*/
package api
