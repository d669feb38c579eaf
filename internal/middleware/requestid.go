// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package middleware

import (
	"context"
	"net/http"

	"github.com/tomtom215/replex/internal/logging"
)

// RequestIDHeader is honoured when an upstream proxy already assigned an ID.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds inbound IDs so a client cannot bloat every log line.
const maxRequestIDLength = 128

// RequestID gives each request an ID for log correlation. The ID lives only
// in the request context; it is never echoed as a response header because
// Plex clients see every header the proxy adds.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = logging.GenerateRequestID()
		}

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	return logging.RequestIDFromContext(ctx)
}
