// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/replex/internal/logging"
)

// DefaultSlowThreshold is the duration above which a request is logged at warn.
const DefaultSlowThreshold = 2 * time.Second

// AccessLog logs every request at debug level and slow or failed ones at
// warn. Query strings are redacted because Plex clients send their token
// there.
func AccessLog(slowThreshold time.Duration) func(http.Handler) http.Handler {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				duration := time.Since(start)
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				event := logging.CtxDebug(r.Context())
				switch {
				case status >= http.StatusInternalServerError:
					event = logging.CtxWarn(r.Context())
				case duration > slowThreshold:
					event = logging.CtxWarn(r.Context()).Bool("slow", true)
				}
				event.
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("query", logging.RedactQuery(r.URL.RawQuery)).
					Int("status", status).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", duration).
					Msg("Request handled")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
