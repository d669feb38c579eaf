// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/plex"
	"github.com/tomtom215/replex/internal/validation"
)

// ErrMissingToken means an intercepted request carried no X-Plex-Token.
var ErrMissingToken = errors.New("missing plex token")

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrMissingToken):
		return http.StatusUnauthorized
	case isValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, plex.ErrNotFound):
		return http.StatusNotFound
	case plex.IsTransport(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes an empty-bodied error status for an intercept route.
// A cancelled request aborts the connection instead.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(r.Context().Err(), context.Canceled) {
		logging.CtxDebug(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Request cancelled")
		panic(http.ErrAbortHandler)
	}

	status := statusFor(err)
	logger := logging.Ctx(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("Intercept request failed")

	w.WriteHeader(status)
}

func isValidation(err error) bool {
	var verr *validation.RequestValidationError
	return errors.As(err, &verr)
}
