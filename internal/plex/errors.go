// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package plex

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when Plex answers 404 or a lookup finds nothing.
var ErrNotFound = errors.New("plex: not found")

// StatusError is a non-2xx answer other than 404.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("plex: unexpected status %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.Path)
}

// TransportError means no usable response arrived: connection failure,
// timeout, or an open circuit breaker.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "plex: transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError means the response body did not parse as a media document.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "plex: decode: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsServerError reports whether err is a 5xx StatusError.
func IsServerError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 500
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
