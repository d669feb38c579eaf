// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/replex/internal/models"
	"github.com/tomtom215/replex/internal/plex"
	"github.com/tomtom215/replex/internal/validation"
)

func TestSetQueryParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		key   string
		value string
		want  string
	}{
		{"empty query", "", "count", "6", "count=6"},
		{"append", "a=1&b=2", "count", "6", "a=1&b=2&count=6"},
		{"replace in place", "a=1&count=3&b=2", "count", "6", "a=1&count=6&b=2"},
		{"case insensitive key", "a=1&Count=3", "count", "6", "a=1&count=6"},
		{"duplicate keys collapse", "count=1&x=y&count=2", "count", "6", "count=6&x=y"},
		{"list value escaped", "a=1", "contentDirectoryID", "6,7", "a=1&contentDirectoryID=6%2C7"},
		{"other pairs untouched", "t=a%20b&size=medium-240", "height", "240", "t=a%20b&size=medium-240&height=240"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := setQueryParam(tt.raw, tt.key, tt.value); got != tt.want {
				t.Errorf("setQueryParam(%q, %q, %q) = %q, want %q", tt.raw, tt.key, tt.value, got, tt.want)
			}
		})
	}
}

func TestIsStreamPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"/video/:/transcode/universal/start.m3u8", true},
		{"/:/timeline", true},
		{"/:/timeline/poll", true},
		{"/library/parts/123/1690000000/file.mkv", true},
		{"/library/parts/123/thumb", false},
		{"/library/metadata/1", false},
		{"/video/:/transcode", false},
	}

	for _, tt := range tests {
		if got := isStreamPath(tt.path); got != tt.want {
			t.Errorf("isStreamPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsFirstPinned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dirs   []string
		pinned []string
		want   bool
	}{
		{"first pinned", []string{"6"}, []string{"6", "7"}, true},
		{"secondary pinned", []string{"7"}, []string{"6", "7"}, false},
		{"no pinned list", []string{"7"}, nil, true},
		{"no directory", nil, []string{"6"}, true},
	}

	for _, tt := range tests {
		cc := &models.ClientContext{ContentDirectoryID: tt.dirs, PinnedContentDirectoryID: tt.pinned}
		if got := isFirstPinned(cc); got != tt.want {
			t.Errorf("%s: isFirstPinned() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	type params struct {
		IDs string `validate:"required"`
	}
	verr := validation.ValidateStruct(&params{})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want an error for a missing field")
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing token", ErrMissingToken, http.StatusUnauthorized},
		{"validation", verr, http.StatusBadRequest},
		{"not found", fmt.Errorf("collection 9: %w", plex.ErrNotFound), http.StatusNotFound},
		{"transport", &plex.TransportError{Err: errors.New("connection refused")}, http.StatusBadGateway},
		{"upstream status", &plex.StatusError{StatusCode: http.StatusInternalServerError, Path: "/hubs"}, http.StatusInternalServerError},
		{"decode", &plex.DecodeError{Err: errors.New("unexpected EOF")}, http.StatusInternalServerError},
		{"deadline", &plex.TransportError{Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("%s: statusFor() = %d, want %d", tt.name, got, tt.want)
		}
	}
}
