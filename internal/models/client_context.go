// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package models

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Plex client headers. Each may also arrive as a query parameter.
const (
	HeaderToken             = "X-Plex-Token"
	HeaderClientIdentifier  = "X-Plex-Client-Identifier"
	HeaderProduct           = "X-Plex-Product"
	HeaderPlatform          = "X-Plex-Platform"
	HeaderPlatformVersion   = "X-Plex-Platform-Version"
	HeaderDevice            = "X-Plex-Device"
	HeaderSessionID         = "X-Plex-Session-Id"
	HeaderPlaybackSessionID = "X-Plex-Playback-Session-Id"
	HeaderScreenResolution  = "X-Plex-Device-Screen-Resolution"
	HeaderContainerStart    = "X-Plex-Container-Start"
	HeaderContainerSize     = "X-Plex-Container-Size"
)

// Query-only parameters.
const (
	ParamIncludeCollections       = "includeCollections"
	ParamContentDirectoryID       = "contentDirectoryID"
	ParamPinnedContentDirectoryID = "pinnedContentDirectoryID"
	ParamCount                    = "count"
)

// ClientContext is the per-request identity and paging window of the
// calling Plex client.
type ClientContext struct {
	Token             string
	ClientIdentifier  string
	Product           string
	Platform          Platform
	PlatformVersion   string
	Device            string
	SessionID         string
	PlaybackSessionID string
	ScreenResolution  string

	IncludeCollections       bool
	ContentDirectoryID       []string
	PinnedContentDirectoryID []string
	Count                    *int
	ContainerStart           *int
	ContainerSize            *int

	// ContentType is the format the client wants the response in.
	ContentType ContentType

	// Header is a copy of the inbound headers, forwarded upstream.
	Header http.Header
}

// NewClientContext parses the request's headers and query string. Names
// match case-insensitively and the query wins over headers.
func NewClientContext(r *http.Request) *ClientContext {
	q := r.URL.Query()
	lookup := func(name string) string {
		if v, ok := queryValue(q, name); ok {
			return v
		}
		return r.Header.Get(name)
	}

	cc := &ClientContext{
		Token:             lookup(HeaderToken),
		ClientIdentifier:  lookup(HeaderClientIdentifier),
		Product:           lookup(HeaderProduct),
		Platform:          ParsePlatform(lookup(HeaderPlatform)),
		PlatformVersion:   lookup(HeaderPlatformVersion),
		Device:            lookup(HeaderDevice),
		SessionID:         lookup(HeaderSessionID),
		PlaybackSessionID: lookup(HeaderPlaybackSessionID),
		ScreenResolution:  lookup(HeaderScreenResolution),
		ContentType:       ContentTypeFromHeaders(r.Header),
		Header:            r.Header.Clone(),
	}

	if v, ok := queryValue(q, ParamIncludeCollections); ok {
		cc.IncludeCollections = cast.ToBool(v)
	}
	if v, ok := queryValue(q, ParamContentDirectoryID); ok {
		cc.ContentDirectoryID = SplitIDs(v)
	}
	if v, ok := queryValue(q, ParamPinnedContentDirectoryID); ok {
		cc.PinnedContentDirectoryID = SplitIDs(v)
	}
	if v, ok := queryValue(q, ParamCount); ok {
		cc.Count = parseOptionalInt(v)
	}
	cc.ContainerStart = parseOptionalInt(lookup(HeaderContainerStart))
	cc.ContainerSize = parseOptionalInt(lookup(HeaderContainerSize))

	if cc.Header == nil {
		cc.Header = http.Header{}
	}
	return cc
}

// IsTVProduct reports whether the product names a TV build, e.g.
// "Plex for Android (TV)".
func (cc *ClientContext) IsTVProduct() bool {
	return strings.Contains(strings.ToLower(cc.Product), "(tv)")
}

func queryValue(q url.Values, name string) (string, bool) {
	if vs, ok := q[name]; ok && len(vs) > 0 {
		return vs[0], true
	}
	for k, vs := range q {
		if strings.EqualFold(k, name) && len(vs) > 0 {
			return vs[0], true
		}
	}
	return "", false
}

func parseOptionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}
