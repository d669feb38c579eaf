// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package logging

import (
	"net/url"
	"strings"
)

// redactedParams are query parameters and headers whose values never reach
// the logs. Keys are compared case-insensitively.
var redactedParams = map[string]bool{
	"x-plex-token":  true,
	"token":         true,
	"authorization": true,
}

// RedactToken masks a token, showing only the first and last 2 characters.
// Example: "abcdefghijklmnop" -> "ab...op"
func RedactToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:2] + "..." + token[len(token)-2:]
}

// RedactQuery returns rawQuery with every sensitive parameter masked.
// Unparseable queries are dropped entirely.
func RedactQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "[unparseable]"
	}
	changed := false
	for key, vals := range values {
		if !redactedParams[strings.ToLower(key)] {
			continue
		}
		for i := range vals {
			vals[i] = RedactToken(vals[i])
		}
		changed = true
	}
	if !changed {
		return rawQuery
	}
	return values.Encode()
}

// RedactURL returns u as a string with sensitive query parameters masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clone := *u
	clone.RawQuery = RedactQuery(u.RawQuery)
	clone.User = nil
	return clone.String()
}
