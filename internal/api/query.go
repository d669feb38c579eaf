// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"net/url"
	"strings"
)

// setQueryParam sets key to value in a raw query string. Existing pairs are
// replaced in place (the key matches case-insensitively); a new pair is
// appended. Every other pair keeps its original bytes and order.
func setQueryParam(rawQuery, key, value string) string {
	pair := url.QueryEscape(key) + "=" + url.QueryEscape(value)
	if rawQuery == "" {
		return pair
	}

	parts := strings.Split(rawQuery, "&")
	out := make([]string, 0, len(parts)+1)
	replaced := false
	for _, p := range parts {
		if p == "" {
			continue
		}
		if strings.EqualFold(queryKey(p), key) {
			if !replaced {
				out = append(out, pair)
				replaced = true
			}
			continue
		}
		out = append(out, p)
	}
	if !replaced {
		out = append(out, pair)
	}
	return strings.Join(out, "&")
}

func queryKey(pair string) string {
	k, _, _ := strings.Cut(pair, "=")
	if unescaped, err := url.QueryUnescape(k); err == nil {
		return unescaped
	}
	return k
}

// withQuery joins a path and a raw query.
func withQuery(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}
