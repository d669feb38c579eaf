// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// checkBaseURL accepts absolute http(s) URLs that name a server and nothing
// more. A single trailing slash is allowed.
func checkBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}

	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("scheme %q is not http or https", u.Scheme)
	case u.Host == "":
		return errors.New("no host")
	case strings.TrimSuffix(u.Path, "/") != "":
		return fmt.Errorf("path %q not allowed, give the server root", u.Path)
	case u.RawQuery != "" || u.Fragment != "":
		return errors.New("query or fragment not allowed")
	}
	return nil
}
