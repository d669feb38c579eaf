// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"
	"strings"

	"github.com/tomtom215/replex/internal/models"
)

// ProxyPrefix is the URL space owned by the proxy.
const ProxyPrefix = "/replex"

const defaultHubStyle = "shelf"

// HubKey routes hub "more" links back through the proxy by prefixing them
// with /replex/<style>. Keys already under /replex are left alone.
type HubKey struct{ Base }

func (HubKey) Name() string { return "hub_key" }

func (HubKey) TransformMetadata(_ context.Context, _ *Env, hub *models.MetaData) error {
	if hub.IsHub() {
		hub.Key = StyledKey(hub.Style, hub.Key)
	}
	return nil
}

// StyledKey returns key under /replex/<style>. It is idempotent.
func StyledKey(style, key string) string {
	if strings.HasPrefix(key, ProxyPrefix) {
		return key
	}
	style = strings.ToLower(style)
	if style == "" {
		style = defaultHubStyle
	}
	return ProxyPrefix + "/" + style + key
}
