// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

// Package services adapts the proxy's long-running components to
// suture.Service so the supervisor tree can restart them.
//
//   - HTTPServerService: the listener, plain or TLS
//   - CacheJanitorService: periodic sweep of expired cached documents
package services
