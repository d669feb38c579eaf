// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

/*
Package config loads the proxy configuration with Koanf v2.

# Sources

Later layers win:

 1. Built-in defaults
 2. YAML file: $REPLEX_CONFIG_PATH, ./replex.yaml or /etc/replex/replex.yaml
 3. REPLEX_* environment variables

Only the variables listed below are read. Comma-separated values fill list
fields. REPLEX_CACHE_TTL, REPLEX_REQUEST_TIMEOUT and REPLEX_RELATED_TIMEOUT
accept a bare number of seconds or a Go duration.

# Environment Variables

Upstream:
  - REPLEX_HOST: Plex base URL (required)
  - REPLEX_TOKEN: admin token for provider lookups
  - REPLEX_PROVIDER_URL: metadata provider (default: https://metadata.provider.plex.tv)
  - REPLEX_PROVIDER_RATE_LIMIT: provider requests per second (default: 10)

Cache:
  - REPLEX_CACHE_TTL: document cache TTL (default: 30s)
  - REPLEX_CACHE_CAPACITY: cached documents (default: 10000)
  - REPLEX_HERO_CACHE_CAPACITY: cached hero art URLs (default: 5000)

Hubs:
  - REPLEX_INCLUDE_WATCHED (default: false)
  - REPLEX_INTERLEAVE (default: true)
  - REPLEX_DISABLE_USER_STATE (default: false)
  - REPLEX_DISABLE_LEAF_COUNT (default: false)
  - REPLEX_HUB_RESTRICTIONS (default: false)
  - REPLEX_CUSTOM_SORTING: hub keys to show first

Proxy:
  - REPLEX_DISABLE_RELATED (default: false)
  - REPLEX_REDIRECT_STREAMS, REPLEX_REDIRECT_STREAMS_URL
  - REPLEX_REQUEST_TIMEOUT (default: 30s)
  - REPLEX_RELATED_TIMEOUT (default: 5s)

Server:
  - REPLEX_BIND (default: 0.0.0.0), REPLEX_PORT (default: 3001)
  - REPLEX_SSL_ENABLE, REPLEX_SSL_DOMAIN, REPLEX_CERT_CACHE_DIR (default: /data/certs)
  - REPLEX_CORS_ORIGINS: origins allowed on /replex/*
  - REPLEX_HERO_RATE_LIMIT: hero requests per IP per minute (default: 600)

Logging:
  - REPLEX_LOG_LEVEL (default: info), REPLEX_LOG_FORMAT (default: json), REPLEX_LOG_CALLER

# Validation

Load returns an error when the result fails struct tag validation
(go-playground/validator) or the cross-field checks in Validate: absolute
http(s) URLs, a redirect URL when stream redirects are on, and a domain
when SSL is on.
*/
package config
