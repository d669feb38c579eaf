// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and REPLEX_* environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (replex.yaml)
//  3. Environment Variables: REPLEX_* overrides any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Plex.Host, cfg.Hubs.Interleave, etc. are now populated
type Config struct {
	Plex    PlexConfig    `koanf:"plex"`
	Cache   CacheConfig   `koanf:"cache"`
	Hubs    HubsConfig    `koanf:"hubs"`
	Proxy   ProxyConfig   `koanf:"proxy"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// PlexConfig describes the upstream Plex server.
type PlexConfig struct {
	// Host is the Plex base URL, e.g. http://plex:32400. Required.
	Host string `koanf:"host" validate:"required"`

	// Token is the server admin token used for provider metadata lookups.
	Token string `koanf:"token"`

	// ProviderURL is the Plex metadata provider.
	// Default: https://metadata.provider.plex.tv
	ProviderURL string `koanf:"provider_url" validate:"required"`

	// ProviderRateLimit caps provider requests per second.
	// Default: 10
	ProviderRateLimit float64 `koanf:"provider_rate_limit" validate:"gt=0"`
}

// CacheConfig sizes the in-memory document caches.
type CacheConfig struct {
	// TTL is how long parsed upstream documents are reused.
	// REPLEX_CACHE_TTL accepts plain seconds ("30") or a duration ("30s").
	// Default: 30s
	TTL time.Duration `koanf:"ttl" validate:"gt=0"`

	// Capacity is the maximum number of cached documents.
	// Default: 10000
	Capacity int `koanf:"capacity" validate:"min=1"`

	// HeroCapacity is the maximum number of cached hero art URLs.
	// Default: 5000
	HeroCapacity int `koanf:"hero_capacity" validate:"min=1"`
}

// HubsConfig switches hub transforms on and off.
type HubsConfig struct {
	// IncludeWatched keeps watched items in collection hubs.
	IncludeWatched bool `koanf:"include_watched"`

	// Interleave merges collection hubs that share a title.
	// Default: true
	Interleave bool `koanf:"interleave"`

	// DisableUserState reports every item as unwatched.
	DisableUserState bool `koanf:"disable_user_state"`

	// DisableLeafCount removes leafCount from items.
	DisableLeafCount bool `koanf:"disable_leaf_count"`

	// HubRestrictions hides hubs of collections the user cannot see.
	HubRestrictions bool `koanf:"hub_restrictions"`

	// CustomSorting lists hub rating keys, collection ids or hub
	// identifiers to show first, in order.
	CustomSorting []string `koanf:"custom_sorting"`
}

// ProxyConfig controls passthrough behaviour.
type ProxyConfig struct {
	// DisableRelated forces includeRelated=0 on metadata requests.
	DisableRelated bool `koanf:"disable_related"`

	// RedirectStreams answers stream requests with a redirect to
	// RedirectStreamsURL instead of proxying them.
	RedirectStreams    bool   `koanf:"redirect_streams"`
	RedirectStreamsURL string `koanf:"redirect_streams_url"`

	// RequestTimeout is the ceiling for every proxied request.
	// Default: 30s
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`

	// RelatedTimeout is the ceiling for /library/metadata/<id>/related.
	// Default: 5s
	RelatedTimeout time.Duration `koanf:"related_timeout" validate:"gt=0"`
}

// ServerConfig controls the listener.
type ServerConfig struct {
	// Bind is the listen address.
	// Default: 0.0.0.0
	Bind string `koanf:"bind" validate:"required"`

	// Port is the listen port.
	// Default: 3001
	Port int `koanf:"port" validate:"min=1,max=65535"`

	// SSLEnable serves HTTPS with ACME certificates for SSLDomain.
	SSLEnable bool   `koanf:"ssl_enable"`
	SSLDomain string `koanf:"ssl_domain"`

	// CertCacheDir stores issued certificates.
	// Default: /data/certs
	CertCacheDir string `koanf:"cert_cache_dir"`

	// CORSOrigins are allowed to call /replex/* from a browser.
	CORSOrigins []string `koanf:"cors_origins"`

	// HeroRateLimit caps hero image requests per client IP per minute.
	// Default: 600
	HeroRateLimit int `koanf:"hero_rate_limit" validate:"min=1"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Bind, strconv.Itoa(s.Port))
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// String summarises the configuration for startup logs. Secrets are not
// included.
func (c *Config) String() string {
	return fmt.Sprintf("plex=%s listen=%s ssl=%t cache_ttl=%s interleave=%t include_watched=%t",
		c.Plex.Host, c.Server.Addr(), c.Server.SSLEnable, c.Cache.TTL, c.Hubs.Interleave, c.Hubs.IncludeWatched)
}
