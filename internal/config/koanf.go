// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable read.
const EnvPrefix = "REPLEX_"

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"replex.yaml",
	"replex.yml",
	"/etc/replex/replex.yaml",
	"/etc/replex/replex.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "REPLEX_CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Plex: PlexConfig{
			Host:              "",
			Token:             "",
			ProviderURL:       "https://metadata.provider.plex.tv",
			ProviderRateLimit: 10,
		},
		Cache: CacheConfig{
			TTL:          30 * time.Second,
			Capacity:     10000,
			HeroCapacity: 5000,
		},
		Hubs: HubsConfig{
			IncludeWatched:   false,
			Interleave:       true,
			DisableUserState: false,
			DisableLeafCount: false,
			HubRestrictions:  false,
			CustomSorting:    []string{},
		},
		Proxy: ProxyConfig{
			DisableRelated:     false,
			RedirectStreams:    false,
			RedirectStreamsURL: "",
			RequestTimeout:     30 * time.Second,
			RelatedTimeout:     5 * time.Second,
		},
		Server: ServerConfig{
			Bind:          "0.0.0.0",
			Port:          3001,
			SSLEnable:     false,
			SSLDomain:     "",
			CertCacheDir:  "/data/certs",
			CORSOrigins:   []string{},
			HeroRateLimit: 600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: REPLEX_* overrides any setting
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// REPLEX_HOST -> plex.host, REPLEX_CACHE_TTL -> cache.ttl
	envProvider := env.ProviderWithValue(EnvPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"hubs.custom_sorting",
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps REPLEX_* variable names (prefix stripped, lowercased) to
// koanf paths.
var envMappings = map[string]string{
	// Upstream
	"host":                "plex.host",
	"token":               "plex.token",
	"provider_url":        "plex.provider_url",
	"provider_rate_limit": "plex.provider_rate_limit",

	// Cache
	"cache_ttl":           "cache.ttl",
	"cache_capacity":      "cache.capacity",
	"hero_cache_capacity": "cache.hero_capacity",

	// Hubs
	"include_watched":    "hubs.include_watched",
	"interleave":         "hubs.interleave",
	"disable_user_state": "hubs.disable_user_state",
	"disable_leaf_count": "hubs.disable_leaf_count",
	"hub_restrictions":   "hubs.hub_restrictions",
	"custom_sorting":     "hubs.custom_sorting",

	// Proxy
	"disable_related":      "proxy.disable_related",
	"redirect_streams":     "proxy.redirect_streams",
	"redirect_streams_url": "proxy.redirect_streams_url",
	"request_timeout":      "proxy.request_timeout",
	"related_timeout":      "proxy.related_timeout",

	// Server
	"bind":            "server.bind",
	"port":            "server.port",
	"ssl_enable":      "server.ssl_enable",
	"ssl_domain":      "server.ssl_domain",
	"cert_cache_dir":  "server.cert_cache_dir",
	"cors_origins":    "server.cors_origins",
	"hero_rate_limit": "server.hero_rate_limit",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// secondsPaths accept a bare number of seconds as well as a duration string.
var secondsPaths = map[string]bool{
	"cache.ttl":             true,
	"proxy.request_timeout": true,
	"proxy.related_timeout": true,
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - REPLEX_HOST -> plex.host
//   - REPLEX_CACHE_TTL=30 -> cache.ttl = 30s
//   - REPLEX_LOG_LEVEL -> logging.level
//
// Unmapped variables are skipped so stray REPLEX_* values cannot pollute
// the configuration.
func envTransformFunc(key, value string) (string, interface{}) {
	name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	path, ok := envMappings[name]
	if !ok {
		return "", nil
	}

	if secondsPaths[path] {
		if secs, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return path, (time.Duration(secs) * time.Second).String()
		}
	}
	return path, value
}
