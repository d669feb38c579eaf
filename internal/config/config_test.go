// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/replex/internal/validation"
)

// validConfig returns defaults plus the one required setting.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Plex.Host = "http://plex:32400"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"defaults with host", func(*Config) {}, ""},
		{"missing host", func(c *Config) { c.Plex.Host = "" }, "plex.host is required"},
		{"host with path", func(c *Config) { c.Plex.Host = "http://plex:32400/web" }, "REPLEX_HOST"},
		{"host bad scheme", func(c *Config) { c.Plex.Host = "ftp://plex" }, "REPLEX_HOST"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"zero capacity", func(c *Config) { c.Cache.Capacity = 0 }, "cache.capacity"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port must be at most 65535"},
		{"redirect without url", func(c *Config) { c.Proxy.RedirectStreams = true }, "REPLEX_REDIRECT_STREAMS_URL"},
		{"redirect with url", func(c *Config) {
			c.Proxy.RedirectStreams = true
			c.Proxy.RedirectStreamsURL = "https://direct.example.com"
		}, ""},
		{"ssl without domain", func(c *Config) { c.Server.SSLEnable = true }, "REPLEX_SSL_DOMAIN"},
		{"ssl with domain", func(c *Config) {
			c.Server.SSLEnable = true
			c.Server.SSLDomain = "replex.example.com"
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "REPLEX_LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "REPLEX_LOG_FORMAT"},
		{"empty log format", func(c *Config) { c.Logging.Format = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.errMsg)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestValidate_StructErrorType(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Cache.HeroCapacity = 0

	var verr *validation.RequestValidationError
	if err := cfg.Validate(); !errors.As(err, &verr) {
		t.Fatalf("Validate() error = %T, want *validation.RequestValidationError", err)
	}
	if len(verr.Errors()) != 1 || verr.Errors()[0].Tag() != "min" {
		t.Errorf("Errors() = %v, want one min error", verr.Errors())
	}
}

func TestCheckBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"http with port", "http://localhost:32400", false},
		{"https no port", "https://plex.example.com", false},
		{"trailing slash", "http://localhost:32400/", false},
		{"ipv6", "http://[::1]:32400", false},
		{"no scheme", "localhost:32400", true},
		{"ftp scheme", "ftp://localhost", true},
		{"empty", "", true},
		{"path", "http://localhost:32400/library", true},
		{"query", "http://localhost:32400?x=1", true},
		{"fragment", "http://localhost:32400/#top", true},
	}

	for _, tt := range tests {
		err := checkBaseURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: checkBaseURL(%q) error = %v, wantErr %v", tt.name, tt.url, err, tt.wantErr)
		}
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Bind: "0.0.0.0", Port: 3001}
	if got := s.Addr(); got != "0.0.0.0:3001" {
		t.Errorf("Addr() = %q, want 0.0.0.0:3001", got)
	}
}

func TestConfigString_OmitsToken(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Plex.Token = "super-secret"
	if s := cfg.String(); strings.Contains(s, "super-secret") {
		t.Errorf("String() = %q, leaks token", s)
	}
}
