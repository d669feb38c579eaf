// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package config

import (
	"fmt"

	"github.com/tomtom215/replex/internal/validation"
)

// Validate checks that required configuration is present and valid.
// Struct tags are checked first, then cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validatePlex(); err != nil {
		return err
	}

	if err := c.validateProxy(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validatePlex validates the upstream and provider URLs.
func (c *Config) validatePlex() error {
	if err := checkBaseURL(c.Plex.Host); err != nil {
		return fmt.Errorf("REPLEX_HOST is invalid: %w", err)
	}
	if err := checkBaseURL(c.Plex.ProviderURL); err != nil {
		return fmt.Errorf("REPLEX_PROVIDER_URL is invalid: %w", err)
	}
	return nil
}

// validateProxy validates passthrough settings.
func (c *Config) validateProxy() error {
	if !c.Proxy.RedirectStreams {
		return nil
	}
	if c.Proxy.RedirectStreamsURL == "" {
		return fmt.Errorf("REPLEX_REDIRECT_STREAMS_URL is required when REPLEX_REDIRECT_STREAMS=true")
	}
	if err := checkBaseURL(c.Proxy.RedirectStreamsURL); err != nil {
		return fmt.Errorf("REPLEX_REDIRECT_STREAMS_URL is invalid: %w", err)
	}
	return nil
}

// validateServer validates listener settings.
func (c *Config) validateServer() error {
	if !c.Server.SSLEnable {
		return nil
	}
	if c.Server.SSLDomain == "" {
		return fmt.Errorf("REPLEX_SSL_DOMAIN is required when REPLEX_SSL_ENABLE=true")
	}
	if c.Server.CertCacheDir == "" {
		return fmt.Errorf("REPLEX_CERT_CACHE_DIR is required when REPLEX_SSL_ENABLE=true")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("REPLEX_LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("REPLEX_LOG_FORMAT must be one of: json, console")
	}
	return nil
}
