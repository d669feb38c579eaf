// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package main

import (
	"net/http"
	"time"

	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tomtom215/replex/internal/api"
	"github.com/tomtom215/replex/internal/config"
	"github.com/tomtom215/replex/internal/plex"
	"github.com/tomtom215/replex/internal/transform"
)

const (
	shutdownTimeout   = 10 * time.Second
	janitorInterval   = time.Minute
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
)

func newPlexClient(cfg *config.Config) (*plex.Client, error) {
	return plex.NewClient(plex.Config{
		BaseURL:           cfg.Plex.Host,
		Token:             cfg.Plex.Token,
		ProviderURL:       cfg.Plex.ProviderURL,
		ProviderRateLimit: cfg.Plex.ProviderRateLimit,
		Timeout:           cfg.Proxy.RequestTimeout,
		CacheTTL:          cfg.Cache.TTL,
		CacheCapacity:     cfg.Cache.Capacity,
		HeroCacheCapacity: cfg.Cache.HeroCapacity,
	})
}

func handlerOptions(cfg *config.Config) api.Options {
	return api.Options{
		Hubs: transform.Options{
			IncludeWatched:   cfg.Hubs.IncludeWatched,
			Interleave:       cfg.Hubs.Interleave,
			DisableUserState: cfg.Hubs.DisableUserState,
			DisableLeafCount: cfg.Hubs.DisableLeafCount,
			HubRestrictions:  cfg.Hubs.HubRestrictions,
			CustomSorting:    cfg.Hubs.CustomSorting,
		},
		DisableRelated:     cfg.Proxy.DisableRelated,
		RedirectStreams:    cfg.Proxy.RedirectStreams,
		RedirectStreamsURL: cfg.Proxy.RedirectStreamsURL,
		RequestTimeout:     cfg.Proxy.RequestTimeout,
		RelatedTimeout:     cfg.Proxy.RelatedTimeout,
	}
}

func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mw.HeroRateLimit = cfg.Server.HeroRateLimit
	return mw
}

// newHTTPServer builds the listener. Plain listeners speak HTTP/1.1 and
// cleartext HTTP/2 (h2c); TLS listeners get ACME certificates for
// SSLDomain and negotiate HTTP/2 through ALPN.
//
// There is no WriteTimeout: passthrough streams can run for hours.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	if !cfg.Server.SSLEnable {
		server.Handler = h2c.NewHandler(handler, &http2.Server{IdleTimeout: idleTimeout})
		return server
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(cfg.Server.SSLDomain),
		Cache:      autocert.DirCache(cfg.Server.CertCacheDir),
	}
	server.Handler = handler
	server.TLSConfig = manager.TLSConfig()
	return server
}
