// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/models"
)

// ChiMiddlewareConfig holds configuration for the router's middleware
// factories.
type ChiMiddlewareConfig struct {
	// CORS configuration for /replex/*
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSMaxAge         int // seconds

	// Hero image rate limiting, per client IP
	HeroRateLimit     int
	HeroRateWindow    time.Duration
	RateLimitDisabled bool
	RateLimitKeyFunc  httprate.KeyFunc
}

// DefaultChiMiddlewareConfig returns the default configuration. CORS
// origins default to empty, so browsers are refused until configured.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		CORSAllowedHeaders: []string{
			"Accept",
			"Content-Type",
			models.HeaderToken,
			models.HeaderClientIdentifier,
			models.HeaderProduct,
			models.HeaderPlatform,
		},
		CORSMaxAge: 86400,

		HeroRateLimit:  600,
		HeroRateWindow: time.Minute,
	}
}

// ChiMiddleware provides chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a middleware factory with the given
// configuration. A nil config uses the defaults.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSAllowedOrigins,
		AllowedMethods:   config.CORSAllowedMethods,
		AllowedHeaders:   config.CORSAllowedHeaders,
		AllowCredentials: false,
		MaxAge:           config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: config,
		cors:   corsHandler,
	}
}

// CORS returns the go-chi/cors middleware. It is mounted on /replex only;
// passthrough responses keep the upstream's own CORS headers.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimitHero limits hero image lookups per client IP. Each miss costs a
// provider call, so the limit protects the provider rate budget.
func (m *ChiMiddleware) RateLimitHero() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled || m.config.HeroRateLimit <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	keyFunc := m.config.RateLimitKeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}
	window := m.config.HeroRateWindow
	if window <= 0 {
		window = time.Minute
	}

	return httprate.Limit(
		m.config.HeroRateLimit,
		window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logging.CtxWarn(r.Context()).Str("path", r.URL.Path).Msg("Hero image rate limit exceeded")
			w.WriteHeader(http.StatusTooManyRequests)
		}),
	)
}

// requestTimeout bounds the handler's context by d.
func requestTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientLogging puts the calling Plex client's identity into the logging
// context.
func clientLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fields := logging.ClientFields{
			Identifier: headerOrQuery(r, models.HeaderClientIdentifier),
			Platform:   headerOrQuery(r, models.HeaderPlatform),
			Product:    headerOrQuery(r, models.HeaderProduct),
		}
		if fields != (logging.ClientFields{}) {
			r = r.WithContext(logging.ContextWithClient(r.Context(), fields))
		}
		next.ServeHTTP(w, r)
	})
}

func headerOrQuery(r *http.Request, name string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return r.Header.Get(name)
}
