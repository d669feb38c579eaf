// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/replex/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, config *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(config),
	}
}

// Handler builds the route table.
//
// Intercept routes run under the request timeout. Passthrough routes are
// bounded only while waiting for response headers so streams are not cut
// off; /library/metadata/{id}/related has its own end-to-end deadline.
func (router *Router) Handler() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(clientLogging)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(middleware.DefaultSlowThreshold))

	// ========================
	// Intercepted Plex Routes
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(requestTimeout(h.opts.RequestTimeout))

		r.Get("/hubs/promoted", h.PromotedHubs)
		r.Get("/hubs/sections/{id}", h.SectionHubs)
	})

	// ========================
	// Proxy-Owned Routes
	// ========================
	r.Route("/replex", func(r chi.Router) {
		r.Use(router.chiMiddleware.CORS())

		r.Get("/health", h.Health)
		r.Method(http.MethodGet, "/metrics", h.Metrics())

		r.With(router.chiMiddleware.RateLimitHero()).Get("/image/hero/{type}/{uuid}", h.HeroImage)

		r.Group(func(r chi.Router) {
			r.Use(requestTimeout(h.opts.RequestTimeout))

			r.Get("/library/collections/{ids}/children", h.CollectionChildren)
			r.Get("/{style}/*", h.Styled)
		})
	})

	// ========================
	// Adjusted Passthrough
	// ========================
	r.Get("/photo/:/transcode", h.PhotoTranscode)
	r.Get("/library/metadata/{id}/related", h.Related)
	r.Get("/library/metadata/{id}", h.Metadata)
	r.Handle("/playQueues", http.HandlerFunc(h.Metadata))

	r.Handle("/video/:/transcode/*", http.HandlerFunc(h.Stream))
	r.Handle("/:/timeline*", http.HandlerFunc(h.Stream))
	r.Handle("/library/parts/*", http.HandlerFunc(h.Stream))

	// Everything else goes to Plex as is.
	r.NotFound(h.Passthrough)
	r.MethodNotAllowed(h.Passthrough)
	r.Handle("/*", http.HandlerFunc(h.Passthrough))

	return r
}
