// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/tomtom215/replex/internal/cache"
	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/models"
	"github.com/tomtom215/replex/internal/transform"
)

// PlexClient is what the handlers need from the upstream client.
// *plex.Client satisfies it.
type PlexClient interface {
	transform.Upstream
	BaseURL() string
	Get(ctx context.Context, cc *models.ClientContext, path string) (*models.Document, error)
	GetHeroArt(ctx context.Context, uuid string) (string, error)
	BreakerState() string
	CacheStats() cache.Stats
}

// Options configures request handling.
type Options struct {
	Hubs transform.Options

	// DisableRelated forces includeRelated=0 on metadata requests.
	DisableRelated bool

	// RedirectStreams answers stream paths with a 302 to RedirectStreamsURL.
	RedirectStreams    bool
	RedirectStreamsURL string

	// RequestTimeout bounds intercept handlers and the wait for passthrough
	// response headers. Passthrough bodies stream without a deadline.
	RequestTimeout time.Duration

	// RelatedTimeout bounds /library/metadata/<id>/related end to end.
	RelatedTimeout time.Duration

	// Transport overrides the passthrough transport, mainly for tests.
	Transport http.RoundTripper
}

// Handler serves intercept and passthrough routes.
type Handler struct {
	client    PlexClient
	opts      Options
	upstream  *url.URL
	proxy     *httputil.ReverseProxy
	startTime time.Time
}

// NewHandler creates a handler that proxies to client.BaseURL().
func NewHandler(client PlexClient, opts Options) (*Handler, error) {
	target, err := url.Parse(client.BaseURL())
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("upstream url %q must be absolute", client.BaseURL())
	}

	h := &Handler{
		client:    client,
		opts:      opts,
		upstream:  target,
		startTime: time.Now(),
	}
	h.proxy = h.newReverseProxy()
	return h, nil
}

// env assembles what the transforms of one request can see.
func (h *Handler) env(cc *models.ClientContext) *transform.Env {
	return &transform.Env{
		Client:   cc,
		Upstream: h.client,
		Options:  h.opts.Hubs,
	}
}

// writeDocument serialises doc in the format the client asked for. The only
// header set is Content-Type.
func writeDocument(w http.ResponseWriter, r *http.Request, doc *models.Document, ct models.ContentType) {
	doc.ContentType = ct
	data, err := doc.Encode()
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", ct.MIME())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.CtxDebug(r.Context()).Err(err).Msg("Failed to write response")
	}
}
