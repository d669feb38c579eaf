// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"context"
	"errors"
	stdlog "log"
	"net"
	"net/http"
	"net/http/httputil"
	"regexp"
	"strings"

	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/metrics"
)

// Passthrough kinds, used as the proxy_passthrough_total label.
const (
	kindPassthrough = "passthrough"
	kindRedirect    = "redirect"
	kindRelated     = "related"
	kindPhoto       = "photo"
)

// photoQuality is the JPEG quality asked for on resized thumbnails.
const photoQuality = "80"

var streamFilePath = regexp.MustCompile(`^/library/parts/.+/file\.[^/]+$`)

// forwardedHeaders are stripped from the outbound request by ReverseProxy
// in Rewrite mode. They are copied back as the client sent them.
var forwardedHeaders = []string{"Forwarded", "X-Forwarded-For", "X-Forwarded-Host", "X-Forwarded-Proto"}

// newReverseProxy forwards requests to Plex unchanged apart from the Host
// header. No forwarding headers are added: Plex decides local-network access
// from the client address. Bodies stream in both directions and are flushed
// as they arrive.
func (h *Handler) newReverseProxy() *httputil.ReverseProxy {
	transport := h.opts.Transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.ResponseHeaderTimeout = h.opts.RequestTimeout
		transport = t
	}

	target := h.upstream
	basePath := strings.TrimRight(target.Path, "/")

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			out := pr.Out
			out.URL.Scheme = target.Scheme
			out.URL.Host = target.Host
			out.URL.Path = basePath + out.URL.Path
			if out.URL.RawPath != "" {
				out.URL.RawPath = basePath + out.URL.RawPath
			}
			out.Host = target.Host
			for _, name := range forwardedHeaders {
				if v, ok := pr.In.Header[name]; ok {
					out.Header[name] = v
				}
			}
		},
		Transport:     transport,
		FlushInterval: -1,
		ErrorHandler:  proxyErrorHandler,
		ErrorLog:      stdlog.New(logging.WithComponent("proxy"), "", 0),
	}
}

// proxyErrorHandler answers 504 for timeouts and 502 for anything else the
// transport reports. A client that went away gets nothing.
func proxyErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		logging.CtxDebug(r.Context()).Str("path", r.URL.Path).Msg("Client went away during passthrough")
		return
	}

	status := http.StatusBadGateway
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		status = http.StatusGatewayTimeout
	}

	logging.CtxWarn(r.Context()).Err(err).
		Int("status", status).
		Str("path", r.URL.Path).
		Str("query", logging.RedactQuery(r.URL.RawQuery)).
		Msg("Passthrough failed")
	w.WriteHeader(status)
}

func (h *Handler) forward(w http.ResponseWriter, r *http.Request, kind string) {
	metrics.ProxyPassthroughTotal.WithLabelValues(kind).Inc()
	h.proxy.ServeHTTP(w, r)
}

// withRawQuery returns a copy of r carrying rawQuery.
func withRawQuery(r *http.Request, rawQuery string) *http.Request {
	out := r.Clone(r.Context())
	out.URL.RawQuery = rawQuery
	return out
}

// Passthrough forwards the request to Plex untouched.
func (h *Handler) Passthrough(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, kindPassthrough)
}

// PhotoTranscode fixes thumbnail requests that name a size preset such as
// "medium-240" but no dimensions, which Plex answers at full size.
func (h *Handler) PhotoTranscode(w http.ResponseWriter, r *http.Request) {
	if size := r.URL.Query().Get("size"); strings.Contains(size, "-") {
		dim := size[strings.LastIndex(size, "-")+1:]
		query := r.URL.RawQuery
		query = setQueryParam(query, "height", dim)
		query = setQueryParam(query, "width", dim)
		query = setQueryParam(query, "quality", photoQuality)
		r = withRawQuery(r, query)
	}
	h.forward(w, r, kindPhoto)
}

// Related forwards /library/metadata/{id}/related under its own, shorter
// deadline. Plex can take long to compute related hubs and clients wait
// for them before showing the item.
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	if h.opts.RelatedTimeout > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), h.opts.RelatedTimeout)
		defer cancel()
		r = r.WithContext(ctx)
	}
	h.forward(w, r, kindRelated)
}

// Metadata forwards item metadata and play queue requests, switching off
// related hubs when configured to.
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	if h.opts.DisableRelated {
		r = withRawQuery(r, setQueryParam(r.URL.RawQuery, "includeRelated", "0"))
	}
	h.forward(w, r, kindPassthrough)
}

// Stream redirects media streams to RedirectStreamsURL when enabled, so
// bytes bypass the proxy. Otherwise they are forwarded.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	if !h.opts.RedirectStreams || h.opts.RedirectStreamsURL == "" || !isStreamPath(r.URL.Path) {
		h.forward(w, r, kindPassthrough)
		return
	}

	metrics.ProxyPassthroughTotal.WithLabelValues(kindRedirect).Inc()
	target := strings.TrimRight(h.opts.RedirectStreamsURL, "/") + withQuery(r.URL.EscapedPath(), r.URL.RawQuery)
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusFound)
}

func isStreamPath(path string) bool {
	return strings.HasPrefix(path, "/video/:/transcode/") ||
		strings.HasPrefix(path, "/:/timeline") ||
		streamFilePath.MatchString(path)
}
