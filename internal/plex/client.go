// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package plex

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/tomtom215/replex/internal/cache"
	"github.com/tomtom215/replex/internal/models"
)

// Defaults applied by NewClient when the corresponding Config field is zero.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultCacheTTL          = 30 * time.Second
	DefaultCacheCapacity     = 10000
	DefaultHeroCacheTTL      = 30 * 24 * time.Hour
	DefaultHeroCacheCapacity = 5000
	DefaultProviderURL       = "https://metadata.provider.plex.tv"
	DefaultProviderRateLimit = 10.0
)

// Cache names used in metrics.
const (
	documentCacheName = "documents"
	heroCacheName     = "hero_art"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the Plex server, e.g. http://plex:32400.
	BaseURL string
	// Token is the server admin token used for provider metadata lookups.
	Token string
	// ProviderURL is the Plex metadata provider base URL.
	ProviderURL string
	// ProviderRateLimit caps provider requests per second.
	ProviderRateLimit float64

	Timeout           time.Duration
	CacheTTL          time.Duration
	CacheCapacity     int
	HeroCacheTTL      time.Duration
	HeroCacheCapacity int

	Retry   RetryPolicy
	Breaker BreakerSettings

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the Plex server on behalf of intercept handlers and
// transforms. Parsed documents are memoised per (operation, token) and hero
// art URLs per provider GUID.
type Client struct {
	baseURL     string
	providerURL string
	token       string
	timeout     time.Duration
	retry       RetryPolicy

	httpClient *http.Client
	breaker    *circuitBreaker
	limiter    *rate.Limiter

	docs *cache.Loader[*models.Document]
	hero *expirable.LRU[string, string]
}

// NewClient validates cfg and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse plex base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("plex base url %q must be absolute", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = DefaultCacheCapacity
	}
	if cfg.HeroCacheTTL <= 0 {
		cfg.HeroCacheTTL = DefaultHeroCacheTTL
	}
	if cfg.HeroCacheCapacity <= 0 {
		cfg.HeroCacheCapacity = DefaultHeroCacheCapacity
	}
	if cfg.ProviderURL == "" {
		cfg.ProviderURL = DefaultProviderURL
	}
	if cfg.ProviderRateLimit <= 0 {
		cfg.ProviderRateLimit = DefaultProviderRateLimit
	}
	if cfg.Retry == (RetryPolicy{}) {
		cfg.Retry = DefaultRetryPolicy()
	}
	if cfg.Breaker == (BreakerSettings{}) {
		cfg.Breaker = DefaultBreakerSettings()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	burst := int(cfg.ProviderRateLimit)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:     base.String(),
		providerURL: strings.TrimRight(cfg.ProviderURL, "/"),
		token:       cfg.Token,
		timeout:     cfg.Timeout,
		retry:       cfg.Retry,
		httpClient:  httpClient,
		breaker:     newCircuitBreaker("plex-upstream", cfg.Breaker),
		limiter:     rate.NewLimiter(rate.Limit(cfg.ProviderRateLimit), burst),
		docs:        cache.NewLoader[*models.Document](documentCacheName, cfg.CacheCapacity, cfg.CacheTTL),
		hero:        expirable.NewLRU[string, string](cfg.HeroCacheCapacity, nil, cfg.HeroCacheTTL),
	}, nil
}

// BaseURL returns the upstream base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches path (which may carry a query string) from the Plex server
// with the caller's headers and parses the answer.
func (c *Client) Get(ctx context.Context, cc *models.ClientContext, path string) (*models.Document, error) {
	return c.fetch(ctx, c.baseURL+path, forwardHeaders(cc, false), cc.Token)
}

// getSupporting is Get for lookups made on behalf of a transform. Paging
// headers of the inbound request are not forwarded.
func (c *Client) getSupporting(ctx context.Context, cc *models.ClientContext, path string) (*models.Document, error) {
	return c.fetch(ctx, c.baseURL+path, forwardHeaders(cc, true), cc.Token)
}

func (c *Client) fetch(ctx context.Context, rawURL string, header http.Header, token string) (*models.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.doWithRetry(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header = header.Clone()
		req.Header.Set("Accept", models.MIMEJSON)
		req.Header.Set("Accept-Language", "en-US")
		req.Header.Set("Accept-Encoding", "gzip")
		if req.Header.Get(models.HeaderToken) == "" && token != "" {
			req.Header.Set(models.HeaderToken, token)
		}
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	doc, err := models.DecodeDocument(resp.body, responseContentType(resp))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return doc, nil
}

// skippedHeaders are never copied from the inbound request.
var skippedHeaders = map[string]bool{
	"Accept":            true,
	"Accept-Encoding":   true,
	"Host":              true,
	"Content-Length":    true,
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Upgrade":           true,
}

func forwardHeaders(cc *models.ClientContext, dropPaging bool) http.Header {
	out := make(http.Header, len(cc.Header))
	for k, vs := range cc.Header {
		ck := http.CanonicalHeaderKey(k)
		if skippedHeaders[ck] {
			continue
		}
		if dropPaging && (ck == models.HeaderContainerStart || ck == models.HeaderContainerSize) {
			continue
		}
		out[ck] = append([]string(nil), vs...)
	}
	return out
}

// responseContentType trusts the response's Content-Type and falls back to
// sniffing the first byte of the body.
func responseContentType(resp *response) models.ContentType {
	if ct, ok := models.ParseContentType(resp.header.Get("Content-Type")); ok {
		return ct
	}
	if trimmed := bytes.TrimSpace(resp.body); len(trimmed) > 0 && trimmed[0] == '{' {
		return models.ContentTypeJSON
	}
	return models.ContentTypeXML
}

// ============================================================================
// Introspection
// ============================================================================

// BreakerState returns the upstream circuit breaker state.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// CacheStats returns the document cache counters.
func (c *Client) CacheStats() cache.Stats {
	return c.docs.Stats()
}

// CleanupExpired drops expired documents and returns how many went.
func (c *Client) CleanupExpired() int {
	return c.docs.CleanupExpired()
}

// HeroCacheLen returns the number of cached hero art URLs.
func (c *Client) HeroCacheLen() int {
	return c.hero.Len()
}
