// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package plex

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/tomtom215/replex/internal/models"
)

const collectionJSON = `{"MediaContainer":{"size":1,"Metadata":[{"ratingKey":"12","title":"Trending","Label":[{"tag":"REPLEXHERO"}]}]}}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		BaseURL:     srv.URL,
		Token:       "admin-token",
		ProviderURL: srv.URL + "/provider",
		Retry: RetryPolicy{
			InitialInterval:  time.Millisecond,
			MaxRetries:       2,
			MaxServerRetries: 1,
		},
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c, srv
}

func testContext(token string) *models.ClientContext {
	h := http.Header{}
	h.Set(models.HeaderToken, token)
	h.Set(models.HeaderClientIdentifier, "client-1")
	h.Set("Accept", "text/xml")
	h.Set("Host", "proxy.local")
	h.Set(models.HeaderContainerSize, "50")
	return &models.ClientContext{Token: token, Header: h}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "plex:32400/path", "/relative"} {
		if _, err := NewClient(Config{BaseURL: raw}); err == nil {
			t.Errorf("NewClient(%q) error = nil, want error", raw)
		}
	}
}

func TestClient_Get_ForwardsHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(collectionJSON))
	}))

	doc, err := c.Get(context.Background(), testContext("user-token"), "/library/collections/12")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if doc.ContentType != models.ContentTypeJSON {
		t.Errorf("ContentType = %v, want json", doc.ContentType)
	}
	if n := len(doc.MediaContainer.Metadata); n != 1 {
		t.Fatalf("Metadata len = %d, want 1", n)
	}

	tests := []struct {
		header string
		want   string
	}{
		{"Accept", "application/json"},
		{"Accept-Language", "en-US"},
		{models.HeaderToken, "user-token"},
		{models.HeaderClientIdentifier, "client-1"},
		{models.HeaderContainerSize, "50"},
	}
	for _, tt := range tests {
		if v := got.Get(tt.header); v != tt.want {
			t.Errorf("upstream %s = %q, want %q", tt.header, v, tt.want)
		}
	}
}

func TestClient_Get_ParsesXMLByResponseType(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml;charset=utf-8")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><MediaContainer size="1"><Video ratingKey="5" title="Clip"/></MediaContainer>`))
	}))

	doc, err := c.Get(context.Background(), testContext("t"), "/library/metadata/5")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if doc.ContentType != models.ContentTypeXML {
		t.Errorf("ContentType = %v, want xml", doc.ContentType)
	}
	if got := doc.MediaContainer.ChildSlot(); got != models.SlotVideo {
		t.Errorf("ChildSlot() = %v, want Video", got)
	}
}

func TestClient_Get_Gzip(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "gzip" {
			t.Errorf("Accept-Encoding = %q, want gzip", r.Header.Get("Accept-Encoding"))
		}
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte(collectionJSON))
		_ = gz.Close()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))

	doc, err := c.Get(context.Background(), testContext("t"), "/library/collections/12")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if title := doc.MediaContainer.Metadata[0].Title; title != "Trending" {
		t.Errorf("Title = %q, want Trending", title)
	}
}

func TestClient_Get_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
		check     func(error) bool
	}{
		{"not found", http.StatusNotFound, "", 1, func(err error) bool { return errors.Is(err, ErrNotFound) }},
		{"unauthorized retried twice", http.StatusUnauthorized, "", 3, func(err error) bool { return isStatus(err, 401) }},
		{"server error retried once", http.StatusBadGateway, "", 2, IsServerError},
		{"bad request not retried", http.StatusBadRequest, "", 1, func(err error) bool { return isStatus(err, 400) }},
		{"decode error", http.StatusOK, "{not json", 1, func(err error) bool {
			var de *DecodeError
			return errors.As(err, &de)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var calls atomic.Int32
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := c.Get(context.Background(), testContext("t"), "/x")
			if err == nil || !tt.check(err) {
				t.Errorf("Get() error = %v, wrong kind", err)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("upstream calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestClient_Get_UnauthorizedRecovers(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(collectionJSON))
	}))

	if _, err := c.Get(context.Background(), testContext("t"), "/x"); err != nil {
		t.Errorf("Get() error = %v, want success after retry", err)
	}
}

func TestClient_Get_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: baseURL, Retry: RetryPolicy{InitialInterval: time.Millisecond, MaxRetries: 2, MaxServerRetries: 1}})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	_, err = c.Get(context.Background(), testContext("t"), "/x")
	if !IsTransport(err) {
		t.Errorf("Get() error = %v, want TransportError", err)
	}
}

func TestClient_Get_ContextDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Get(ctx, testContext("t"), "/slow")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Get() error = %v, want deadline exceeded", err)
	}
}

func TestClient_GetCached_SingleFlight(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(30 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(collectionJSON))
	}))

	cc := testContext("token-a")
	const callers = 10
	docs := make([]*models.Document, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := c.GetCollection(context.Background(), cc, "12")
			if err != nil {
				t.Errorf("GetCollection() error = %v", err)
				return
			}
			docs[i] = doc
		}(i)
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
	if docs[0] == nil || docs[1] == nil {
		t.Fatal("missing documents")
	}
	docs[0].MediaContainer.Metadata[0].Title = "mutated"
	if docs[1].MediaContainer.Metadata[0].Title != "Trending" {
		t.Error("callers share one document instance")
	}

	// A different token is a different cache entry.
	if _, err := c.GetCollection(context.Background(), testContext("token-b"), "12"); err != nil {
		t.Fatalf("GetCollection() error = %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("upstream calls after second token = %d, want 2", got)
	}
}

func TestClient_GetCollectionChildren_Paging(t *testing.T) {
	t.Parallel()

	var query, sizeHeader string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		sizeHeader = r.Header.Get(models.HeaderContainerSize)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MediaContainer":{"size":0}}`))
	}))

	if _, err := c.GetCollectionChildren(context.Background(), testContext("t"), "7", 4, 2); err != nil {
		t.Fatalf("GetCollectionChildren() error = %v", err)
	}
	if query != "X-Plex-Container-Size=2&X-Plex-Container-Start=4" {
		t.Errorf("query = %q", query)
	}
	if sizeHeader != "" {
		t.Errorf("inbound paging header forwarded: %q", sizeHeader)
	}
}

func TestClient_GetHeroArt(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get(models.HeaderToken) != "admin-token" {
			t.Errorf("provider token = %q, want admin-token", r.Header.Get(models.HeaderToken))
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/provider/library/metadata/movie/abc":
			_, _ = w.Write([]byte(`{"MediaContainer":{"Metadata":[{"Image":[{"type":"background","url":"https://img/bg"},{"type":"coverArt","url":"https://img/cover"}]}]}}`))
		default:
			_, _ = w.Write([]byte(`{"MediaContainer":{"Metadata":[{"Image":[{"type":"background","url":"https://img/bg"}]}]}}`))
		}
	}))

	art, err := c.GetHeroArt(context.Background(), "movie/abc")
	if err != nil || art != "https://img/cover" {
		t.Fatalf("GetHeroArt() = %q, %v, want cover url", art, err)
	}
	c.docs.Invalidate("provider:movie/abc:admin-token")
	if art, _ := c.GetHeroArt(context.Background(), "movie/abc"); art != "https://img/cover" {
		t.Errorf("cached GetHeroArt() = %q", art)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("provider calls = %d, want 1 (hero cache hit)", got)
	}

	if _, err := c.GetHeroArt(context.Background(), "movie/none"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetHeroArt(missing) error = %v, want ErrNotFound", err)
	}
	if c.HeroCacheLen() != 1 {
		t.Errorf("HeroCacheLen() = %d, want 1 (misses not cached)", c.HeroCacheLen())
	}
}

func TestClient_GetHeroArt_WaiterOutlivesCancelledLeader(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MediaContainer":{"Metadata":[{"Image":[{"type":"coverArt","url":"https://img/cover"}]}]}}`))
	}))

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.GetHeroArt(leaderCtx, "movie/abc")
		leaderErr <- err
	}()
	<-started

	type result struct {
		art string
		err error
	}
	waiter := make(chan result, 1)
	go func() {
		art, err := c.GetHeroArt(context.Background(), "movie/abc")
		waiter <- result{art, err}
	}()
	// Let the second caller join the in-flight load.
	time.Sleep(50 * time.Millisecond)

	cancelLeader()
	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Errorf("leader error = %v, want context.Canceled", err)
	}
	close(release)

	got := <-waiter
	if got.err != nil || got.art != "https://img/cover" {
		t.Errorf("waiter GetHeroArt() = %q, %v, want cover url", got.art, got.err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("provider calls = %d, want 1", n)
	}
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		BaseURL: srv.URL,
		Retry:   RetryPolicy{InitialInterval: time.Millisecond, MaxRetries: 2, MaxServerRetries: 0},
		Breaker: BreakerSettings{Interval: time.Minute, Timeout: time.Minute, MinRequests: 3, FailureRatio: 0.6},
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := c.Get(context.Background(), testContext("t"), "/x"); !IsServerError(err) {
			t.Fatalf("call %d error = %v, want server error", i, err)
		}
	}
	if got := c.BreakerState(); got != "open" {
		t.Fatalf("BreakerState() = %q, want open", got)
	}

	_, err = c.Get(context.Background(), testContext("t"), "/x")
	if !IsTransport(err) {
		t.Errorf("Get() with open breaker error = %v, want TransportError", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("upstream calls = %d, want 3", got)
	}
}
