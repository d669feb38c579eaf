// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/replex/internal/models"
	"github.com/tomtom215/replex/internal/plex"
	"github.com/tomtom215/replex/internal/transform"
)

// recordedRequest is what the fake Plex server saw.
type recordedRequest struct {
	Path     string
	RawQuery string
	Host     string
	Header   http.Header
}

// fakePlex is an httptest Plex server backed by testdata fixtures and
// in-memory collections.
type fakePlex struct {
	*httptest.Server
	t *testing.T

	mu       sync.Mutex
	requests []recordedRequest

	labels       map[string][]string
	children     map[string][]models.MetaData
	coverArt     map[string]string
	relatedDelay time.Duration
}

func newFakePlex(t *testing.T) *fakePlex {
	t.Helper()
	f := &fakePlex{
		t: t,
		labels: map[string][]string{
			"100": {models.LabelHero},
			"200": nil,
			"1":   nil,
			"2":   nil,
		},
		children: map[string][]models.MetaData{
			"1": collectionItems("1", 4),
			"2": collectionItems("2", 4),
		},
		coverArt: map[string]string{
			"movie/5d776b59ad5437001f79c6f8": "https://images.plex.tv/art/ironman.jpg",
		},
		relatedDelay: 2 * time.Second,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func collectionItems(id string, n int) []models.MetaData {
	items := make([]models.MetaData, n)
	for i := range items {
		key := id + strconv.Itoa(i+1)
		items[i] = models.MetaData{
			RatingKey: key,
			Key:       "/library/metadata/" + key,
			GUID:      "plex://movie/" + key,
			Type:      "movie",
			Title:     "Movie " + key,
		}
	}
	return items
}

func (f *fakePlex) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Host:     r.Host,
		Header:   r.Header.Clone(),
	})
	f.mu.Unlock()

	p := r.URL.Path
	switch {
	case p == "/hubs/sections/6":
		f.serveFixture(w, "hubs_sections_6.json")
	case p == "/hubs/promoted":
		f.serveFixture(w, "hubs_promoted_6_7.json")
	case p == "/hubs/sections/6/recentlyAdded":
		writeJSON(w, http.StatusOK, `{"MediaContainer":{"size":0}}`)
	case strings.HasPrefix(p, "/library/collections/") && strings.HasSuffix(p, "/children"):
		id := strings.TrimSuffix(strings.TrimPrefix(p, "/library/collections/"), "/children")
		f.serveChildren(w, r, id)
	case strings.HasPrefix(p, "/library/collections/"):
		f.serveCollection(w, strings.TrimPrefix(p, "/library/collections/"))
	case p == "/library/metadata/254688/related":
		select {
		case <-time.After(f.relatedDelay):
			writeJSON(w, http.StatusOK, `{"MediaContainer":{"size":0}}`)
		case <-r.Context().Done():
		}
	case strings.HasPrefix(p, "/library/metadata/movie/"):
		f.serveProvider(w, strings.TrimPrefix(p, "/library/metadata/"))
	case strings.HasPrefix(p, "/library/metadata/"):
		writeJSON(w, http.StatusOK, `{"MediaContainer":{"size":0}}`)
	case p == "/photo/:/transcode":
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg"))
	case p == "/identity":
		w.Header().Set("X-Upstream", "yes")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", models.MIMEJSON)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (f *fakePlex) serveFixture(w http.ResponseWriter, name string) {
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		f.t.Errorf("read fixture %s: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, string(data))
}

func (f *fakePlex) writeDoc(w http.ResponseWriter, doc *models.Document) {
	data, err := doc.Encode()
	if err != nil {
		f.t.Errorf("encode document: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, string(data))
}

func (f *fakePlex) serveCollection(w http.ResponseWriter, id string) {
	tags, ok := f.labels[id]
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	item := models.MetaData{RatingKey: id, Type: "collection", Title: "Collection " + id}
	for _, tag := range tags {
		item.Labels = append(item.Labels, models.Label{Tag: tag})
	}
	doc := models.NewDocument(models.ContentTypeJSON, models.SlotMetadata)
	doc.MediaContainer.SetChildren([]models.MetaData{item})
	doc.MediaContainer.Size = models.IntPtr(1)
	f.writeDoc(w, doc)
}

func (f *fakePlex) serveChildren(w http.ResponseWriter, r *http.Request, id string) {
	all, ok := f.children[id]
	if !ok {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	start, _ := strconv.Atoi(q.Get(models.HeaderContainerStart))
	size, err := strconv.Atoi(q.Get(models.HeaderContainerSize))
	if err != nil {
		size = len(all)
	}
	end := min(start+size, len(all))

	var page []models.MetaData
	if start < len(all) {
		page = append(page, all[start:end]...)
	}
	doc := models.NewDocument(models.ContentTypeJSON, models.SlotMetadata)
	doc.MediaContainer.SetChildren(page)
	doc.MediaContainer.Size = models.IntPtr(len(page))
	doc.MediaContainer.TotalSize = models.IntPtr(len(all))
	doc.MediaContainer.LibrarySectionID = models.NewFlexInt(6)
	f.writeDoc(w, doc)
}

func (f *fakePlex) serveProvider(w http.ResponseWriter, guid string) {
	art, ok := f.coverArt[guid]
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	item := models.MetaData{
		GUID:   "plex://" + guid,
		Images: []models.Image{{Type: models.ImageTypeCoverArt, URL: art}},
	}
	doc := models.NewDocument(models.ContentTypeJSON, models.SlotMetadata)
	doc.MediaContainer.SetChildren([]models.MetaData{item})
	f.writeDoc(w, doc)
}

// calls counts requests the fake saw for path.
func (f *fakePlex) calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, req := range f.requests {
		if req.Path == path {
			n++
		}
	}
	return n
}

func (f *fakePlex) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// last returns the most recent request for path.
func (f *fakePlex) last(path string) (recordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Path == path {
			return f.requests[i], true
		}
	}
	return recordedRequest{}, false
}

func (f *fakePlex) lastQuery(path string) url.Values {
	req, ok := f.last(path)
	if !ok {
		f.t.Fatalf("no upstream request for %s", path)
	}
	q, err := url.ParseQuery(req.RawQuery)
	if err != nil {
		f.t.Fatalf("parse upstream query %q: %v", req.RawQuery, err)
	}
	return q
}

func testOptions() Options {
	return Options{
		Hubs:           transform.Options{Interleave: true},
		RequestTimeout: 5 * time.Second,
		RelatedTimeout: 5 * time.Second,
	}
}

// newTestRouter wires a real plex.Client against the fake server.
func newTestRouter(t *testing.T, f *fakePlex, opts Options) http.Handler {
	t.Helper()
	client, err := plex.NewClient(plex.Config{
		BaseURL:     f.URL,
		Token:       "admin-token",
		ProviderURL: f.URL,
		CacheTTL:    time.Minute,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	h, err := NewHandler(client, opts)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return NewRouter(h, nil).Handler()
}

// plexRequest builds a request carrying the usual Plex client headers.
func plexRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(models.HeaderToken, "fakeID")
	req.Header.Set(models.HeaderClientIdentifier, "fakeID")
	req.Header.Set("Accept", models.MIMEJSON)
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) *models.Document {
	t.Helper()
	doc, err := models.DecodeDocument(rec.Body.Bytes(), models.ContentTypeJSON)
	if err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return doc
}

func keysOf(items []models.MetaData) []string {
	keys := make([]string, len(items))
	for i := range items {
		keys[i] = items[i].RatingKey
	}
	return keys
}
