// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package api

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/replex/internal/metrics"
	"github.com/tomtom215/replex/internal/models"
)

// =====================================================
// Intercepted Routes
// =====================================================

func TestSectionHubs_EndToEnd(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, plexRequest(http.MethodGet, "/hubs/sections/6?count=3"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != models.MIMEJSON {
		t.Errorf("Content-Type = %q, want %q", got, models.MIMEJSON)
	}
	if got := up.lastQuery("/hubs/sections/6").Get("count"); got != "6" {
		t.Errorf("upstream count = %q, want 6", got)
	}

	doc := decodeJSON(t, rec)
	hubs := doc.MediaContainer.Hub
	if len(hubs) != 2 {
		t.Fatalf("hubs = %d, want 2", len(hubs))
	}

	hero := hubs[0]
	if hero.Style != "hero" {
		t.Errorf("hub style = %q, want hero", hero.Style)
	}
	if hero.Key != "/replex/hero/hubs/library/collections/100/children" {
		t.Errorf("hub key = %q", hero.Key)
	}
	if hero.Meta == nil {
		t.Error("hero hub has no Meta")
	}
	if got, want := keysOf(hero.Children()), []string{"1", "3"}; !slices.Equal(got, want) {
		t.Errorf("hero children = %v, want %v (watched item removed)", got, want)
	}
	if hero.Size == nil || *hero.Size != 2 {
		t.Errorf("hero size = %v, want 2", hero.Size)
	}
	wantThumb := "/replex/image/hero/movie/5d776b59ad5437001f79c6f8?X-Plex-Token=fakeID"
	if got := hero.Children()[0].Thumb; got != wantThumb {
		t.Errorf("hero child thumb = %q, want %q", got, wantThumb)
	}

	recent := hubs[1]
	if recent.Key != "/replex/shelf/hubs/sections/6/recentlyAdded" {
		t.Errorf("recently added key = %q", recent.Key)
	}
	if n := len(recent.Children()); n != 1 {
		t.Errorf("recently added children = %d, want 1 (not a collection hub)", n)
	}
}

func TestSectionHubs_XML(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	req := plexRequest(http.MethodGet, "/hubs/sections/6")
	req.Header.Set("Accept", "application/xml")
	rec := serve(router, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != models.MIMEXML {
		t.Errorf("Content-Type = %q, want %q", got, models.MIMEXML)
	}
	if !strings.HasPrefix(rec.Body.String(), "<?xml") {
		t.Errorf("body does not start with an XML declaration: %.40s", rec.Body.String())
	}
	if _, err := models.DecodeDocument(rec.Body.Bytes(), models.ContentTypeXML); err != nil {
		t.Errorf("decode xml response: %v", err)
	}
}

func TestPromotedHubs_EndToEnd(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, plexRequest(http.MethodGet, "/hubs/promoted?contentDirectoryID=6&pinnedContentDirectoryID=6,7"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	q := up.lastQuery("/hubs/promoted")
	if got := q.Get("contentDirectoryID"); got != "6,7" {
		t.Errorf("upstream contentDirectoryID = %q, want 6,7", got)
	}
	if got := q.Get("includeGuids"); got != "1" {
		t.Errorf("upstream includeGuids = %q, want 1", got)
	}

	doc := decodeJSON(t, rec)
	hubs := doc.MediaContainer.Hub
	if len(hubs) != 2 {
		t.Fatalf("hubs = %d, want 2 (duplicate title merged)", len(hubs))
	}
	if got := *doc.MediaContainer.Size; got != 2 {
		t.Errorf("container size = %d, want 2", got)
	}

	merged := hubs[0]
	if !strings.HasPrefix(merged.Key, "/replex/library/collections/") ||
		!strings.Contains(merged.Key, "100") || !strings.Contains(merged.Key, "200") {
		t.Errorf("merged key = %q, want mixed collections route for 100 and 200", merged.Key)
	}
	if got, want := keysOf(merged.Children()), []string{"1", "5", "2", "6"}; !slices.Equal(got, want) {
		t.Errorf("merged children = %v, want %v", got, want)
	}
	if got := *merged.Size; got != 4 {
		t.Errorf("merged size = %d, want 4", got)
	}
	if got := hubs[1].Key; got != "/replex/shelf/hubs/home/continueWatching" {
		t.Errorf("continue watching key = %q", got)
	}
}

func TestPromotedHubs_SecondaryPinnedLibrary(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, plexRequest(http.MethodGet, "/hubs/promoted?contentDirectoryID=6&pinnedContentDirectoryID=7"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := `{"MediaContainer":{"size":0,"allowSync":true,"identifier":"com.plexapp.plugins.library"}}`
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
	if n := up.calls("/hubs/promoted"); n != 0 {
		t.Errorf("upstream promoted calls = %d, want 0", n)
	}
}

func TestCollectionChildren_Interleaves(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, plexRequest(http.MethodGet,
		"/replex/library/collections/1,2/children?X-Plex-Container-Start=0&X-Plex-Container-Size=4"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	c := decodeJSON(t, rec).MediaContainer
	if got, want := keysOf(c.Metadata), []string{"11", "21", "12", "22"}; !slices.Equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
	if c.TotalSize == nil || *c.TotalSize != 8 {
		t.Errorf("totalSize = %v, want 8", c.TotalSize)
	}
	if c.Offset == nil || *c.Offset != 0 {
		t.Errorf("offset = %v, want 0", c.Offset)
	}
	if c.Size == nil || *c.Size != 4 {
		t.Errorf("size = %v, want 4", c.Size)
	}
}

func TestCollectionChildren_InvalidIDs(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, plexRequest(http.MethodGet, "/replex/library/collections/1,abc/children"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestIntercept_MissingToken(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	paths := []string{
		"/hubs/sections/6",
		"/hubs/promoted?contentDirectoryID=6&pinnedContentDirectoryID=6",
		"/replex/library/collections/1/children",
	}
	for _, path := range paths {
		req := plexRequest(http.MethodGet, path)
		req.Header.Del(models.HeaderToken)
		rec := serve(router, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("%s: body = %q, want empty", path, rec.Body.String())
		}
	}
	if n := up.total(); n != 0 {
		t.Errorf("upstream requests = %d, want 0", n)
	}
}

func TestStyled_CollectionKey(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, plexRequest(http.MethodGet, "/replex/hero/hubs/library/collections/1/children"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	c := decodeJSON(t, rec).MediaContainer
	if got, want := keysOf(c.Metadata), []string{"11", "12", "13", "14"}; !slices.Equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestStyled_OtherKeyPassesThrough(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, plexRequest(http.MethodGet, "/replex/shelf/hubs/sections/6/recentlyAdded?count=12"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	req, ok := up.last("/hubs/sections/6/recentlyAdded")
	if !ok {
		t.Fatal("upstream did not see the unprefixed path")
	}
	if req.RawQuery != "count=12" {
		t.Errorf("upstream query = %q, want count=12", req.RawQuery)
	}
}

// =====================================================
// Passthrough Routes
// =====================================================

func TestRelated_Timeout(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	opts := testOptions()
	opts.RelatedTimeout = 50 * time.Millisecond
	router := newTestRouter(t, up, opts)

	start := time.Now()
	rec := serve(router, plexRequest(http.MethodGet, "/library/metadata/254688/related"))
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("related request took %v, want it cut at the related timeout", elapsed)
	}
}

func TestPhotoTranscode_AddsDimensions(t *testing.T) {
	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())
	before := testutil.ToFloat64(metrics.ProxyPassthroughTotal.WithLabelValues(kindPhoto))

	rec := serve(router, plexRequest(http.MethodGet, "/photo/:/transcode?size=medium-240&url=%2Flibrary%2Fmetadata%2F1%2Fthumb"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "jpeg" {
		t.Errorf("body = %q, want upstream body", rec.Body.String())
	}

	req, ok := up.last("/photo/:/transcode")
	if !ok {
		t.Fatal("upstream saw no photo request")
	}
	if !strings.Contains(req.RawQuery, "height=240&width=240&quality=80") {
		t.Errorf("upstream query = %q, want height/width/quality added", req.RawQuery)
	}
	if !strings.HasPrefix(req.RawQuery, "size=medium-240&url=%2Flibrary%2Fmetadata%2F1%2Fthumb") {
		t.Errorf("upstream query = %q, want original parameters first and unchanged", req.RawQuery)
	}

	if got := testutil.ToFloat64(metrics.ProxyPassthroughTotal.WithLabelValues(kindPhoto)) - before; got != 1 {
		t.Errorf("proxy_passthrough_total{kind=photo} delta = %v, want 1", got)
	}
}

func TestPhotoTranscode_PlainSizeUntouched(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	serve(router, plexRequest(http.MethodGet, "/photo/:/transcode?width=100&height=100&url=x"))
	req, _ := up.last("/photo/:/transcode")
	if req.RawQuery != "width=100&height=100&url=x" {
		t.Errorf("upstream query = %q, want unchanged", req.RawQuery)
	}
}

func TestPassthrough_PreservesResponse(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	req := plexRequest(http.MethodGet, "/identity")
	req.Host = "replex.example.com"
	req.Header.Set("X-Custom", "kept")
	req.RemoteAddr = "203.0.113.7:5555"
	rec := serve(router, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if got := rec.Header().Get("X-Upstream"); got != "yes" {
		t.Errorf("X-Upstream = %q, want yes", got)
	}
	if got := rec.Body.String(); got != "short and stout" {
		t.Errorf("body = %q", got)
	}

	seen, _ := up.last("/identity")
	if want := strings.TrimPrefix(up.URL, "http://"); seen.Host != want {
		t.Errorf("upstream Host = %q, want %q", seen.Host, want)
	}
	if got := seen.Header.Get("X-Custom"); got != "kept" {
		t.Errorf("upstream X-Custom = %q, want kept", got)
	}
	if got := seen.Header.Get(models.HeaderToken); got != "fakeID" {
		t.Errorf("upstream token = %q, want fakeID", got)
	}
	for _, name := range []string{"X-Forwarded-For", "X-Forwarded-Host", "X-Forwarded-Proto", "Forwarded"} {
		if got, ok := seen.Header[name]; ok {
			t.Errorf("upstream %s = %q, want absent", name, got)
		}
	}
}

func TestPassthrough_KeepsInboundForwardedFor(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	req := plexRequest(http.MethodGet, "/identity")
	req.RemoteAddr = "10.0.0.2:4000"
	req.Header.Set("X-Forwarded-For", "198.51.100.9")
	serve(router, req)

	seen, ok := up.last("/identity")
	if !ok {
		t.Fatal("no upstream request for /identity")
	}
	if got := seen.Header.Get("X-Forwarded-For"); got != "198.51.100.9" {
		t.Errorf("upstream X-Forwarded-For = %q, want 198.51.100.9", got)
	}
}

func TestIntercept_OnlyContentTypeHeader(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, plexRequest(http.MethodGet, "/hubs/sections/6"))
	if got := rec.Header().Get("X-Request-ID"); got != "" {
		t.Errorf("X-Request-ID = %q, want no header", got)
	}
	if got := len(rec.Header()); got != 1 {
		t.Errorf("response headers = %v, want only Content-Type", rec.Header())
	}
}

func TestMetadata_DisableRelated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		disableRelated bool
		path           string
		upstreamPath   string
		want           string
	}{
		{"forced off", true, "/library/metadata/10?includeRelated=1", "/library/metadata/10", "0"},
		{"added", true, "/library/metadata/10", "/library/metadata/10", "0"},
		{"left alone", false, "/library/metadata/10?includeRelated=1", "/library/metadata/10", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			up := newFakePlex(t)
			opts := testOptions()
			opts.DisableRelated = tt.disableRelated
			router := newTestRouter(t, up, opts)

			serve(router, plexRequest(http.MethodGet, tt.path))
			if got := up.lastQuery(tt.upstreamPath).Get("includeRelated"); got != tt.want {
				t.Errorf("includeRelated = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStream_Redirect(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	opts := testOptions()
	opts.RedirectStreams = true
	opts.RedirectStreamsURL = "http://direct.example:32400/"
	router := newTestRouter(t, up, opts)

	tests := []struct {
		path     string
		wantCode int
		location string
	}{
		{"/video/:/transcode/universal/start.m3u8?session=a", http.StatusFound, "http://direct.example:32400/video/:/transcode/universal/start.m3u8?session=a"},
		{"/:/timeline?ratingKey=1&state=playing", http.StatusFound, "http://direct.example:32400/:/timeline?ratingKey=1&state=playing"},
		{"/library/parts/5/1700000000/file.mkv", http.StatusFound, "http://direct.example:32400/library/parts/5/1700000000/file.mkv"},
		{"/library/parts/5/thumb", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := serve(router, plexRequest(http.MethodGet, tt.path))
		if rec.Code != tt.wantCode {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.wantCode)
		}
		if got := rec.Header().Get("Location"); got != tt.location {
			t.Errorf("%s: Location = %q, want %q", tt.path, got, tt.location)
		}
	}
	if n := up.calls("/library/parts/5/thumb"); n != 1 {
		t.Errorf("non-file part calls = %d, want 1 (forwarded)", n)
	}
}

func TestStream_DisabledForwards(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, plexRequest(http.MethodGet, "/:/timeline?state=playing"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want upstream 404", rec.Code)
	}
	if n := up.calls("/:/timeline"); n != 1 {
		t.Errorf("upstream timeline calls = %d, want 1", n)
	}
}

// =====================================================
// Proxy-Owned Routes
// =====================================================

func TestHeroImage(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/replex/image/hero/movie/5d776b59ad5437001f79c6f8?X-Plex-Token=fakeID", nil))
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "https://images.plex.tv/art/ironman.jpg" {
		t.Errorf("Location = %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/replex/image/hero/movie/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing art status = %d, want 404", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("missing art body = %q, want empty", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/replex/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var health HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
	if health.Breaker != "closed" {
		t.Errorf("breaker = %q, want closed", health.Breaker)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	up := newFakePlex(t)
	router := newTestRouter(t, up, testOptions())

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/replex/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "app_uptime_seconds") {
		t.Error("metrics body has no known metric family")
	}
	if n := up.total(); n != 0 {
		t.Errorf("upstream requests = %d, want 0", n)
	}
}
