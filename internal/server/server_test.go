package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhelev-dev/docview/internal/cache"
	"github.com/zhelev-dev/docview/internal/content"
	"github.com/zhelev-dev/docview/internal/render"
	"github.com/zhelev-dev/docview/internal/store"
	"github.com/zhelev-dev/docview/internal/viewer"
)

func writeDoc(t *testing.T, root, rel, text string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	root := t.TempDir()
	writeDoc(t, root, "1-ECMAScript/01-Intro.md", "# Intro\n\nWelcome aboard.")
	writeDoc(t, root, "1-ECMAScript/09-RegExp.md", "# Regular Expressions\n\nPatterns.")
	writeDoc(t, root, "2-Browser/01-DOM.md", "# DOM\n\nNodes.")

	index, err := content.NewIndex([]content.Section{
		{ID: "ecmascript", Title: "ECMAScript", RootPath: "1-ECMAScript",
			Docs: []string{"01-Intro.md", "09-RegExp.md"}},
		{ID: "browser", Title: "Browser", RootPath: "2-Browser",
			Docs: []string{"01-DOM.md"}},
	})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	fetcher, err := viewer.NewDirFetcher(root)
	if err != nil {
		t.Fatalf("NewDirFetcher: %v", err)
	}

	kv := store.NewMemory()
	worker := render.NewWorker(render.NewConverter())
	v := viewer.New(index, cache.NewRenderCache(), cache.NewSourceCache(kv, 20), worker, fetcher)

	return New(Config{Port: 0, ContentDir: root}, v, store.NewPrefs(kv))
}

func get(t *testing.T, srv *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", url, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestPageEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv, "/api/page?frag=ecmascript%2F09-RegExp.md")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var page pageResponse
	decode(t, w, &page)
	if page.Title != "Regular Expressions" {
		t.Errorf("title = %q", page.Title)
	}
	if !strings.Contains(page.HTML, "<h1>Regular Expressions</h1>") {
		t.Errorf("html = %q", page.HTML)
	}
	want := []string{"Home", "ECMAScript", "Regular Expressions"}
	if len(page.Breadcrumb) != 3 || page.Breadcrumb[2] != want[2] {
		t.Errorf("breadcrumb = %v, want %v", page.Breadcrumb, want)
	}
}

func TestPageEndpointHeadingParam(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv, "/api/page?frag=ecmascript%2F01-Intro.md&heading=flags")
	var page pageResponse
	decode(t, w, &page)
	if page.ScrollTo != "flags" {
		t.Errorf("scroll_to = %q, want flags", page.ScrollTo)
	}

	// Non-document targets ignore the heading param.
	w = get(t, srv, "/api/page?frag=home&heading=flags")
	page = pageResponse{}
	decode(t, w, &page)
	if page.ScrollTo != "" {
		t.Errorf("home scroll_to = %q, want empty", page.ScrollTo)
	}
}

func TestPageEndpointUnknownSection(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv, "/api/page?frag=nope%2F01-x.md")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var page pageResponse
	decode(t, w, &page)
	if page.Frag != "home" || page.LoadError != "" {
		t.Errorf("unknown section should redirect home silently, got %+v", page)
	}
}

func TestSidebarEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var rows []viewer.SidebarEntry
	w := get(t, srv, "/api/sidebar?frag=home")
	decode(t, w, &rows)
	if len(rows) != 2 {
		t.Fatalf("home rows = %v", rows)
	}

	// A filter param sticks on the session.
	w = get(t, srv, "/api/sidebar?frag=ecmascript&filter=reg")
	decode(t, w, &rows)
	if len(rows) != 1 || rows[0].Label != "RegExp" {
		t.Errorf("filtered rows = %v", rows)
	}

	w = get(t, srv, "/api/sidebar?frag=ecmascript")
	decode(t, w, &rows)
	if len(rows) != 1 {
		t.Errorf("filter did not persist across requests: %v", rows)
	}

	// An explicit empty filter clears it.
	w = get(t, srv, "/api/sidebar?frag=ecmascript&filter=")
	decode(t, w, &rows)
	if len(rows) != 2 {
		t.Errorf("cleared filter rows = %v", rows)
	}
}

func TestPaletteEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var results []content.Entry
	w := get(t, srv, "/api/palette?q=regexp")
	decode(t, w, &results)
	if len(results) != 1 || results[0].Frag != "ecmascript/09-RegExp.md" {
		t.Errorf("results = %v", results)
	}

	// No match answers an empty array, not null.
	w = get(t, srv, "/api/palette?q=zzzz")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("no-match body = %q, want []", w.Body.String())
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	var p prefsResponse
	w := get(t, srv, "/api/prefs")
	decode(t, w, &p)
	if p.Theme != "light" || p.ReaderMode {
		t.Errorf("defaults = %+v", p)
	}

	req := httptest.NewRequest("PUT", "/api/prefs", strings.NewReader(`{"theme":"dark","reader_mode":true}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", rec.Code, rec.Body.String())
	}

	w = get(t, srv, "/api/prefs")
	decode(t, w, &p)
	if p.Theme != "dark" || !p.ReaderMode {
		t.Errorf("after update = %+v", p)
	}

	// Invalid theme is rejected.
	req = httptest.NewRequest("PUT", "/api/prefs", strings.NewReader(`{"theme":"sepia"}`))
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid theme status = %d", rec.Code)
	}
}

func TestFindTermAppliedAtResponseTime(t *testing.T) {
	srv := newTestServer(t)

	// Load a page, then set a find term.
	get(t, srv, "/api/page?frag=ecmascript%2F01-Intro.md")

	req := httptest.NewRequest("POST", "/api/find", strings.NewReader(`{"term":"welcome"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/find = %d", rec.Code)
	}
	var res struct {
		Term string `json:"term"`
		HTML string `json:"html"`
	}
	decode(t, rec, &res)
	if !strings.Contains(res.HTML, `<mark class="find-hit">Welcome</mark>`) {
		t.Errorf("find html = %q", res.HTML)
	}

	// The term survives navigation: a page load carries the marks.
	w := get(t, srv, "/api/page?frag=ecmascript%2F01-Intro.md")
	var page pageResponse
	decode(t, w, &page)
	if !strings.Contains(page.HTML, "find-hit") {
		t.Error("find term not applied on navigation")
	}

	// Clearing restores the clean cached markup.
	req = httptest.NewRequest("DELETE", "/api/find", nil)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	decode(t, rec, &res)
	if strings.Contains(res.HTML, "find-hit") {
		t.Errorf("cleared html still marked: %q", res.HTML)
	}

	w = get(t, srv, "/api/page?frag=ecmascript%2F01-Intro.md")
	decode(t, w, &page)
	if strings.Contains(page.HTML, "find-hit") {
		t.Error("cached markup was polluted by highlighting")
	}
}

func TestShellAndContentServing(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv, "/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<title>docview</title>") {
		t.Errorf("shell: %d", w.Code)
	}

	w = get(t, srv, "/content/1-ECMAScript/09-RegExp.md")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "# Regular Expressions") {
		t.Errorf("content serving: %d %q", w.Code, w.Body.String())
	}
}
