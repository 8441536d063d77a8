package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxcat/boxcat/internal/server/cache"
	"github.com/boxcat/boxcat/internal/server/handlers"
	"github.com/boxcat/boxcat/pkg/catalog"
)

func writeBox(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func boxJSON(name, version string) string {
	return fmt.Sprintf(`{
  "name": %q,
  "version": %q,
  "description": "a %s box",
  "providers": [{"file": "%s-%s.box", "checksum": "abc123"}]
}`, name, version, name, name, version)
}

func newHandlers(t *testing.T, dir string) *handlers.Handlers {
	t.Helper()
	logger := zerolog.Nop()
	store := catalog.New(dir, "acme")
	return handlers.New(store, cache.New(time.Minute, time.Minute), &logger)
}

func TestHandleListBoxes(t *testing.T) {
	dir := t.TempDir()
	writeBox(t, dir, "widget-1.0.0.metadata.json", boxJSON("widget", "1.0.0"))
	writeBox(t, dir, "widget-1.1.0.metadata.json", boxJSON("widget", "1.1.0"))

	h := newHandlers(t, dir)

	w := httptest.NewRecorder()
	h.HandleListBoxes(w, httptest.NewRequest(http.MethodGet, "http://host/boxes", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var items []struct {
		URL      string   `json:"url"`
		Versions []string `json:"versions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].URL != "http://host/boxes/acme/widget" {
		t.Errorf("expected detail URL appended to request URL, got %s", items[0].URL)
	}
	if len(items[0].Versions) != 2 || items[0].Versions[0] != "1.0.0" || items[0].Versions[1] != "1.1.0" {
		t.Errorf("expected ascending versions [1.0.0 1.1.0], got %v", items[0].Versions)
	}
}

func TestHandleListBoxesTrailingSlash(t *testing.T) {
	dir := t.TempDir()
	writeBox(t, dir, "widget-1.0.0.metadata.json", boxJSON("widget", "1.0.0"))

	h := newHandlers(t, dir)

	w := httptest.NewRecorder()
	h.HandleListBoxes(w, httptest.NewRequest(http.MethodGet, "http://host/boxes/", nil))

	var items []struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if items[0].URL != "http://host/boxes/acme/widget" {
		t.Errorf("expected no double slash in detail URL, got %s", items[0].URL)
	}
}

func TestHandleGetBoxRewritesProviderURLs(t *testing.T) {
	dir := t.TempDir()
	writeBox(t, dir, "widget-1.1.0.metadata.json", boxJSON("widget", "1.1.0"))

	h := newHandlers(t, dir)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "http://host/boxes/acme/widget", nil)
	h.HandleGetBox(w, r, "acme/widget")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var entry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Versions    []struct {
			Version   string           `json:"version"`
			Providers []map[string]any `json:"providers"`
		} `json:"versions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if entry.Name != "acme/widget" {
		t.Errorf("expected name acme/widget, got %s", entry.Name)
	}

	provider := entry.Versions[0].Providers[0]

	// Provider files resolve against the document root, not the mount.
	if provider["url"] != "http://host/widget-1.1.0.box" {
		t.Errorf("expected root-relative rewrite, got %v", provider["url"])
	}
	if _, hasFile := provider["file"]; hasFile {
		t.Error("expected file field to be replaced by url")
	}
	if provider["checksum"] != "abc123" {
		t.Errorf("expected passthrough checksum field, got %v", provider["checksum"])
	}
}

func TestHandleGetBoxNotFound(t *testing.T) {
	dir := t.TempDir()
	h := newHandlers(t, dir)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "http://host/boxes/foo/bar", nil)
	h.HandleGetBox(w, r, "foo/bar")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	want := "{\n  \"error\": \"No box foo/bar found.\"\n}\n"
	if got := w.Body.String(); got != want {
		t.Errorf("expected body %q, got %q", want, got)
	}
}

func TestHandleListBoxesRebuildFailure(t *testing.T) {
	dir := t.TempDir()
	writeBox(t, dir, "mangled-1.0.0.metadata.json", `{"name": "mangled"`)

	h := newHandlers(t, dir)

	w := httptest.NewRecorder()
	h.HandleListBoxes(w, httptest.NewRequest(http.MethodGet, "http://host/boxes", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 for a failed rebuild, got %d", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	dir := t.TempDir()
	writeBox(t, dir, "widget-1.0.0.metadata.json", boxJSON("widget", "1.0.0"))

	h := newHandlers(t, dir)

	w := httptest.NewRecorder()
	h.HandleHealth(w, httptest.NewRequest(http.MethodGet, "http://host/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", body["status"])
	}
	if body["boxes"] != float64(1) {
		t.Errorf("expected 1 box, got %v", body["boxes"])
	}
}

func TestListCacheInvalidatesWithCatalog(t *testing.T) {
	dir := t.TempDir()
	writeBox(t, dir, "widget-1.0.0.metadata.json", boxJSON("widget", "1.0.0"))

	h := newHandlers(t, dir)

	w := httptest.NewRecorder()
	h.HandleListBoxes(w, httptest.NewRequest(http.MethodGet, "http://host/boxes", nil))
	first := w.Body.String()

	// A new description file with a bumped mtime produces a new catalog
	// generation, so the cached rendering must not be served.
	path := writeBox(t, dir, "gadget-1.0.0.metadata.json", boxJSON("gadget", "1.0.0"))
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	w = httptest.NewRecorder()
	h.HandleListBoxes(w, httptest.NewRequest(http.MethodGet, "http://host/boxes", nil))
	second := w.Body.String()

	if first == second {
		t.Error("expected list response to change after catalog rebuild")
	}

	var items []any
	if err := json.Unmarshal([]byte(second), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items after rebuild, got %d", len(items))
	}
}
