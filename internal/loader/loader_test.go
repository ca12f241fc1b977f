package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/radifan-bfi/jsonforms/pkg/schema"
)

func TestLoaderFromFS(t *testing.T) {
	files := fstest.MapFS{
		"forms/profile.json": {Data: []byte(`{"version":"1.0.0"}`)},
	}
	l := New(schema.NewLoaderConfig(schema.WithFiles(files)))

	doc, err := l.Load(context.Background(), schema.SourceFromFS("forms/profile.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := string(doc.Raw()); got != `{"version":"1.0.0"}` {
		t.Fatalf("unexpected payload %q", got)
	}
	if doc.Location() != "forms/profile.json" {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestLoaderFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(path, []byte("type: object\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := New(schema.LoaderConfig{})
	doc, err := l.Load(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(string(doc.Raw()), "type: object") {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
}

func TestLoaderRejectsOversizedDocuments(t *testing.T) {
	files := fstest.MapFS{
		"big.json": {Data: []byte(`{"description":"` + strings.Repeat("x", 64) + `"}`)},
	}
	l := New(schema.NewLoaderConfig(schema.WithFiles(files), schema.WithMaxBytes(16)))

	if _, err := l.Load(context.Background(), schema.SourceFromFS("big.json")); err == nil {
		t.Fatalf("expected size limit error")
	}
}

func TestLoaderHTTPDisabledByDefault(t *testing.T) {
	l := New(schema.LoaderConfig{})
	_, err := l.Load(context.Background(), schema.SourceFromURL("https://example.com/layout.json"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected disabled http error, got %v", err)
	}
}

func TestLoaderHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/layout.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"version":"2.0.0"}`))
	}))
	defer server.Close()

	l := New(schema.NewLoaderConfig(schema.WithRemoteClient(server.Client())))

	doc, err := l.Load(context.Background(), schema.SourceFromURL(server.URL+"/layout.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != `{"version":"2.0.0"}` {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	if _, err := l.Load(context.Background(), schema.SourceFromURL(server.URL+"/missing.json")); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestLoaderHonoursCancelledContext(t *testing.T) {
	files := fstest.MapFS{"a.json": {Data: []byte(`{}`)}}
	l := New(schema.NewLoaderConfig(schema.WithFiles(files)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx, schema.SourceFromFS("a.json")); err == nil {
		t.Fatalf("expected context error")
	}
}
