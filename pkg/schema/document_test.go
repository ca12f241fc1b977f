package schema

import "testing"

func TestNewDocumentRejectsEmptyPayload(t *testing.T) {
	if _, err := NewDocument(SourceFromFS("layout.json"), []byte("  \n")); err == nil {
		t.Fatalf("expected error for blank payload")
	}
	if _, err := NewDocument(nil, []byte("{}")); err == nil {
		t.Fatalf("expected error for nil source")
	}
}

func TestDocumentRawIsCopied(t *testing.T) {
	raw := []byte(`{"version":"1"}`)
	doc := MustNewDocument(SourceFromFS("layout.json"), raw)
	raw[0] = 'x'

	out := doc.Raw()
	if out[0] != '{' {
		t.Fatalf("document shares the caller's buffer")
	}
	out[1] = 'x'
	if doc.Raw()[1] != '"' {
		t.Fatalf("Raw returned the internal buffer")
	}
	if doc.Location() != "layout.json" {
		t.Fatalf("unexpected location %q", doc.Location())
	}
	if !doc.LooksLikeJSON() {
		t.Fatalf("expected JSON detection")
	}
}

func TestLooksLikeJSON(t *testing.T) {
	cases := map[string]bool{
		`{"a":1}`:        true,
		"  [1]":          true,
		"version: 1.0.0": false,
		"":               false,
	}
	for raw, want := range cases {
		if got := LooksLikeJSON([]byte(raw)); got != want {
			t.Fatalf("LooksLikeJSON(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestParseSource(t *testing.T) {
	if ParseSource("   ") != nil {
		t.Fatalf("expected nil source for blank input")
	}

	src := ParseSource("https://example.com/layout.json")
	if src == nil || src.Kind() != SourceKindURL {
		t.Fatalf("expected url source, got %#v", src)
	}

	src = ParseSource("./testdata/../layout.yaml")
	if src == nil || src.Kind() != SourceKindFile {
		t.Fatalf("expected file source, got %#v", src)
	}
	if src.Location() != "layout.yaml" {
		t.Fatalf("expected cleaned path, got %q", src.Location())
	}
}
