// Package testsupport exposes the sample profile form used across package
// tests. Fixtures are returned as raw bytes so any package can depend on this
// one without import cycles.
package testsupport

import (
	"context"
	"embed"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

//go:embed testdata/*
var fixtures embed.FS

// Fixture file names.
const (
	ProfileSchemaFile     = "testdata/profile_schema.json"
	ProfileLayoutFile     = "testdata/profile_layout.json"
	ProfileLayoutYAMLFile = "testdata/profile_layout.yaml"
	ConditionalLayoutFile = "testdata/conditional_layout.json"
)

// Fixtures returns the embedded fixture filesystem.
func Fixtures() embed.FS {
	return fixtures
}

// MustRead returns an embedded fixture or panics.
func MustRead(name string) []byte {
	data, err := fixtures.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("testsupport: read %s: %v", name, err))
	}
	return data
}

// ProfileSchema is the two step profile data schema.
func ProfileSchema() []byte { return MustRead(ProfileSchemaFile) }

// ProfileLayout is the two step profile layout in JSON.
func ProfileLayout() []byte { return MustRead(ProfileLayoutFile) }

// ProfileLayoutYAML is ProfileLayout expressed in YAML.
func ProfileLayoutYAML() []byte { return MustRead(ProfileLayoutYAMLFile) }

// ConditionalLayout hides the postal code unless the country is USA or Canada.
func ConditionalLayout() []byte { return MustRead(ConditionalLayoutFile) }

// ValidProfile returns a document that satisfies ProfileSchema.
func ValidProfile() map[string]any {
	return map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"phone":     "+15551234567",
		"address": map[string]any{
			"country":    "UK",
			"city":       "London",
			"street":     "12 St James's Square",
			"postalCode": "10001",
		},
	}
}

// DecodeJSON decodes a JSON literal into a generic document, failing the test
// on error.
func DecodeJSON(t *testing.T, raw string) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	return out
}

// AssertEqual fails the test with a cmp diff when want and got differ.
func AssertEqual(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()

	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
