package scope

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
	"github.com/radifan-bfi/jsonforms/pkg/validation"
)

func TestErrorFieldPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  validation.ErrorRecord
		want fieldpath.PlainPath
	}{
		{
			name: "required at root",
			rec:  validation.ErrorRecord{Keyword: "required", Params: map[string]any{"missingProperty": "firstName"}},
			want: "firstName",
		},
		{
			name: "required nested",
			rec:  validation.ErrorRecord{InstanceLocation: "/address", Keyword: "required", Params: map[string]any{"missingProperty": "city"}},
			want: "address.city",
		},
		{
			name: "pattern",
			rec:  validation.ErrorRecord{InstanceLocation: "/address/postalCode", Keyword: "pattern"},
			want: "address.postalCode",
		},
		{
			name: "required without params falls back to location",
			rec:  validation.ErrorRecord{InstanceLocation: "/address", Keyword: "required"},
			want: "address",
		},
		{
			name: "escaped pointer token",
			rec:  validation.ErrorRecord{InstanceLocation: "/a~1b", Keyword: "minLength"},
			want: "a/b",
		},
	}

	for _, tc := range cases {
		if got := ErrorFieldPath(tc.rec); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestInScopeAncestorRule(t *testing.T) {
	t.Parallel()

	owned := NewPaths("address.street", "address.city")

	cases := map[fieldpath.PlainPath]bool{
		"address.street":     true,
		"address":            true,
		"phone":              false,
		"address.postalCode": false,
		"address.street.no":  false,
		"addr":               false,
		"":                   false,
	}
	for path, want := range cases {
		if got := InScope(path, owned); got != want {
			t.Fatalf("InScope(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	owned := NewPaths("firstName", "lastName", "phone")
	errs := []validation.ErrorRecord{
		{InstanceLocation: "/address", Keyword: "required", Params: map[string]any{"missingProperty": "street"}, Message: "street missing"},
		{InstanceLocation: "/phone", Keyword: "pattern", Message: "bad pattern"},
		{InstanceLocation: "/phone", Keyword: "minLength", Message: "too short"},
		{InstanceLocation: "/firstName", Keyword: "minLength"},
		{Keyword: "required", Params: map[string]any{"missingProperty": "address"}, Message: "address missing"},
	}

	want := map[fieldpath.PlainPath]string{
		"phone":     "too short",
		"firstName": FallbackMessage,
	}
	if diff := cmp.Diff(want, Filter(errs, owned)); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterKeepsAncestorObjectErrors(t *testing.T) {
	t.Parallel()

	owned := NewPaths("address.country", "address.city")
	errs := []validation.ErrorRecord{
		{Keyword: "required", Params: map[string]any{"missingProperty": "address"}, Message: "must have required property 'address'"},
		{InstanceLocation: "/address/postalCode", Keyword: "pattern", Message: "bad"},
	}

	want := map[fieldpath.PlainPath]string{"address": "must have required property 'address'"}
	if diff := cmp.Diff(want, Filter(errs, owned)); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestPathsPreserveOrder(t *testing.T) {
	t.Parallel()

	set := NewPaths("b", "a", "b", "", "c")
	if diff := cmp.Diff([]fieldpath.PlainPath{"b", "a", "c"}, set.List()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if set.Len() != 3 || !set.Contains("a") || set.Contains("d") {
		t.Fatalf("unexpected set contents %v", set.List())
	}

	var zero Paths
	if zero.Contains("a") || InScope("a", zero) {
		t.Fatalf("zero set must be empty")
	}
}
