package validation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/radifan-bfi/jsonforms/pkg/testsupport"
)

func profileValidator(t *testing.T) *Validator {
	t.Helper()

	v, err := Compile(testsupport.ProfileSchema())
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	return v
}

func TestValidateReportsEveryViolation(t *testing.T) {
	t.Parallel()

	v := profileValidator(t)
	result := v.Validate(map[string]any{
		"firstName": "A",
		"lastName":  "Lovelace",
		"phone":     "abc",
		"address":   map[string]any{},
	})

	if result.Valid {
		t.Fatalf("expected invalid result")
	}

	want := []ErrorRecord{
		{InstanceLocation: "/address", Keyword: "required", Params: map[string]any{"missingProperty": "street"}, Message: "must have required property 'street'"},
		{InstanceLocation: "/address", Keyword: "required", Params: map[string]any{"missingProperty": "city"}, Message: "must have required property 'city'"},
		{InstanceLocation: "/address", Keyword: "required", Params: map[string]any{"missingProperty": "country"}, Message: "must have required property 'country'"},
		{InstanceLocation: "/firstName", Keyword: "minLength", Params: map[string]any{"limit": uint64(2)}, Message: "must NOT have fewer than 2 characters"},
		{InstanceLocation: "/phone", Keyword: "pattern", Params: map[string]any{"pattern": `^\+?[1-9]\d{1,14}$`}, Message: `must match pattern "^\+?[1-9]\d{1,14}$"`},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRequiredAtRoot(t *testing.T) {
	t.Parallel()

	result := profileValidator(t).Validate(nil)

	var missing []string
	for _, rec := range result.Errors {
		if rec.Keyword != "required" || rec.InstanceLocation != "" {
			t.Fatalf("unexpected record %+v", rec)
		}
		missing = append(missing, rec.Params["missingProperty"].(string))
	}
	if diff := cmp.Diff([]string{"firstName", "lastName", "phone", "address"}, missing); diff != "" {
		t.Fatalf("missing properties mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateEnumAndType(t *testing.T) {
	t.Parallel()

	data := testsupport.ValidProfile()
	data["address"].(map[string]any)["country"] = "France"
	data["lastName"] = float64(42)

	result := profileValidator(t).Validate(data)

	want := []ErrorRecord{
		{
			InstanceLocation: "/address/country",
			Keyword:          "enum",
			Params:           map[string]any{"allowedValues": []any{"USA", "Canada", "UK", "Australia"}},
			Message:          "must be equal to one of the allowed values",
		},
		{InstanceLocation: "/lastName", Keyword: "type", Params: map[string]any{"type": "string"}, Message: "must be string"},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAcceptsValidDocument(t *testing.T) {
	t.Parallel()

	result := profileValidator(t).Validate(testsupport.ValidProfile())
	if !result.Valid || len(result.Errors) != 0 {
		t.Fatalf("expected valid document, got %+v", result.Errors)
	}
}

func TestCompileYAMLSchema(t *testing.T) {
	t.Parallel()

	v, err := Compile([]byte(`
type: object
required: [age]
properties:
  age:
    type: integer
    minimum: 18
`))
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	result := v.Validate(map[string]any{"age": float64(12)})
	want := []ErrorRecord{{
		InstanceLocation: "/age",
		Keyword:          "minimum",
		Params:           map[string]any{"limit": float64(18), "comparison": ">="},
		Message:          "must be >= 18",
	}}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileRejectsBrokenSchemas(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":           "  ",
		"invalid json":    `{"type": "object",`,
		"unresolved ref":  `{"type":"object","properties":{"a":{"$ref":"#/$defs/a"}}}`,
		"remote ref":      `{"type":"object","properties":{"a":{"$ref":"https://example.com/a.json"}}}`,
		"ref cycle":       `{"$defs":{"node":{"type":"object","properties":{"next":{"$ref":"#/$defs/node"}}}},"$ref":"#/$defs/node"}`,
		"unknown anchor":  `{"type":"object","properties":{"a":{"$ref":"#missing"}}}`,
		"bad exclusive":   `{"type":"number","exclusiveMinimum":"ten"}`,
		"bad pattern":     `{"type":"object","properties":{"a":{"type":"string","pattern":"("}}}`,
		"unknown type":    `{"type":"strng"}`,
		"unknown keyword": `{"type":"object","dependentRequired":{"a":["b"]}}`,
		"yaml scalar":     "just text",
	}
	for name, raw := range cases {
		if _, err := Compile([]byte(raw)); err == nil {
			t.Fatalf("%s: expected compile error", name)
		} else if !strings.HasPrefix(err.Error(), "validation: ") {
			t.Fatalf("%s: expected package prefix, got %q", name, err)
		}
	}
}

func TestCompileAllowedKeywords(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"type":"object","x-ui":{"order":1},"deprecatedMessage":"use b"}`)
	if _, err := Compile(raw); err == nil {
		t.Fatalf("expected unknown keyword to fail")
	}
	if _, err := Compile(raw, WithAllowedKeywords("deprecatedMessage")); err != nil {
		t.Fatalf("expected allowed keyword to compile, got %v", err)
	}
}

func TestWithMessageFunc(t *testing.T) {
	t.Parallel()

	v, err := Compile(testsupport.ProfileSchema(), WithMessageFunc(func(rec ErrorRecord) string {
		if rec.Keyword == "required" {
			return "required"
		}
		return ""
	}))
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	data := testsupport.ValidProfile()
	delete(data, "firstName")
	data["phone"] = "nope"
	result := v.Validate(data)
	if len(result.Errors) != 2 {
		t.Fatalf("expected two errors, got %+v", result.Errors)
	}
	if result.Errors[0].Message != "string doesn't match the regular expression \"^\\+?[1-9]\\d{1,14}$\"" {
		t.Fatalf("expected engine reason fallback, got %q", result.Errors[0].Message)
	}
	if result.Errors[1].Message != "required" {
		t.Fatalf("expected custom message, got %q", result.Errors[1].Message)
	}
}

func TestProperty(t *testing.T) {
	t.Parallel()

	v := profileValidator(t)

	prop, ok := v.Property("address.country")
	if !ok {
		t.Fatalf("expected address.country to resolve")
	}
	if !prop.Required || prop.Types[0] != "string" {
		t.Fatalf("unexpected property %+v", prop)
	}
	if diff := cmp.Diff([]any{"USA", "Canada", "UK", "Australia"}, v.Enum("address.country")); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	if p, _ := v.Property("address.postalCode"); p.Required {
		t.Fatalf("postalCode must not be required")
	}
	if !v.Resolve("address") || v.Resolve("address.zip") || v.Resolve("phone.number") || v.Resolve("") {
		t.Fatalf("unexpected Resolve results")
	}
}

func TestCompileDraft2020Schema(t *testing.T) {
	t.Parallel()

	v, err := Compile([]byte(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"$defs": {
			"addr": {"type": "object", "required": ["city"], "properties": {"city": {"type": "string"}}}
		},
		"properties": {
			"age": {"type": "number", "exclusiveMinimum": 18, "exclusiveMaximum": 130},
			"kind": {"const": "person"},
			"nickname": {"type": ["string", "null"], "minLength": 2},
			"home": {"$ref": "#/$defs/addr", "title": "Home"},
			"tags": {"type": "array"}
		}
	}`))
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	result := v.Validate(map[string]any{
		"age":      float64(18),
		"kind":     "robot",
		"nickname": nil,
		"home":     map[string]any{},
		"tags":     []any{"a", float64(1)},
	})
	want := []ErrorRecord{
		{InstanceLocation: "/age", Keyword: "exclusiveMinimum", Params: map[string]any{"limit": float64(18), "comparison": ">"}, Message: "must be > 18"},
		{InstanceLocation: "/home", Keyword: "required", Params: map[string]any{"missingProperty": "city"}, Message: "must have required property 'city'"},
		{InstanceLocation: "/kind", Keyword: "const", Params: map[string]any{"allowedValue": "person"}, Message: "must be equal to constant"},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	result = v.Validate(map[string]any{
		"age":      float64(130),
		"kind":     "person",
		"nickname": "Al",
		"home":     map[string]any{"city": "London"},
	})
	want = []ErrorRecord{
		{InstanceLocation: "/age", Keyword: "exclusiveMaximum", Params: map[string]any{"limit": float64(130), "comparison": "<"}, Message: "must be < 130"},
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	prop, ok := v.Property("home.city")
	if !ok || prop.Types[0] != "string" {
		t.Fatalf("expected $ref target to be introspectable, got %+v", prop)
	}
	if home, _ := v.Property("home"); home.Title != "Home" {
		t.Fatalf("expected sibling keywords to override the $ref target, got %q", home.Title)
	}
}

func TestCompileNullOnlyType(t *testing.T) {
	t.Parallel()

	v := MustCompile([]byte(`{"type":"object","properties":{"cleared":{"type":"null"}}}`))
	if result := v.Validate(map[string]any{"cleared": nil}); !result.Valid {
		t.Fatalf("expected null to be accepted, got %+v", result.Errors)
	}
	if result := v.Validate(map[string]any{"cleared": "x"}); result.Valid {
		t.Fatalf("expected non-null value to be rejected")
	}
}

func TestNormalizeSchema(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   map[string]any
		want map[string]any
	}{
		{
			name: "exclusive bound stricter than minimum",
			in:   map[string]any{"type": "number", "minimum": float64(3), "exclusiveMinimum": float64(5)},
			want: map[string]any{"type": "number", "minimum": float64(5), "exclusiveMinimum": true},
		},
		{
			name: "minimum stricter than exclusive bound",
			in:   map[string]any{"type": "number", "minimum": float64(5), "exclusiveMinimum": float64(3)},
			want: map[string]any{"type": "number", "minimum": float64(5)},
		},
		{
			name: "boolean exclusive bound is kept",
			in:   map[string]any{"type": "number", "maximum": float64(5), "exclusiveMaximum": true},
			want: map[string]any{"type": "number", "maximum": float64(5), "exclusiveMaximum": true},
		},
		{
			name: "const becomes a tagged enum",
			in:   map[string]any{"const": "a"},
			want: map[string]any{"enum": []any{"a"}, constMarker: true},
		},
		{
			name: "null type member becomes nullable",
			in:   map[string]any{"type": []any{"integer", "string", "null"}},
			want: map[string]any{"type": []any{"integer", "string"}, "nullable": true},
		},
		{
			name: "property names are not keywords",
			in: map[string]any{
				"$defs":      map[string]any{"s": map[string]any{"type": "string"}},
				"properties": map[string]any{"enum": map[string]any{"$ref": "#/$defs/s"}},
			},
			want: map[string]any{
				"properties": map[string]any{"enum": map[string]any{"type": "string"}},
			},
		},
		{
			name: "anchors resolve",
			in: map[string]any{
				"$defs":      map[string]any{"s": map[string]any{"$anchor": "str", "type": "string"}},
				"properties": map[string]any{"a": map[string]any{"$ref": "#str"}},
			},
			want: map[string]any{
				"properties": map[string]any{"a": map[string]any{"type": "string"}},
			},
		},
	}

	for _, tc := range cases {
		got, err := normalizeSchema(tc.in)
		if err != nil {
			t.Fatalf("%s: normalizeSchema returned error: %v", tc.name, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}
