package validation

import (
	"slices"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
)

// Property describes the schema at a data path.
type Property struct {
	Path        fieldpath.PlainPath
	Types       []string
	Title       string
	Description string
	Format      string
	Enum        []any
	Default     any
	Required    bool
}

// Resolve reports whether path names a location declared by the schema.
func (v *Validator) Resolve(path fieldpath.PlainPath) bool {
	_, ok := v.Property(path)
	return ok
}

// Enum returns the allowed values declared at path, if any.
func (v *Validator) Enum(path fieldpath.PlainPath) []any {
	prop, ok := v.Property(path)
	if !ok {
		return nil
	}
	return prop.Enum
}

// Property looks up the schema declared at path. Object properties and array
// items (numeric segments) are followed.
func (v *Validator) Property(path fieldpath.PlainPath) (Property, bool) {
	if v == nil || v.root == nil || path == "" {
		return Property{}, false
	}

	current := v.root
	var parent *openapi3.Schema
	segments := path.Segments()
	for _, segment := range segments {
		next := child(current, segment)
		if next == nil {
			return Property{}, false
		}
		parent = current
		current = next
	}

	last := segments[len(segments)-1]
	return Property{
		Path:        path,
		Types:       current.Type.Slice(),
		Title:       current.Title,
		Description: current.Description,
		Format:      current.Format,
		Enum:        append([]any(nil), current.Enum...),
		Default:     current.Default,
		Required:    parent != nil && slices.Contains(parent.Required, last),
	}, true
}

func child(s *openapi3.Schema, segment string) *openapi3.Schema {
	if ref, ok := s.Properties[segment]; ok && ref != nil {
		return ref.Value
	}
	if s.Items != nil && s.Items.Value != nil {
		if _, err := strconv.Atoi(segment); err == nil {
			return s.Items.Value
		}
	}
	if ref := s.AdditionalProperties.Schema; ref != nil && ref.Value != nil {
		return ref.Value
	}
	return nil
}
