// Package fieldpath translates between the two path notations used by layouts
// and form data. Layout fields address the data schema with schema pointers
// (`$.properties.address.properties.country`) while values and validation
// errors are keyed by plain dotted paths (`address.country`). Both notations
// are kept as distinct string types so the direction of a translation is
// checked by the compiler.
package fieldpath

import "strings"

const (
	rootMarker       = "$.properties."
	propertiesMarker = ".properties."
	separator        = "."
)

// SchemaPointer addresses a location inside a schema definition.
type SchemaPointer string

// PlainPath addresses a location inside the data object.
type PlainPath string

// ToPlainPath strips the leading root marker and every properties marker from
// the pointer. Input without markers passes through unchanged, which makes the
// translation idempotent.
func ToPlainPath(pointer SchemaPointer) PlainPath {
	trimmed := strings.TrimPrefix(string(pointer), rootMarker)
	return PlainPath(strings.ReplaceAll(trimmed, propertiesMarker, separator))
}

// ToSchemaPointer is the inverse of ToPlainPath for well-formed paths.
func ToSchemaPointer(path PlainPath) SchemaPointer {
	if path == "" {
		return ""
	}
	return SchemaPointer(rootMarker + strings.ReplaceAll(string(path), separator, propertiesMarker))
}

// Normalize accepts either notation and returns the plain path.
func Normalize(raw string) PlainPath {
	return ToPlainPath(SchemaPointer(strings.TrimSpace(raw)))
}

// FromInstanceLocation converts a slash-delimited JSON pointer into a plain
// path. The root location ("" or "/") yields the empty path.
func FromInstanceLocation(location string) PlainPath {
	trimmed := strings.TrimPrefix(location, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	for idx, part := range parts {
		parts[idx] = unescapePointerToken(part)
	}
	return PlainPath(strings.Join(parts, separator))
}

// ToInstanceLocation renders segments as a slash-delimited JSON pointer.
func ToInstanceLocation(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	var b strings.Builder
	for _, segment := range segments {
		b.WriteByte('/')
		b.WriteString(escapePointerToken(segment))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (p PlainPath) String() string {
	return string(p)
}

// String implements fmt.Stringer.
func (p SchemaPointer) String() string {
	return string(p)
}

// Segments splits the path into its segment names.
func (p PlainPath) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), separator)
}

// Join appends a child segment. Joining onto the empty path yields the child.
func (p PlainPath) Join(child string) PlainPath {
	if p == "" {
		return PlainPath(child)
	}
	if child == "" {
		return p
	}
	return p + separator + PlainPath(child)
}

// Parent returns the path without its last segment.
func (p PlainPath) Parent() PlainPath {
	idx := strings.LastIndex(string(p), separator)
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// IsAncestorOf reports whether p is a strict ancestor of other. The empty path
// is not treated as an ancestor of anything.
func (p PlainPath) IsAncestorOf(other PlainPath) bool {
	if p == "" {
		return false
	}
	return strings.HasPrefix(string(other), string(p)+separator)
}

func unescapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

func escapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}
