package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goccy/go-json"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
	"github.com/radifan-bfi/jsonforms/pkg/layout"
)

// Transformer patches a parsed layout before it is bound to the schema.
// Implementations can retitle fields, inject defaults, or disable inputs.
type Transformer interface {
	Transform(ctx context.Context, l *layout.Layout) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, l *layout.Layout) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, l *layout.Layout) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, l)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Field patches are keyed by data path:
//
//	{
//	  "metadata": {"title": "Sign up"},
//	  "fields": {
//	    "address.country": {"title": "Country of residence", "default": "UK"}
//	  }
//	}
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Metadata presetMetadata         `json:"metadata"`
	Fields   map[string]presetField `json:"fields"`
}

type presetMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type presetField struct {
	Title       string   `json:"title"`
	Placeholder string   `json:"placeholder"`
	ClassName   string   `json:"className"`
	Default     any      `json:"default"`
	Disabled    *bool    `json:"disabled"`
	Options     []string `json:"options"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied layout. Text
// goes through the same sanitizer as Parse. Unknown field paths are an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, l *layout.Layout) error {
	if l == nil {
		return errors.New("json preset transformer: layout is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if title := layout.SanitizeText(t.document.Metadata.Title); title != "" {
		l.Metadata.Title = title
	}
	if description := layout.SanitizeText(t.document.Metadata.Description); description != "" {
		l.Metadata.Description = description
	}

	for path, patch := range t.document.Fields {
		field, _, ok := l.Field(fieldpath.Normalize(path))
		if !ok {
			return fmt.Errorf("json preset transformer: field %q not found", path)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *layout.Field, patch presetField) {
	if title := layout.SanitizeText(patch.Title); title != "" {
		field.Input.Title = title
	}
	if placeholder := layout.SanitizeText(patch.Placeholder); placeholder != "" {
		field.Input.Placeholder = placeholder
	}
	if className := strings.TrimSpace(patch.ClassName); className != "" {
		field.Input.ClassName = className
	}
	if patch.Default != nil {
		field.Input.Default = patch.Default
	}
	if patch.Disabled != nil {
		field.Input.Disabled = *patch.Disabled
	}
	options := make([]string, 0, len(patch.Options))
	for _, option := range patch.Options {
		if option = strings.TrimSpace(option); option != "" {
			options = append(options, option)
		}
	}
	if len(options) > 0 {
		field.Input.Options = options
	}
}
