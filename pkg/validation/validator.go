package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
	"github.com/radifan-bfi/jsonforms/pkg/schema"
)

// ErrorRecord is a single schema violation.
type ErrorRecord struct {
	InstanceLocation string         `json:"instanceLocation"`
	Keyword          string         `json:"keyword"`
	Params           map[string]any `json:"params,omitempty"`
	Message          string         `json:"message,omitempty"`
}

// Result is the outcome of validating one document.
type Result struct {
	Valid  bool          `json:"valid"`
	Errors []ErrorRecord `json:"errors,omitempty"`
}

// MessageFunc renders the message for a record. Returning an empty string
// keeps the engine's own reason.
type MessageFunc func(rec ErrorRecord) string

// Option customises Compile.
type Option func(*options)

type options struct {
	keywords []string
	formats  bool
	messages MessageFunc
}

// WithAllowedKeywords accepts additional annotation keywords that the engine
// does not understand. "$schema", "$id", "$comment" and "examples" are always
// accepted.
func WithAllowedKeywords(keywords ...string) Option {
	return func(o *options) {
		o.keywords = append(o.keywords, keywords...)
	}
}

// WithFormatValidation rejects schemas that reference unknown formats.
func WithFormatValidation() Option {
	return func(o *options) {
		o.formats = true
	}
}

// WithMessageFunc overrides the default messages.
func WithMessageFunc(fn MessageFunc) Option {
	return func(o *options) {
		o.messages = fn
	}
}

var defaultKeywords = []string{"$schema", "$id", "$comment", "examples"}

// Validator is a compiled schema. It is immutable and safe for concurrent use.
type Validator struct {
	root     *openapi3.Schema
	messages MessageFunc
}

// Compile parses raw (JSON or YAML) draft 2020-12 schema and checks it for
// configuration problems: unresolved or remote references, invalid patterns,
// unsupported types and unknown keywords all fail here rather than during
// validation. Local $refs are inlined, so recursive schemas are rejected.
func Compile(raw []byte, opts ...Option) (*Validator, error) {
	cfg := options{messages: DefaultMessage}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.messages == nil {
		cfg.messages = DefaultMessage
	}

	payload, err := toJSON(raw)
	if err != nil {
		return nil, err
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("validation: decode schema: %w", err)
	}
	normalized, err := normalizeSchema(decoded)
	if err != nil {
		return nil, err
	}
	if payload, err = json.Marshal(normalized); err != nil {
		return nil, fmt.Errorf("validation: encode schema: %w", err)
	}

	root := &openapi3.Schema{}
	if err := root.UnmarshalJSON(payload); err != nil {
		return nil, fmt.Errorf("validation: decode schema: %w", err)
	}

	validateOpts := []openapi3.ValidationOption{
		openapi3.AllowExtraSiblingFields(append(append([]string(nil), defaultKeywords...), cfg.keywords...)...),
	}
	if cfg.formats {
		validateOpts = append(validateOpts, openapi3.EnableSchemaFormatValidation())
	}
	if err := root.Validate(context.Background(), validateOpts...); err != nil {
		return nil, fmt.Errorf("validation: invalid schema: %w", err)
	}

	return &Validator{root: root, messages: cfg.messages}, nil
}

// CompileDocument compiles a loaded document.
func CompileDocument(doc schema.Document, opts ...Option) (*Validator, error) {
	v, err := Compile(doc.Raw(), opts...)
	if err != nil {
		if loc := doc.Location(); loc != "" {
			return nil, fmt.Errorf("%s: %w", loc, err)
		}
		return nil, err
	}
	return v, nil
}

// MustCompile panics when the schema cannot be compiled. Useful for tests.
func MustCompile(raw []byte, opts ...Option) *Validator {
	v, err := Compile(raw, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks the whole document and reports every violation.
func (v *Validator) Validate(data map[string]any) Result {
	if data == nil {
		data = map[string]any{}
	}
	err := v.root.VisitJSON(data, openapi3.MultiErrors())
	if err == nil {
		return Result{Valid: true}
	}

	var records []ErrorRecord
	v.collect(err, &records)
	return Result{Valid: len(records) == 0, Errors: records}
}

func (v *Validator) collect(err error, out *[]ErrorRecord) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			v.collect(item, out)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		*out = append(*out, ErrorRecord{Keyword: "error", Message: err.Error()})
		return
	}

	// An exclusive bound also trips the inclusive check below it.
	if s := schemaErr.Schema; s != nil {
		if (schemaErr.SchemaField == "minimum" && s.ExclusiveMin) || (schemaErr.SchemaField == "maximum" && s.ExclusiveMax) {
			return
		}
	}

	rec := normalise(schemaErr)
	if msg := v.messages(rec); msg != "" {
		rec.Message = msg
	} else {
		rec.Message = strings.TrimSpace(schemaErr.Reason)
	}
	*out = append(*out, rec)
}

func normalise(err *openapi3.SchemaError) ErrorRecord {
	pointer := err.JSONPointer()
	rec := ErrorRecord{Keyword: err.SchemaField, Params: map[string]any{}}
	s := err.Schema
	if s == nil {
		s = &openapi3.Schema{}
	}

	switch err.SchemaField {
	case "required":
		if n := len(pointer); n > 0 {
			rec.Params["missingProperty"] = pointer[n-1]
			pointer = pointer[:n-1]
		}
	case "minLength":
		rec.Params["limit"] = s.MinLength
	case "maxLength":
		if s.MaxLength != nil {
			rec.Params["limit"] = *s.MaxLength
		}
	case "minItems":
		rec.Params["limit"] = s.MinItems
	case "maxItems":
		if s.MaxItems != nil {
			rec.Params["limit"] = *s.MaxItems
		}
	case "minProperties":
		rec.Params["limit"] = s.MinProps
	case "maxProperties":
		if s.MaxProps != nil {
			rec.Params["limit"] = *s.MaxProps
		}
	case "pattern":
		rec.Params["pattern"] = s.Pattern
	case "format":
		rec.Params["format"] = s.Format
	case "enum":
		if _, ok := s.Extensions[constMarker]; ok && len(s.Enum) == 1 {
			rec.Keyword = "const"
			rec.Params["allowedValue"] = s.Enum[0]
			break
		}
		rec.Params["allowedValues"] = append([]any(nil), s.Enum...)
	case "type", "nullable":
		rec.Keyword = "type"
		rec.Params["type"] = strings.Join(s.Type.Slice(), ",")
	case "minimum", "exclusiveMinimum":
		if s.Min != nil {
			rec.Params["limit"] = *s.Min
		}
		rec.Params["comparison"] = ">="
		if err.SchemaField == "exclusiveMinimum" {
			rec.Params["comparison"] = ">"
		}
	case "maximum", "exclusiveMaximum":
		if s.Max != nil {
			rec.Params["limit"] = *s.Max
		}
		rec.Params["comparison"] = "<="
		if err.SchemaField == "exclusiveMaximum" {
			rec.Params["comparison"] = "<"
		}
	case "multipleOf":
		if s.MultipleOf != nil {
			rec.Params["multipleOf"] = *s.MultipleOf
		}
	case "properties":
		rec.Keyword = "additionalProperties"
		if name := quoted(err.Reason); name != "" {
			rec.Params["additionalProperty"] = name
		}
	}

	rec.InstanceLocation = fieldpath.ToInstanceLocation(pointer)
	if len(rec.Params) == 0 {
		rec.Params = nil
	}
	return rec
}

// quoted returns the first double-quoted token in reason.
func quoted(reason string) string {
	start := strings.IndexByte(reason, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(reason[start+1:], '"')
	if end < 0 {
		return ""
	}
	return reason[start+1 : start+1+end]
}

// toJSON accepts JSON or YAML and returns JSON.
func toJSON(raw []byte) ([]byte, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("validation: schema document is empty")
	}
	if schema.LooksLikeJSON(raw) {
		if !json.Valid(raw) {
			return nil, errors.New("validation: schema is not valid JSON")
		}
		return raw, nil
	}

	var decoded any
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("validation: decode yaml schema: %w", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		return nil, fmt.Errorf("validation: schema must be an object, got %T", decoded)
	}
	payload, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("validation: encode yaml schema: %w", err)
	}
	return payload, nil
}
