package layout

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
	"github.com/radifan-bfi/jsonforms/pkg/schema"
	"github.com/radifan-bfi/jsonforms/pkg/visibility"
	"github.com/radifan-bfi/jsonforms/pkg/visibility/logic"
)

// Component type discriminators used by the wire format.
const (
	ComponentStep    = "step"
	ComponentSection = "section"
	ComponentGrid    = "grid"
	ComponentField   = "field"
)

type layoutFile struct {
	Version    string     `json:"version" yaml:"version"`
	Metadata   Metadata   `json:"metadata" yaml:"metadata"`
	Config     Config     `json:"config" yaml:"config"`
	Components []nodeFile `json:"components" yaml:"components"`
}

type nodeFile struct {
	ComponentType string      `json:"componentType" yaml:"componentType"`
	Title         string      `json:"title" yaml:"title"`
	Description   string      `json:"description" yaml:"description"`
	Columns       *ColumnSpec `json:"columns" yaml:"columns"`
	Components    []nodeFile  `json:"components" yaml:"components"`

	JSONSchemaPropertyPath string          `json:"jsonSchemaPropertyPath" yaml:"jsonSchemaPropertyPath"`
	InputType              string          `json:"inputType" yaml:"inputType"`
	InputProps             inputPropsFile  `json:"inputProps" yaml:"inputProps"`
	Conditions             *conditionsFile `json:"conditions" yaml:"conditions"`
	VisibleWhen            any             `json:"visibleWhen" yaml:"visibleWhen"`
}

type inputPropsFile struct {
	Title        string   `json:"title" yaml:"title"`
	Placeholder  string   `json:"placeholder" yaml:"placeholder"`
	DefaultValue any      `json:"defaultValue" yaml:"defaultValue"`
	Disabled     bool     `json:"disabled" yaml:"disabled"`
	ClassName    string   `json:"className" yaml:"className"`
	Options      []string `json:"options" yaml:"options"`
}

type conditionsFile struct {
	Show []conditionFile `json:"show" yaml:"show"`
}

type conditionFile struct {
	Field    string `json:"field" yaml:"field"`
	Operator string `json:"operator" yaml:"operator"`
	Value    any    `json:"value" yaml:"value"`
}

// Parse decodes a JSON or YAML layout document.
func Parse(raw []byte) (*Layout, error) {
	return parse(raw, "layout")
}

// ParseDocument decodes a loaded layout document, naming its location in
// errors.
func ParseDocument(doc schema.Document) (*Layout, error) {
	source := doc.Location()
	if source == "" {
		source = "layout"
	}
	return parse(doc.Raw(), source)
}

// MustParse panics when the layout cannot be parsed. Useful for tests.
func MustParse(raw []byte) *Layout {
	l, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return l
}

func parse(raw []byte, source string) (*Layout, error) {
	file, err := decode(raw, source)
	if err != nil {
		return nil, err
	}

	out := &Layout{
		Version: strings.TrimSpace(file.Version),
		Metadata: Metadata{
			Title:       SanitizeText(file.Metadata.Title),
			Description: SanitizeText(file.Metadata.Description),
			Schema:      strings.TrimSpace(file.Metadata.Schema),
		},
		Config: file.Config,
	}
	if out.Version == "" {
		return nil, fmt.Errorf("layout: %s: version is required", source)
	}
	if len(file.Components) == 0 {
		return nil, fmt.Errorf("layout: %s: at least one step is required", source)
	}

	b := builder{source: source, seen: make(map[fieldpath.PlainPath]string)}
	for idx, raw := range file.Components {
		loc := fmt.Sprintf("components[%d]", idx)
		if kind := strings.TrimSpace(raw.ComponentType); kind != ComponentStep {
			return nil, b.errorf(loc, "top-level component must be a step, got %q", kind)
		}
		step, err := b.step(raw, loc)
		if err != nil {
			return nil, err
		}
		out.Steps = append(out.Steps, step)
	}
	return out, nil
}

func decode(raw []byte, source string) (layoutFile, error) {
	var file layoutFile
	if len(strings.TrimSpace(string(raw))) == 0 {
		return layoutFile{}, fmt.Errorf("layout: %s is empty", source)
	}

	jsonErr := json.Unmarshal(raw, &file)
	if jsonErr == nil {
		return file, nil
	}
	if schema.LooksLikeJSON(raw) {
		return layoutFile{}, fmt.Errorf("layout: parse %s: %w", source, jsonErr)
	}

	file = layoutFile{}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return layoutFile{}, fmt.Errorf("layout: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return file, nil
}

type builder struct {
	source string
	seen   map[fieldpath.PlainPath]string
}

func (b *builder) errorf(loc, format string, args ...any) error {
	return fmt.Errorf("layout: %s: %s: %s", b.source, loc, fmt.Sprintf(format, args...))
}

func (b *builder) step(raw nodeFile, loc string) (*Step, error) {
	children, err := b.children(raw.Components, loc)
	if err != nil {
		return nil, err
	}
	return &Step{Title: SanitizeText(raw.Title), Children: children}, nil
}

func (b *builder) children(raw []nodeFile, parent string) ([]Node, error) {
	out := make([]Node, 0, len(raw))
	for idx, item := range raw {
		child, err := b.node(item, fmt.Sprintf("%s.components[%d]", parent, idx))
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

func (b *builder) node(raw nodeFile, loc string) (Node, error) {
	switch kind := strings.TrimSpace(raw.ComponentType); kind {
	case ComponentSection:
		children, err := b.children(raw.Components, loc)
		if err != nil {
			return nil, err
		}
		return &Section{
			Title:       SanitizeText(raw.Title),
			Description: sanitizeRich(raw.Description),
			Children:    children,
		}, nil
	case ComponentGrid:
		children, err := b.children(raw.Components, loc)
		if err != nil {
			return nil, err
		}
		grid := &Grid{Children: children}
		if raw.Columns != nil {
			grid.Columns = *raw.Columns
		}
		if grid.Columns.Default < 0 || grid.Columns.SM < 0 || grid.Columns.MD < 0 || grid.Columns.LG < 0 {
			return nil, b.errorf(loc, "grid columns must not be negative")
		}
		if grid.Columns.Default == 0 {
			grid.Columns.Default = 1
		}
		return grid, nil
	case ComponentField:
		return b.field(raw, loc)
	case ComponentStep:
		return nil, b.errorf(loc, "steps may only appear at the top level")
	case "":
		return nil, b.errorf(loc, "componentType is required")
	default:
		return nil, b.errorf(loc, "unknown componentType %q", kind)
	}
}

func (b *builder) field(raw nodeFile, loc string) (*Field, error) {
	pointer := fieldpath.SchemaPointer(strings.TrimSpace(raw.JSONSchemaPropertyPath))
	if pointer == "" {
		return nil, b.errorf(loc, "field requires jsonSchemaPropertyPath")
	}
	path := fieldpath.ToPlainPath(pointer)
	if path == "" {
		return nil, b.errorf(loc, "jsonSchemaPropertyPath %q names no property", pointer)
	}
	if prev, ok := b.seen[path]; ok {
		return nil, b.errorf(loc, "path %q is already bound at %s", path, prev)
	}
	b.seen[path] = loc

	kind := InputKind(strings.TrimSpace(raw.InputType))
	if kind == "" {
		kind = InputText
	}
	if !kind.Valid() {
		return nil, b.errorf(loc, "unknown inputType %q", raw.InputType)
	}

	field := &Field{
		Pointer: pointer,
		Path:    path,
		Kind:    kind,
		Input: InputConfig{
			Title:       SanitizeText(raw.InputProps.Title),
			Placeholder: SanitizeText(raw.InputProps.Placeholder),
			Default:     raw.InputProps.DefaultValue,
			Disabled:    raw.InputProps.Disabled,
			ClassName:   strings.TrimSpace(raw.InputProps.ClassName),
			Options:     trimOptions(raw.InputProps.Options),
		},
	}

	if raw.Conditions != nil {
		for idx, c := range raw.Conditions.Show {
			cond, err := visibility.NewCondition(c.Field, visibility.Operator(c.Operator), c.Value)
			if err != nil {
				return nil, b.errorf(fmt.Sprintf("%s.conditions.show[%d]", loc, idx), "%v", err)
			}
			field.Conditions = append(field.Conditions, cond)
		}
	}
	if raw.VisibleWhen != nil {
		rule, err := logic.Parse(raw.VisibleWhen)
		if err != nil {
			return nil, b.errorf(loc+".visibleWhen", "%v", err)
		}
		field.Conditions = append(field.Conditions, rule)
	}
	return field, nil
}

func trimOptions(options []string) []string {
	if len(options) == 0 {
		return nil
	}
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if opt = strings.TrimSpace(opt); opt != "" {
			out = append(out, opt)
		}
	}
	return out
}
