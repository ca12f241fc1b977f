package layout

import (
	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
	"github.com/radifan-bfi/jsonforms/pkg/visibility"
)

// Layout is the parsed form description. Transformers may patch it before it
// is bound, but it is immutable once bound to a Controller.
type Layout struct {
	Version  string
	Metadata Metadata
	Config   Config
	Steps    []*Step
}

// Metadata describes the form.
type Metadata struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Schema      string `json:"schema" yaml:"schema"`
}

// Config holds optional behaviour switches.
type Config struct {
	// PersistData is a declared hook for a persistence collaborator. The form
	// engine does not act on it.
	PersistData bool `json:"persistData" yaml:"persistData"`
}

// Node is one element of the layout tree.
type Node interface {
	node()
}

// Step is a page of the wizard. Steps only appear at the top level.
type Step struct {
	Title    string
	Children []Node
}

// Section groups nodes under an optional heading.
type Section struct {
	Title       string
	Description string
	Children    []Node
}

// Grid arranges its children in columns.
type Grid struct {
	Columns  ColumnSpec
	Children []Node
}

// Field binds an input to a location in the data document.
type Field struct {
	Pointer    fieldpath.SchemaPointer
	Path       fieldpath.PlainPath
	Kind       InputKind
	Input      InputConfig
	Conditions []visibility.Rule
}

func (*Step) node()    {}
func (*Section) node() {}
func (*Grid) node()    {}
func (*Field) node()   {}

// ColumnSpec holds responsive column counts. Zero means inherit.
type ColumnSpec struct {
	Default int `json:"default" yaml:"default"`
	SM      int `json:"sm,omitempty" yaml:"sm,omitempty"`
	MD      int `json:"md,omitempty" yaml:"md,omitempty"`
	LG      int `json:"lg,omitempty" yaml:"lg,omitempty"`
}

// InputKind selects the input widget for a field.
type InputKind string

const (
	InputText     InputKind = "text"
	InputNumber   InputKind = "number"
	InputSelect   InputKind = "select"
	InputDate     InputKind = "date"
	InputPassword InputKind = "password"
	InputPhone    InputKind = "phone"
)

// Valid reports whether k is a known input kind.
func (k InputKind) Valid() bool {
	switch k {
	case InputText, InputNumber, InputSelect, InputDate, InputPassword, InputPhone:
		return true
	}
	return false
}

// InputConfig carries presentation hints for a field.
type InputConfig struct {
	Title       string
	Placeholder string
	Default     any
	Disabled    bool
	ClassName   string
	// Options lists select choices. When empty, renderers fall back to the
	// schema's enum.
	Options []string
}

// Label returns the field title, or its data path when untitled.
func (f *Field) Label() string {
	if f.Input.Title != "" {
		return f.Input.Title
	}
	return f.Path.String()
}

// Visible evaluates the field's conditions. Fields without conditions are
// always visible.
func (f *Field) Visible(ctx visibility.Context) (bool, error) {
	return visibility.All(ctx, f.Conditions...)
}

// StepCount returns the number of steps.
func (l *Layout) StepCount() int {
	if l == nil {
		return 0
	}
	return len(l.Steps)
}
