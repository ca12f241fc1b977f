package layout

import (
	"errors"
	"fmt"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
)

// Resolver reports whether a data path is declared by the data schema.
// *validation.Validator satisfies it.
type Resolver interface {
	Resolve(path fieldpath.PlainPath) bool
}

// BindingError reports a field whose path the schema does not declare.
type BindingError struct {
	Step    int
	Pointer fieldpath.SchemaPointer
	Path    fieldpath.PlainPath
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("layout: step %d: field %q (%s) does not resolve in the data schema", e.Step, e.Path, e.Pointer)
}

// Bind checks every field against resolver. All unresolved fields are
// reported, joined into one error.
func (l *Layout) Bind(resolver Resolver) error {
	if l == nil {
		return errors.New("layout: nil layout")
	}
	if resolver == nil {
		return errors.New("layout: resolver is required")
	}
	var errs []error
	for idx, step := range l.Steps {
		for _, f := range Fields(step) {
			if !resolver.Resolve(f.Path) {
				errs = append(errs, &BindingError{Step: idx, Pointer: f.Pointer, Path: f.Path})
			}
		}
	}
	return errors.Join(errs...)
}
