package form

import (
	"strings"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
	"github.com/radifan-bfi/jsonforms/pkg/layout"
	"github.com/radifan-bfi/jsonforms/pkg/visibility"
)

// Snapshot is an immutable copy of the form state.
type Snapshot struct {
	ResponseID string                         `json:"responseId"`
	Step       int                            `json:"step"`
	StepCount  int                            `json:"stepCount"`
	Data       map[string]any                 `json:"data"`
	Errors     map[fieldpath.PlainPath]string `json:"errors"`
	Submitted  bool                           `json:"submitted"`
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		ResponseID: c.responseID,
		Step:       c.step,
		StepCount:  c.layout.StepCount(),
		Data:       cloneData(c.data),
		Errors:     c.copyErrors(),
		Submitted:  c.submitted,
	}
}

func (c *Controller) copyErrors() map[fieldpath.PlainPath]string {
	out := make(map[fieldpath.PlainPath]string, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Layout returns the layout the controller was built with.
func (c *Controller) Layout() *layout.Layout {
	return c.layout
}

// Value reads the data at path.
func (c *Controller) Value(path fieldpath.PlainPath) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := getPath(c.data, path.String())
	return deepCopy(v), ok
}

// Data returns a copy of the document.
func (c *Controller) Data() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneData(c.data)
}

// Errors returns a copy of the error map.
func (c *Controller) Errors() map[fieldpath.PlainPath]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyErrors()
}

// Error returns the message recorded for path, if any.
func (c *Controller) Error(path fieldpath.PlainPath) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors[path]
}

// Step returns the current step index.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// StepCount returns the number of steps.
func (c *Controller) StepCount() int {
	return c.layout.StepCount()
}

// Submitted reports whether the current response was submitted.
func (c *Controller) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

// Submission returns the submitted document.
func (c *Controller) Submission() (Submission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submission == nil {
		return Submission{}, false
	}
	return Submission{ResponseID: c.submission.ResponseID, Data: cloneData(c.submission.Data)}, true
}

// ResponseID identifies the current response. It changes on Restart.
func (c *Controller) ResponseID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.responseID
}

// StepView is what a renderer needs to draw the current step.
type StepView struct {
	Index  int
	Count  int
	Title  string
	First  bool
	Last   bool
	Fields []FieldView
	// Unattached holds errors keyed by a path no visible field owns, such as
	// a missing parent object.
	Unattached map[fieldpath.PlainPath]string
}

// FieldView pairs a visible field with its value and error.
type FieldView struct {
	Field    *layout.Field
	Value    any
	Set      bool
	Error    string
	Required bool
	Options  []string
}

// View returns the current step with its visible fields in layout order.
func (c *Controller) View() StepView {
	c.mu.Lock()
	defer c.mu.Unlock()

	step := c.layout.Step(c.step)
	view := StepView{
		Index: c.step,
		Count: c.layout.StepCount(),
		Title: step.Title,
		First: c.step == 0,
		Last:  c.step == c.layout.StepCount()-1,
	}

	ctx := visibility.Context{Values: c.data, Extras: c.extras}
	for _, f := range layout.Fields(step) {
		if visible, err := f.Visible(ctx); err == nil && !visible {
			continue
		}
		value, set := getPath(c.data, f.Path.String())
		prop, _ := c.validator.Property(f.Path)
		view.Fields = append(view.Fields, FieldView{
			Field:    f,
			Value:    deepCopy(value),
			Set:      set,
			Error:    c.errors[f.Path],
			Required: prop.Required,
			Options:  c.options(f, prop.Enum),
		})
	}

	for path, msg := range c.errors {
		attached := false
		for _, fv := range view.Fields {
			if fv.Field.Path == path {
				attached = true
				break
			}
		}
		if !attached {
			if view.Unattached == nil {
				view.Unattached = make(map[fieldpath.PlainPath]string)
			}
			view.Unattached[path] = msg
		}
	}
	return view
}

func (c *Controller) options(f *layout.Field, enum []any) []string {
	if f.Kind != layout.InputSelect {
		return nil
	}
	if len(f.Input.Options) > 0 {
		return append([]string(nil), f.Input.Options...)
	}
	out := make([]string, 0, len(enum))
	for _, v := range enum {
		if s := strings.TrimSpace(visibility.String(v)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
