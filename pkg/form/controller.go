// Package form drives a multi-step form: it owns the data document, the error
// map and the current step, and confines validation feedback to the fields of
// the step being shown.
//
// The error map only ever holds entries for the current step. Field edits
// replace the current step's entries, navigating back clears the entries of
// the step being left, and explicit validation replaces the whole map.
//
// Fields hidden by their visibility conditions are not owned by their step
// while hidden, so their errors are neither shown nor block navigation.
package form

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
	"github.com/radifan-bfi/jsonforms/pkg/layout"
	"github.com/radifan-bfi/jsonforms/pkg/scope"
	"github.com/radifan-bfi/jsonforms/pkg/validation"
	"github.com/radifan-bfi/jsonforms/pkg/visibility"
)

// Submission is the final document handed to the caller.
type Submission struct {
	ResponseID string         `json:"responseId"`
	Data       map[string]any `json:"data"`
}

// Controller is safe for concurrent use. Every operation runs to completion
// under a single lock.
type Controller struct {
	mu sync.Mutex

	layout    *layout.Layout
	validator *validation.Validator
	logger    *slog.Logger
	newID     func() string
	extras    map[string]any

	data       map[string]any
	errors     map[fieldpath.PlainPath]string
	step       int
	submitted  bool
	submission *Submission
	responseID string
}

// New binds l to v and returns a controller positioned on the first step.
// Fields that do not resolve in the schema are reported as a
// *layout.BindingError.
func New(l *layout.Layout, v *validation.Validator, opts ...Option) (*Controller, error) {
	if l == nil {
		return nil, errors.New("form: layout is required")
	}
	if v == nil {
		return nil, errors.New("form: validator is required")
	}
	if l.StepCount() == 0 {
		return nil, errors.New("form: layout has no steps")
	}
	if err := l.Bind(v); err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}

	c := &Controller{
		layout:    l,
		validator: v,
		logger:    discardLogger(),
		newID:     newResponseID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.reset()
	return c, nil
}

func (c *Controller) reset() {
	c.data = make(map[string]any)
	c.errors = make(map[fieldpath.PlainPath]string)
	c.step = 0
	c.submitted = false
	c.submission = nil
	c.responseID = c.newID()
}

// SetField writes value at the data location named by pointer, revalidates
// the whole document and refreshes the current step's errors. A nil value
// removes the field from the document.
func (c *Controller) SetField(pointer fieldpath.SchemaPointer, value any) error {
	return c.SetValue(fieldpath.ToPlainPath(pointer), value)
}

// SetValue is SetField addressed by plain path.
func (c *Controller) SetValue(path fieldpath.PlainPath, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitted {
		return ErrSubmitted
	}
	if path == "" || !c.validator.Resolve(path) {
		return fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	normalized, err := normalizeValue(value)
	if err != nil {
		return err
	}

	if normalized == nil {
		deletePath(c.data, path.String())
	} else if err := setPath(c.data, path.String(), normalized); err != nil {
		return err
	}

	result := c.validator.Validate(c.data)
	all := scope.NewPaths(c.layout.StepPaths(c.step)...)
	for key := range c.errors {
		if scope.InScope(key, all) {
			delete(c.errors, key)
		}
	}
	for key, msg := range scope.Filter(result.Errors, c.visiblePaths(c.step)) {
		c.errors[key] = msg
	}
	return nil
}

// ValidateCurrentStep replaces the error map with the current step's errors
// and reports whether there are none.
func (c *Controller) ValidateCurrentStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

func (c *Controller) validateLocked() bool {
	result := c.validator.Validate(c.data)
	c.errors = scope.Filter(result.Errors, c.visiblePaths(c.step))
	return len(c.errors) == 0
}

// Next validates the current step and advances when it is valid and not the
// last step. It reports whether the step changed.
func (c *Controller) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitted {
		return false
	}
	if !c.validateLocked() {
		c.logger.Debug("form: step has errors", "step", c.step, "errors", len(c.errors))
		return false
	}
	if c.step >= c.layout.StepCount()-1 {
		return false
	}
	c.step++
	c.logger.Debug("form: advanced", "step", c.step)
	return true
}

// Previous moves back one step and clears the errors of the step being left.
// It reports whether the step changed.
func (c *Controller) Previous() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitted || c.step == 0 {
		return false
	}
	leaving := scope.NewPaths(c.layout.StepPaths(c.step)...)
	for key := range c.errors {
		if scope.InScope(key, leaving) {
			delete(c.errors, key)
		}
	}
	c.step--
	c.logger.Debug("form: went back", "step", c.step)
	return true
}

// Submit validates the last step and, when valid, freezes the document as a
// Submission. It reports whether the form was submitted. Submitting away from
// the last step returns ErrNotTerminalStep.
func (c *Controller) Submit() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitted {
		return false, ErrSubmitted
	}
	if c.step != c.layout.StepCount()-1 {
		return false, ErrNotTerminalStep
	}
	if !c.validateLocked() {
		c.logger.Debug("form: submit rejected", "errors", len(c.errors))
		return false, nil
	}

	c.submitted = true
	c.submission = &Submission{ResponseID: c.responseID, Data: cloneData(c.data)}
	c.logger.Info("form: submitted", "response_id", c.responseID)
	return true, nil
}

// Restart discards the document and errors and starts a new response on the
// first step.
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous := c.responseID
	c.reset()
	c.logger.Debug("form: restarted", "previous_response_id", previous, "response_id", c.responseID)
}

// visiblePaths returns the paths of step i's fields that are currently shown.
func (c *Controller) visiblePaths(i int) scope.Paths {
	ctx := visibility.Context{Values: c.data, Extras: c.extras}
	var paths []fieldpath.PlainPath
	for _, f := range c.layout.StepFields(i) {
		visible, err := f.Visible(ctx)
		if err != nil {
			c.logger.Warn("form: visibility rule failed", "field", f.Path.String(), "error", err)
			visible = true
		}
		if visible {
			paths = append(paths, f.Path)
		}
	}
	return scope.NewPaths(paths...)
}

// LogValue implements slog.LogValuer.
func (c *Controller) LogValue() slog.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slog.GroupValue(
		slog.String("response_id", c.responseID),
		slog.Int("step", c.step),
		slog.Int("errors", len(c.errors)),
		slog.Bool("submitted", c.submitted),
	)
}
