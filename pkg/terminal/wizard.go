// Package terminal runs a form controller as an interactive terminal wizard.
// Each step's visible fields are prompted in layout order, then the user
// chooses to continue, go back or submit.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
	"github.com/radifan-bfi/jsonforms/pkg/form"
	"github.com/radifan-bfi/jsonforms/pkg/layout"
)

// Navigation labels offered after a step's fields.
const (
	ActionNext   = "Next"
	ActionBack   = "Back"
	ActionSubmit = "Submit"
)

// Wizard prompts for a form's fields step by step.
type Wizard struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	logger            *slog.Logger
}

// New constructs a wizard with defaults (survey driver on stdout, JSON output).
func New(options ...Option) *Wizard {
	w := &Wizard{
		driver:       NewSurveyDriver(os.Stdout),
		outputFormat: OutputFormatJSON,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w
}

// ContentType reports the serialization format used by Run.
func (w *Wizard) ContentType() string {
	switch w.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Run drives c until the form is submitted and returns the serialized
// submission.
func (w *Wizard) Run(ctx context.Context, c *form.Controller) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("terminal: context is required")
	}
	if c == nil {
		return nil, errors.New("terminal: controller is required")
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		view := c.View()
		w.info(ctx, fmt.Sprintf("%sStep %d of %d: %s", w.theme.StepPrefix, view.Index+1, view.Count, plain(view.Title)))
		if err := w.promptStep(ctx, c); err != nil {
			return nil, err
		}

		action, err := w.chooseAction(ctx, c.View())
		if err != nil {
			return nil, err
		}

		switch action {
		case ActionBack:
			c.Previous()
		case ActionNext:
			if !c.Next() {
				w.reportErrors(ctx, c)
			}
		case ActionSubmit:
			ok, err := c.Submit()
			if err != nil {
				return nil, err
			}
			if !ok {
				w.reportErrors(ctx, c)
				continue
			}
			sub, _ := c.Submission()
			w.logger.Info("terminal: form submitted", "response_id", sub.ResponseID)
			return w.serialize(sub.Data)
		}
	}
}

func (w *Wizard) chooseAction(ctx context.Context, view form.StepView) (string, error) {
	options := []string{ActionNext}
	if view.Last {
		options = []string{ActionSubmit}
	}
	if !view.First {
		options = append(options, ActionBack)
	}

	for {
		idx, err := w.driver.Select(ctx, SelectConfig{Message: "Continue", Options: options})
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(options) {
			return options[idx], nil
		}
		w.info(ctx, w.theme.ErrorPrefix+"Invalid selection")
	}
}

// promptStep prompts every visible field of the current step once. The view
// is refreshed after each answer so fields revealed or hidden by it are
// picked up.
func (w *Wizard) promptStep(ctx context.Context, c *form.Controller) error {
	done := make(map[fieldpath.PlainPath]bool)
	for {
		var next *form.FieldView
		for _, fv := range c.View().Fields {
			if !done[fv.Field.Path] {
				next = &fv
				break
			}
		}
		if next == nil {
			return nil
		}
		done[next.Field.Path] = true
		if err := w.promptField(ctx, c, *next); err != nil {
			return err
		}
	}
}

// promptField asks for a value until the field has no error of its own.
func (w *Wizard) promptField(ctx context.Context, c *form.Controller, fv form.FieldView) error {
	f := fv.Field
	if f.Input.Disabled {
		if fv.Set {
			w.info(ctx, fmt.Sprintf("%s%s: %v", w.theme.InfoPrefix, plain(f.Label()), fv.Value))
		}
		return nil
	}

	current := fv.Value
	set := fv.Set
	for {
		value, err := w.ask(ctx, f, fv.Options, current, set)
		if err != nil {
			return err
		}
		if err := c.SetValue(f.Path, value); err != nil {
			return err
		}
		msg := c.Error(f.Path)
		if msg == "" {
			return nil
		}
		w.info(ctx, fmt.Sprintf("%s%s: %s", w.theme.ErrorPrefix, plain(f.Label()), msg))
		current, set = c.Value(f.Path)
	}
}

// ask returns the typed value for a field. A nil value clears the field.
func (w *Wizard) ask(ctx context.Context, f *layout.Field, options []string, current any, set bool) (any, error) {
	label := plain(f.Label())
	help := plain(f.Input.Placeholder)
	def := defaultString(f, current, set)

	switch f.Kind {
	case layout.InputSelect:
		if len(options) > 0 {
			for {
				idx, err := w.driver.Select(ctx, SelectConfig{
					Message:      label,
					Options:      options,
					DefaultIndex: indexOf(options, def),
					Help:         help,
				})
				if err != nil {
					return nil, err
				}
				if idx >= 0 && idx < len(options) {
					return options[idx], nil
				}
				w.info(ctx, fmt.Sprintf("%sInvalid %s selection", w.theme.ErrorPrefix, f.Path))
			}
		}
	case layout.InputPassword:
		input, err := w.driver.Password(ctx, InputConfig{Message: label, Default: def, Help: help})
		if err != nil {
			return nil, err
		}
		return textValue(input), nil
	case layout.InputNumber:
		for {
			input, err := w.driver.Input(ctx, InputConfig{Message: label, Default: def, Help: help})
			if err != nil {
				return nil, err
			}
			trimmed := strings.TrimSpace(input)
			if trimmed == "" {
				return nil, nil
			}
			n, err := strconv.ParseFloat(trimmed, 64)
			if err == nil {
				return n, nil
			}
			w.info(ctx, fmt.Sprintf("%s%s: must be a number", w.theme.ErrorPrefix, label))
		}
	}

	input, err := w.driver.Input(ctx, InputConfig{Message: label, Default: def, Help: help})
	if err != nil {
		return nil, err
	}
	return textValue(input), nil
}

func textValue(input string) any {
	if input == "" {
		return nil
	}
	return input
}

func defaultString(f *layout.Field, current any, set bool) string {
	value := current
	if !set {
		value = f.Input.Default
	}
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (w *Wizard) reportErrors(ctx context.Context, c *form.Controller) {
	errs := c.Errors()
	paths := make([]fieldpath.PlainPath, 0, len(errs))
	for path := range errs {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	for _, path := range paths {
		label := path.String()
		if f, _, ok := c.Layout().Field(path); ok {
			label = plain(f.Label())
		}
		w.info(ctx, fmt.Sprintf("%s%s: %s", w.theme.ErrorPrefix, label, errs[path]))
	}
}

// plain decodes the entities layout text keeps for HTML. A terminal does not
// interpret markup.
func plain(text string) string {
	return html.UnescapeString(text)
}

func (w *Wizard) info(ctx context.Context, msg string) {
	if err := w.driver.Info(ctx, msg); err != nil {
		w.logger.Debug("terminal: info message dropped", "error", err)
	}
}
