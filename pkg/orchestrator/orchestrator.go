package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	internalLoader "github.com/radifan-bfi/jsonforms/internal/loader"
	"github.com/radifan-bfi/jsonforms/pkg/form"
	"github.com/radifan-bfi/jsonforms/pkg/layout"
	"github.com/radifan-bfi/jsonforms/pkg/schema"
	"github.com/radifan-bfi/jsonforms/pkg/validation"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithLoaderOptions configures the built-in loader. Ignored when WithLoader
// supplies a loader.
func WithLoaderOptions(options ...schema.LoaderOption) Option {
	return func(o *Orchestrator) {
		o.loaderOptions = append(o.loaderOptions, options...)
	}
}

// WithValidationOptions forwards options to the schema compiler.
func WithValidationOptions(options ...validation.Option) Option {
	return func(o *Orchestrator) {
		o.validationOptions = append(o.validationOptions, options...)
	}
}

// WithFormOptions forwards options to every controller Open builds.
func WithFormOptions(options ...form.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, options...)
	}
}

// WithLayoutTransformer registers a Transformer that can patch the parsed
// layout before it is bound to the schema.
func WithLayoutTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLogger sets the logger used by the orchestrator and, unless a form
// option overrides it, by the controllers it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator loads a layout and its JSON Schema and turns them into a form
// controller. Missing dependencies are initialised with the built-in
// implementations.
type Orchestrator struct {
	loader            schema.Loader
	loaderOptions     []schema.LoaderOption
	validationOptions []validation.Option
	formOptions       []form.Option
	transformer       Transformer
	logger            *slog.Logger
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.loader == nil {
		o.loader = internalLoader.New(schema.NewLoaderConfig(o.loaderOptions...))
	}
	return o
}

// Request describes where the layout and schema documents come from. Each
// document may be supplied pre-loaded, bypassing the loader.
type Request struct {
	Layout         schema.Source
	LayoutDocument *schema.Document

	Schema         schema.Source
	SchemaDocument *schema.Document
}

// Result bundles the parsed artefacts alongside the controller.
type Result struct {
	Layout     *layout.Layout
	Validator  *validation.Validator
	Controller *form.Controller
}

// Open executes the load → parse → compile → bind sequence and returns a
// controller positioned on the first step.
func (o *Orchestrator) Open(ctx context.Context, req Request) (*form.Controller, error) {
	res, err := o.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Controller, nil
}

// Build is Open but also returns the parsed layout and compiled validator.
func (o *Orchestrator) Build(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	layoutDoc, err := o.resolveDocument(ctx, "layout", req.Layout, req.LayoutDocument)
	if err != nil {
		return Result{}, err
	}
	schemaDoc, err := o.resolveDocument(ctx, "schema", req.Schema, req.SchemaDocument)
	if err != nil {
		return Result{}, err
	}

	l, err := layout.ParseDocument(layoutDoc)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: parse layout: %w", err)
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, l); err != nil {
			return Result{}, fmt.Errorf("orchestrator: transform layout: %w", err)
		}
	}

	v, err := validation.CompileDocument(schemaDoc, o.validationOptions...)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: compile schema: %w", err)
	}

	opts := append([]form.Option{form.WithLogger(o.logger)}, o.formOptions...)
	c, err := form.New(l, v, opts...)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w", err)
	}

	o.logger.Debug("orchestrator: form opened",
		"layout", layoutDoc.Location(),
		"schema", schemaDoc.Location(),
		"steps", l.StepCount(),
		"fields", len(l.Paths()),
	)
	return Result{Layout: l, Validator: v, Controller: c}, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, name string, src schema.Source, doc *schema.Document) (schema.Document, error) {
	if doc != nil {
		return *doc, nil
	}
	if src == nil {
		return schema.Document{}, fmt.Errorf("orchestrator: %s source or document is required", name)
	}
	loaded, err := o.loader.Load(ctx, src)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load %s: %w", name, err)
	}
	return loaded, nil
}
