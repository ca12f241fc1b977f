// Package jsonforms turns a layout document and a JSON Schema into a
// multi-step form controller with step-scoped validation.
package jsonforms

import (
	"context"

	"github.com/radifan-bfi/jsonforms/pkg/form"
	"github.com/radifan-bfi/jsonforms/pkg/orchestrator"
	"github.com/radifan-bfi/jsonforms/pkg/schema"
)

// Request describes where the layout and schema documents come from.
type Request = orchestrator.Request

// Transformer patches a parsed layout before it is bound to the schema.
type Transformer = orchestrator.Transformer

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Open loads the layout and schema, binds them and returns a controller on
// the first step. It is the simplest entry point for callers that just want a
// running form.
func Open(ctx context.Context, layoutSrc, schemaSrc schema.Source, options ...orchestrator.Option) (*form.Controller, error) {
	return orchestrator.New(options...).Open(ctx, orchestrator.Request{
		Layout: layoutSrc,
		Schema: schemaSrc,
	})
}

// OpenDocuments is Open for documents the caller has already loaded.
func OpenDocuments(ctx context.Context, layoutDoc, schemaDoc schema.Document, options ...orchestrator.Option) (*form.Controller, error) {
	return orchestrator.New(options...).Open(ctx, orchestrator.Request{
		LayoutDocument: &layoutDoc,
		SchemaDocument: &schemaDoc,
	})
}

// WithLayoutTransformer forwards a layout transformer to the orchestrator.
func WithLayoutTransformer(t Transformer) orchestrator.Option {
	return orchestrator.WithLayoutTransformer(t)
}
