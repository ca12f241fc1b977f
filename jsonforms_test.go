package jsonforms_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/radifan-bfi/jsonforms"
	"github.com/radifan-bfi/jsonforms/pkg/fieldpath"
	"github.com/radifan-bfi/jsonforms/pkg/orchestrator"
	"github.com/radifan-bfi/jsonforms/pkg/schema"
	"github.com/radifan-bfi/jsonforms/pkg/testsupport"
)

func TestNewLoaderReadsFromFS(t *testing.T) {
	fsys := fstest.MapFS{"schema.json": {Data: testsupport.ProfileSchema()}}
	loader := jsonforms.NewLoader(schema.WithFiles(fsys))

	doc, err := loader.Load(context.Background(), schema.SourceFromFS("schema.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !doc.LooksLikeJSON() {
		t.Fatalf("expected JSON payload")
	}
}

func TestOpenRunsWholeForm(t *testing.T) {
	fsys := fstest.MapFS{
		"schema.json": {Data: testsupport.ProfileSchema()},
		"layout.json": {Data: testsupport.ProfileLayout()},
	}

	c, err := jsonforms.Open(testsupport.Context(),
		schema.SourceFromFS("layout.json"),
		schema.SourceFromFS("schema.json"),
		orchestrator.WithLoaderOptions(schema.WithFiles(fsys)),
	)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	for path, value := range map[string]any{
		"firstName":          "Ada",
		"lastName":           "Lovelace",
		"phone":              "+15551234567",
		"address.country":    "UK",
		"address.city":       "London",
		"address.street":     "12 St James's Square",
		"address.postalCode": "10001",
	} {
		if err := c.SetValue(fieldpath.PlainPath(path), value); err != nil {
			t.Fatalf("set %s: %v", path, err)
		}
	}

	if !c.Next() {
		t.Fatalf("expected first step to validate, errors: %v", c.Errors())
	}
	ok, err := c.Submit()
	if err != nil || !ok {
		t.Fatalf("submit: ok=%v err=%v errors=%v", ok, err, c.Errors())
	}
	sub, _ := c.Submission()
	testsupport.AssertEqual(t, testsupport.ValidProfile(), sub.Data)
}

func TestOpenDocuments(t *testing.T) {
	layoutDoc := schema.MustNewDocument(schema.SourceFromFS("layout.yaml"), testsupport.ProfileLayoutYAML())
	schemaDoc := schema.MustNewDocument(schema.SourceFromFS("schema.json"), testsupport.ProfileSchema())

	c, err := jsonforms.OpenDocuments(context.Background(), layoutDoc, schemaDoc)
	if err != nil {
		t.Fatalf("open documents: %v", err)
	}
	if c.StepCount() != 2 {
		t.Fatalf("expected 2 steps, got %d", c.StepCount())
	}
}
