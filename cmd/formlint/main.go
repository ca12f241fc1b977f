package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/radifan-bfi/jsonforms"
	"github.com/radifan-bfi/jsonforms/pkg/layout"
	"github.com/radifan-bfi/jsonforms/pkg/schema"
	"github.com/radifan-bfi/jsonforms/pkg/validation"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	schemaPath := flag.String("schema", "examples/profile/schema.json", "JSON Schema the layouts bind to")
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -schema schema.json [layouts...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint layout documents against a JSON Schema.\n"); err != nil {
			panic(err)
		}
		flag.PrintDefaults()
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{
			"examples/profile/layout.json",
			"examples/profile/layout.yaml",
			"examples/profile/conditional.json",
		}
	}

	ctx := context.Background()
	loader := jsonforms.NewLoader()

	schemaDoc, err := loader.Load(ctx, schema.SourceFromFile(*schemaPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "lint: %v\n", err)
		os.Exit(1)
	}
	validator, err := validation.CompileDocument(schemaDoc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lint: %v\n", err)
		os.Exit(1)
	}

	var violations []violation
	for _, path := range paths {
		violations = append(violations, lintFile(ctx, loader, validator, path)...)
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				if violations[i].location == violations[j].location {
					return violations[i].message < violations[j].message
				}
				return violations[i].location < violations[j].location
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

func lintFile(ctx context.Context, loader schema.Loader, resolver layout.Resolver, path string) []violation {
	doc, err := loader.Load(ctx, schema.SourceFromFile(path))
	if err != nil {
		return []violation{{file: path, location: "document", message: err.Error()}}
	}

	l, err := layout.ParseDocument(doc)
	if err != nil {
		return []violation{{file: path, location: "layout", message: err.Error()}}
	}

	err = l.Bind(resolver)
	if err == nil {
		return nil
	}

	var result []violation
	for _, e := range unwrapAll(err) {
		var bindErr *layout.BindingError
		if errors.As(e, &bindErr) {
			result = append(result, violation{
				file:     path,
				location: fmt.Sprintf("step %d > %s", bindErr.Step+1, bindErr.Pointer),
				message:  fmt.Sprintf("schema does not declare %q", bindErr.Path),
			})
			continue
		}
		result = append(result, violation{file: path, location: "bind", message: e.Error()})
	}
	return result
}

func unwrapAll(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
