package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/radifan-bfi/jsonforms/internal/logging"
	"github.com/radifan-bfi/jsonforms/pkg/orchestrator"
	"github.com/radifan-bfi/jsonforms/pkg/schema"
	"github.com/radifan-bfi/jsonforms/pkg/terminal"
	"github.com/radifan-bfi/jsonforms/pkg/validation"
)

func main() {
	layoutPath := flag.String("layout", "examples/profile/layout.json", "layout document path or URL")
	schemaPath := flag.String("schema", "examples/profile/schema.json", "JSON Schema document path or URL")
	format := flag.String("format", "json", "output format: json, form or pretty")
	output := flag.String("output", "", "output file (stdout if empty)")
	preset := flag.String("preset", "", "optional JSON preset applied to the layout")
	allowHTTP := flag.Bool("allow-http", false, "allow loading documents over HTTP")
	formats := flag.Bool("formats", false, "validate string formats such as email and date")
	check := flag.Bool("check", false, "load and bind the documents, then exit")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn or error")
	logJSON := flag.Bool("log-json", false, "emit JSON logs")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fatalf("%v", err)
	}
	logger := logging.New(logging.WithLevel(level), logging.WithJSON(*logJSON))

	outputFormat, ok := terminal.ParseOutputFormat(*format)
	if !ok {
		fatalf("unsupported output format %q", *format)
	}

	layoutSrc := schema.ParseSource(*layoutPath)
	schemaSrc := schema.ParseSource(*schemaPath)
	if layoutSrc == nil || schemaSrc == nil {
		fatalf("both -layout and -schema are required")
	}

	options := []orchestrator.Option{orchestrator.WithLogger(logger)}
	if *allowHTTP {
		options = append(options, orchestrator.WithLoaderOptions(schema.WithRemote(10*time.Second)))
	}
	if *formats {
		options = append(options, orchestrator.WithValidationOptions(validation.WithFormatValidation()))
	}
	if *preset != "" {
		transformer, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS("."), *preset)
		if err != nil {
			fatalf("%v", err)
		}
		options = append(options, orchestrator.WithLayoutTransformer(transformer))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c, err := orchestrator.New(options...).Open(ctx, orchestrator.Request{
		Layout: layoutSrc,
		Schema: schemaSrc,
	})
	if err != nil {
		fatalf("failed to open form: %v", err)
	}
	if *check {
		fmt.Printf("%s: %d steps, %d fields\n", layoutSrc.Location(), c.StepCount(), len(c.Layout().Paths()))
		return
	}

	wizard := terminal.New(
		terminal.WithPromptDriver(terminal.NewSurveyDriver(os.Stdout)),
		terminal.WithOutputFormat(outputFormat),
		terminal.WithTheme(terminal.Theme{StepPrefix: "== ", ErrorPrefix: "✗ "}),
		terminal.WithLogger(logger),
	)

	payload, err := wizard.Run(ctx, c)
	if err != nil {
		if errors.Is(err, terminal.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(130)
		}
		fatalf("wizard failed: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			fatalf("failed to write output: %v", err)
		}
		fmt.Printf("Submission written to %s (%s)\n", *output, wizard.ContentType())
		return
	}
	fmt.Println(string(payload))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
