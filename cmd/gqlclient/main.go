package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hanpama/gqlclient/client"
	"github.com/hanpama/gqlclient/internal/codegen"
	"github.com/hanpama/gqlclient/internal/eventbus"
	"github.com/hanpama/gqlclient/internal/events"
	"github.com/hanpama/gqlclient/internal/format"
	"github.com/hanpama/gqlclient/internal/introspection"
	"github.com/hanpama/gqlclient/internal/otel"
	"github.com/hanpama/gqlclient/internal/schema"
)

const rootUsage = `gqlclient: typed GraphQL client generator

USAGE:
  gqlclient <command> [flags]

COMMANDS:
  generate         Generate typed selection accessors from a schema
  compile-sdl      Load, validate and print a schema as SDL
  help             Show help for any command
`

const generateUsage = `generate FLAGS:
  -schema <path|url>        SDL file, introspection JSON file or GraphQL endpoint (required)
  -out <file>               Write generated Go source to file (default: stdout)
  -package <name>           Package name (default: name of the -out directory)
  -fmt.config <file>        goimports settings (default: .gqlclient-fmt.yaml if present)
  -header "Name: value"     HTTP header sent when introspecting. Repeatable
  -timeout <duration>       Introspection timeout, e.g. 10s (default: 30s)
  -otel.endpoint <addr>     OTLP collector endpoint
  -otel.service <name>      OpenTelemetry service name (default: gqlclient)
`

const compileSDLUsage = `compile-sdl FLAGS:
  -schema <path|url>        SDL file, introspection JSON file or GraphQL endpoint (required)
  -out <file>               Write SDL to file (default: stdout)
  -header "Name: value"     HTTP header sent when introspecting. Repeatable
  -timeout <duration>       Introspection timeout, e.g. 10s (default: 30s)
  (Validation always runs; exits non-zero on errors)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("gqlclient", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "generate":
		return cmdGenerate(cmdArgs)
	case "compile-sdl":
		return cmdCompileSDL(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "generate":
		fmt.Print(generateUsage)
	case "compile-sdl":
		fmt.Print(compileSDLUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// source says where a schema comes from.
type source struct {
	location string
	headers  stringListFlag
	timeout  time.Duration
}

func (src *source) register(fs *flag.FlagSet) {
	fs.StringVar(&src.location, "schema", src.location, "SDL file, introspection JSON file or endpoint")
	fs.Var(&src.headers, "header", "HTTP header sent when introspecting")
	fs.DurationVar(&src.timeout, "timeout", src.timeout, "Introspection timeout")
}

func (src *source) remote() bool {
	return strings.HasPrefix(src.location, "http://") || strings.HasPrefix(src.location, "https://")
}

// name is the schema name recorded in generated headers.
func (src *source) name() string {
	if src.remote() {
		return src.location
	}
	return filepath.Base(src.location)
}

func (src *source) load(ctx context.Context) (*schema.Schema, error) {
	loc := src.location
	if src.remote() {
		opts := []client.Option{client.WithTimeout(src.timeout)}
		for _, h := range src.headers {
			name, value, ok := strings.Cut(h, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid header %q", h)
			}
			opts = append(opts, client.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value)))
		}
		return introspection.Fetch(ctx, client.New(opts...), loc)
	}

	data, err := os.ReadFile(loc)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(loc) == ".json" {
		return introspection.FromJSON(data)
	}
	return schema.BuildFromSDL(loc, string(data))
}

func writeOutput(outFile string, data []byte) error {
	if outFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(outFile, data, 0644)
}

// packageFor derives a package name from the directory holding outFile.
func packageFor(outFile string) (string, error) {
	abs, err := filepath.Abs(outFile)
	if err != nil {
		return "", err
	}
	name := strings.ToLower(filepath.Base(filepath.Dir(abs)))
	return strings.NewReplacer("-", "_", ".", "_").Replace(name), nil
}

func cmdGenerate(args []string) error {
	src := &source{timeout: 30 * time.Second}
	outFile := ""
	pkg := ""
	fmtConfig := ""
	otelEndpoint := ""
	otelService := "gqlclient"

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	src.register(fs)
	fs.StringVar(&outFile, "out", outFile, "Write generated Go source to file")
	fs.StringVar(&pkg, "package", pkg, "Package name")
	fs.StringVar(&fmtConfig, "fmt.config", fmtConfig, "goimports settings")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, generateUsage)
		return err
	}
	if src.location == "" {
		fmt.Fprint(os.Stderr, generateUsage)
		return fmt.Errorf("-schema is required")
	}
	if pkg == "" {
		if outFile == "" {
			fmt.Fprint(os.Stderr, generateUsage)
			return fmt.Errorf("-package is required when writing to stdout")
		}
		var err error
		if pkg, err = packageFor(outFile); err != nil {
			return err
		}
	}
	cfg, err := format.LoadConfig(fmtConfig)
	if err != nil {
		return err
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	ctx := context.Background()
	start := time.Now()
	eventbus.Publish(ctx, events.GenerateStart{Schema: src.location, Package: pkg})
	out, types, err := generate(ctx, src, pkg, outFile, cfg)
	eventbus.Publish(ctx, events.GenerateFinish{
		Schema:   src.location,
		Package:  pkg,
		Types:    types,
		Bytes:    len(out),
		Err:      err,
		Duration: time.Since(start),
	})
	if err != nil {
		return err
	}
	if err := writeOutput(outFile, out); err != nil {
		return err
	}
	if outFile != "" {
		log.Printf("wrote %s (%d types, package %s)", outFile, types, pkg)
	}
	return nil
}

func generate(ctx context.Context, src *source, pkg, outFile string, cfg format.Config) ([]byte, int, error) {
	sch, err := src.load(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load schema: %w", err)
	}
	code, err := codegen.Generate(sch, codegen.Options{Package: pkg, Source: src.name()})
	if err != nil {
		return nil, 0, fmt.Errorf("generate: %w", err)
	}
	name := outFile
	if name == "" {
		name = pkg + "_gen.go"
	}
	code, err = format.Source(name, code, cfg)
	if err != nil {
		return nil, 0, err
	}
	return code, len(sch.Types), nil
}

func cmdCompileSDL(args []string) error {
	src := &source{timeout: 30 * time.Second}
	outFile := ""
	fs := flag.NewFlagSet("compile-sdl", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	src.register(fs)
	fs.StringVar(&outFile, "out", outFile, "Write SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileSDLUsage)
		return err
	}
	if src.location == "" {
		fmt.Fprint(os.Stderr, compileSDLUsage)
		return fmt.Errorf("-schema is required")
	}

	sch, err := src.load(context.Background())
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	if err := sch.Validate(); err != nil {
		return err
	}
	return writeOutput(outFile, []byte(schema.Render(sch)))
}
