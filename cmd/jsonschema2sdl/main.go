package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hanpama/jsonschema2sdl/internal/compiler"
	"github.com/hanpama/jsonschema2sdl/internal/config"
	"github.com/hanpama/jsonschema2sdl/internal/document"
	"github.com/hanpama/jsonschema2sdl/internal/eventbus"
	"github.com/hanpama/jsonschema2sdl/internal/events"
	"github.com/hanpama/jsonschema2sdl/internal/jsonschema"
	"github.com/hanpama/jsonschema2sdl/internal/naming"
	"github.com/hanpama/jsonschema2sdl/internal/otel"
	"github.com/hanpama/jsonschema2sdl/internal/server"
	"github.com/hanpama/jsonschema2sdl/internal/translate"
)

const rootUsage = `jsonschema2sdl — JSON Schema to GraphQL SDL translator

USAGE:
  jsonschema2sdl <command> [flags]

COMMANDS:
  translate        Translate one schema file into SDL
  compile          Translate every root of a project file into one SDL document
  serve            Run the HTTP translation service
  help             Show help for any command
`

const translateUsage = `translate FLAGS:
  -schema <file>             JSON or YAML schema file (required)
  -name <Name>               Root type name (default: derived from the file name)
  -direction <dir>           input or output (default: output)
  -ref-suffix <suffix>       Suffix for $ref type names (default: Input for input, none for output)
  -no-refs                   Fail on any $ref instead of deriving a type name
  -check <level>             none, syntax or schema (default: none)
  -validate                  Same as -check schema
  -out <file>                Write SDL to file (default: stdout)
  -v                         Log translation progress to stderr
`

const compileUsage = `compile FLAGS:
  -config <file>             Project file, YAML or JSON (required)
  -out <file>                Write SDL to file (default: the project's output, else stdout)
  -check <level>             none, syntax or schema (default: the project's check)
  -validate                  Same as -check schema
  -v                         Log translation progress to stderr
`

const serveUsage = `serve FLAGS:
  -addr <addr>               HTTP listen address (default: :8080)
  -pretty                    Pretty-print JSON responses
  -timeout <duration>        Per-request timeout, e.g. 10s; 0 disables it (default: 10s)
  -max-body <bytes>          Maximum request body size, 0 for unlimited (default: 1048576)
  -ref-suffix.input <s>      Suffix for $ref type names in input direction (default: Input)
  -ref-suffix.output <s>     Suffix for $ref type names in output direction (default: none)
  -otel.endpoint <addr>      OTLP collector endpoint
  -otel.service <name>       OpenTelemetry service name (default: jsonschema2sdl)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("jsonschema2sdl", flag.ContinueOnError)
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
	case "translate":
		return cmdTranslate(cmdArgs)
	case "compile":
		return cmdCompile(cmdArgs)
	case "serve":
		return cmdServe(cmdArgs)
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
	case "translate":
		fmt.Print(translateUsage)
	case "compile":
		fmt.Print(compileUsage)
	case "serve":
		fmt.Print(serveUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

// useVerboseLogging installs a bus that logs every translation.
func useVerboseLogging() {
	eventbus.Use(eventbus.New())
	eventbus.Subscribe(func(_ context.Context, e events.TranslateFinish) {
		if e.Err != nil {
			log.Printf("translate %s (%s): %v", e.RootName, e.Direction, e.Err)
			return
		}
		log.Printf("translate %s (%s): %s, %d definitions in %s", e.RootName, e.Direction, e.TypeName, e.Definitions, e.Duration)
	})
	eventbus.Subscribe(func(_ context.Context, e events.CompileFinish) {
		if e.Err == nil {
			log.Printf("compiled %d roots into %d definitions in %s", e.Roots, e.Definitions, e.Duration)
		}
	})
}

// rootNameFromFile derives a root type name such as UserProfile from
// schemas/user_profile.schema.json.
func rootNameFromFile(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return naming.PascalCase([]string{base})
}

func cmdTranslate(args []string) error {
	schemaFile := ""
	name := ""
	direction := ""
	refSuffix := ""
	noRefs := false
	validate := false
	check := ""
	outFile := ""
	verbose := false

	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "Schema file")
	fs.StringVar(&name, "name", name, "Root type name")
	fs.StringVar(&direction, "direction", direction, "input or output")
	fs.StringVar(&refSuffix, "ref-suffix", refSuffix, "Suffix for $ref type names")
	fs.BoolVar(&noRefs, "no-refs", noRefs, "Fail on any $ref")
	fs.StringVar(&check, "check", check, "none, syntax or schema")
	fs.BoolVar(&validate, "validate", validate, "Run GraphQL schema validation")
	fs.StringVar(&outFile, "out", outFile, "Write SDL to file")
	fs.BoolVar(&verbose, "v", verbose, "Log translation progress")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, translateUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, translateUsage)
		return fmt.Errorf("-schema is required")
	}
	d, err := translate.ParseDirection(direction)
	if err != nil {
		return err
	}
	level, err := document.ParseCheck(check)
	if err != nil {
		return err
	}
	if validate {
		level = document.CheckSchema
	}
	suffixSet := false
	fs.Visit(func(f *flag.Flag) { suffixSet = suffixSet || f.Name == "ref-suffix" })
	if !suffixSet {
		refSuffix = config.DefaultConfig().RefSuffix.For(d)
	}
	if name == "" {
		name = rootNameFromFile(schemaFile)
	}
	if verbose {
		useVerboseLogging()
	}

	node, err := jsonschema.LoadFile(schemaFile)
	if err != nil {
		return err
	}
	unit := compiler.Unit{Name: name, Schema: node, Direction: d}
	if !noRefs {
		unit.Resolver = naming.Resolver(refSuffix)
	}
	doc, err := compiler.Assemble(context.Background(), []compiler.Unit{unit}, level)
	if err != nil {
		return err
	}
	return writeOutput(outFile, doc.SDL)
}

func cmdCompile(args []string) error {
	configFile := ""
	outFile := ""
	validate := false
	check := ""
	verbose := false
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&configFile, "config", configFile, "Project file")
	fs.StringVar(&outFile, "out", outFile, "Write SDL to file")
	fs.StringVar(&check, "check", check, "none, syntax or schema")
	fs.BoolVar(&validate, "validate", validate, "Force GraphQL schema validation")
	fs.BoolVar(&verbose, "v", verbose, "Log translation progress")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileUsage)
		return err
	}
	if configFile == "" {
		fmt.Fprint(os.Stderr, compileUsage)
		return fmt.Errorf("-config is required")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if check != "" {
		if _, err := document.ParseCheck(check); err != nil {
			return err
		}
		cfg.ValidateSDL = false
		cfg.Check = check
	}
	if validate {
		cfg.ValidateSDL = true
	}
	if outFile == "" {
		outFile = cfg.OutputPath()
	}
	if verbose {
		useVerboseLogging()
	}
	doc, err := compiler.Compile(context.Background(), cfg)
	if err != nil {
		return err
	}
	return writeOutput(outFile, doc.SDL)
}

func writeOutput(outFile, sdl string) error {
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	if dir := filepath.Dir(outFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}

// serverOptions maps serve flags to handler options. A zero timeout turns the
// per-request default off.
func serverOptions(pretty bool, timeout time.Duration, maxBody int64, suffix config.RefSuffix) []server.Option {
	sopts := []server.Option{
		server.WithRefSuffix(suffix),
		server.WithMaxBodyBytes(maxBody),
		server.WithTimeout(timeout),
	}
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	return sopts
}

func cmdServe(args []string) error {
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	maxBody := int64(1 << 20)
	suffix := config.DefaultConfig().RefSuffix
	otelEndpoint := ""
	otelService := "jsonschema2sdl"

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&addr, "addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "timeout", timeout, "Per-request timeout")
	fs.Int64Var(&maxBody, "max-body", maxBody, "Maximum request body size")
	fs.StringVar(&suffix.Input, "ref-suffix.input", suffix.Input, "Suffix for input $ref type names")
	fs.StringVar(&suffix.Output, "ref-suffix.output", suffix.Output, "Suffix for output $ref type names")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(serverOptions(pretty, timeout, maxBody, suffix)...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Printf("translation service listening on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Printf("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
