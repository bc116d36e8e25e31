// Package cli implements the siko command.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/siko/internal/artifact"
	"github.com/funvibe/siko/internal/backend"
	"github.com/funvibe/siko/internal/compiler"
	"github.com/funvibe/siko/internal/config"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/layout"
	"github.com/funvibe/siko/internal/lexer"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/parser"
	"github.com/funvibe/siko/internal/pipeline"
	"github.com/funvibe/siko/internal/prettyprinter"
)

const usage = `usage: siko <command> [flags] [files...]

commands:
  run      compile and evaluate the entry function
  emit     compile and write one Go file per module
  check    compile and report diagnostics only
  parse    parse each file and print it back in canonical form
  version  print the version

Without files, sources come from siko.yaml.
`

// options collects the flags shared by every command.
type options struct {
	configPath string
	entry      string
	outDir     string
	sqlite     string
	color      string
	sequential bool
	noStd      bool
	verbose    bool
}

// Run executes the command line and exits with its status.
func Run() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()
	os.Exit(Main(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Main runs one command and returns the process exit status.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "-v", "-version", "--version", "version":
		fmt.Fprintln(stdout, "siko "+config.Version)
		return 0
	case "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	case "run", "emit", "check", "parse":
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	var opts options
	fs := flag.NewFlagSet("siko "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "project file (default: nearest siko.yaml)")
	fs.StringVar(&opts.entry, "entry", "", "qualified entry function, e.g. Main.main")
	fs.StringVar(&opts.outDir, "o", "", "output directory for emit")
	fs.StringVar(&opts.sqlite, "sqlite", "", "also record emitted units in this database")
	fs.StringVar(&opts.color, "color", "", "diagnostic colours: auto, always or never")
	fs.BoolVar(&opts.sequential, "sequential", false, "check modules one at a time")
	fs.BoolVar(&opts.noStd, "nostd", false, "leave out the standard library")
	fs.BoolVar(&opts.verbose, "v", false, "log compilation progress")
	if err := fs.Parse(rest); err != nil {
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	files := fs.Args()
	if len(files) == 0 {
		if files, err = cfg.SourceFiles(); err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return 1
		}
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "Error: no source files")
		return 1
	}

	em := diagnostics.NewEmitter(stderr, cfg.Diagnostics.Color)
	if cmd == "parse" {
		return parseFiles(files, stdout, stderr, em)
	}
	return build(ctx, cmd, cfg, opts, files, stdout, stderr, em)
}

// loadConfig reads the project file and applies command-line overrides.
func loadConfig(opts options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		found, err := config.FindConfig(".")
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.entry != "" {
		dot := strings.LastIndex(opts.entry, ".")
		if dot <= 0 || dot == len(opts.entry)-1 {
			return nil, fmt.Errorf("entry %q must be a qualified function name like Main.main", opts.entry)
		}
		cfg.Entry = opts.entry
	}
	// Paths given on the command line are relative to the working
	// directory, not to the project file.
	if opts.outDir != "" {
		dir, err := filepath.Abs(opts.outDir)
		if err != nil {
			return nil, err
		}
		cfg.Emit.Dir = dir
	}
	if opts.sqlite != "" {
		db, err := filepath.Abs(opts.sqlite)
		if err != nil {
			return nil, err
		}
		cfg.Emit.SQLite = db
	}
	switch opts.color {
	case "":
	case "auto", "always", "never":
		cfg.Diagnostics.Color = opts.color
	default:
		return nil, fmt.Errorf("-color must be auto, always or never, got %q", opts.color)
	}
	if opts.sequential {
		f := false
		cfg.Parallel = &f
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func parseFiles(files []string, stdout, stderr io.Writer, em *diagnostics.Emitter) int {
	table := location.NewTable()
	front := pipeline.New(&lexer.LexerProcessor{}, &layout.LayoutProcessor{}, &parser.ParserProcessor{})
	status := 0
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			status = 1
			continue
		}
		ctx := front.Run(pipeline.NewContext(path, string(src), table))
		if em.Emit(ctx.Errors) > 0 {
			status = 1
			continue
		}
		fmt.Fprint(stdout, prettyprinter.Print(ctx.AstRoot))
	}
	return status
}

func build(ctx context.Context, cmd string, cfg *config.Config, opts options, files []string,
	stdout, stderr io.Writer, em *diagnostics.Emitter) int {
	sopts := compiler.OptionsFromConfig(cfg, stderr)
	sopts.NoStd = opts.noStd
	session, err := compiler.NewSession(sopts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	if err := session.AddFiles(files...); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	res, err := session.Compile(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Internal error: %+v\n", err)
		return 1
	}
	if res.Failed() || cmd == "check" {
		if em.Emit(res.Errors) > 0 {
			return 1
		}
		return 0
	}

	var b backend.Backend
	var sink artifact.Sink
	switch cmd {
	case "run":
		b = backend.NewEval(cfg.Entry, stdout)
	case "emit":
		sink, err = openSinks(ctx, cfg, res.BuildID)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return 1
		}
		defer sink.Close()
		b = &backend.EmitBackend{Entry: cfg.Entry, Format: *cfg.Emit.Format, Sink: sink}
	}

	exec := backend.NewExecutionProcessor(b, cfg.Entry)
	if err := exec.Process(ctx, res); err != nil {
		em.Emit(res.Errors)
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	if em.Emit(res.Errors) > 0 {
		return 1
	}
	if eb, ok := b.(*backend.EmitBackend); ok {
		fmt.Fprintf(stdout, "emitted %d files to %s\n", len(eb.Units), cfg.Resolve(cfg.Emit.Dir))
	}
	return 0
}

func openSinks(ctx context.Context, cfg *config.Config, buildID string) (artifact.Sink, error) {
	dir, err := artifact.NewDirSink(cfg.Resolve(cfg.Emit.Dir))
	if err != nil {
		return nil, err
	}
	if cfg.Emit.SQLite == "" {
		return dir, nil
	}
	db, err := artifact.OpenSQLite(ctx, cfg.Resolve(cfg.Emit.SQLite), buildID)
	if err != nil {
		return nil, err
	}
	return artifact.Multi{dir, db}, nil
}
