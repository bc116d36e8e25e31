// Package compiler runs the front end and lowering stages over every
// module of a build.
package compiler

import (
	"context"
	"embed"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/siko/internal/analyzer"
	"github.com/funvibe/siko/internal/config"
	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/internal/desugar"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/layout"
	"github.com/funvibe/siko/internal/lexer"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/modules"
	"github.com/funvibe/siko/internal/parser"
	"github.com/funvibe/siko/internal/pipeline"
	"github.com/funvibe/siko/internal/resolver"
	"github.com/funvibe/siko/internal/symbols"
)

//go:embed std
var stdFS embed.FS

// StdPrefix marks the paths of embedded standard library files.
const StdPrefix = "<embedded>"

// Options configures a Session.
type Options struct {
	// Parallel checks the modules of one level concurrently.
	Parallel bool
	// NoStd leaves out the embedded standard library.
	NoStd bool
	// Log receives progress messages; nil discards them.
	Log io.Writer
}

// OptionsFromConfig derives session options from a project file.
func OptionsFromConfig(cfg *config.Config, logOut io.Writer) Options {
	opts := Options{Parallel: cfg.Parallel == nil || *cfg.Parallel}
	if cfg.Verbose {
		opts.Log = logOut
	}
	return opts
}

// Session compiles one build. Sources are added first, then Compile
// runs once.
type Session struct {
	ID        uuid.UUID
	Locations *location.Table

	opts    Options
	log     *log.Logger
	loader  *modules.Loader
	sources []modules.Source
}

func NewSession(opts Options) (*Session, error) {
	s := &Session{
		ID:        uuid.New(),
		Locations: location.NewTable(),
		opts:      opts,
		loader:    modules.NewLoader(),
	}
	out := opts.Log
	if out == nil {
		out = io.Discard
	}
	s.log = log.New(out, fmt.Sprintf("siko %s: ", s.ID.String()[:8]), log.LstdFlags|log.Lmsgprefix)
	if !opts.NoStd {
		std, err := s.loader.LoadFS(stdFS, "std", StdPrefix)
		if err != nil {
			return nil, fmt.Errorf("loading standard library: %w", err)
		}
		s.sources = append(s.sources, std...)
	}
	return s, nil
}

// AddSource adds a source text under path.
func (s *Session) AddSource(path, text string) {
	s.sources = append(s.sources, modules.Source{Path: path, Text: text})
}

// AddFiles reads source files from disk.
func (s *Session) AddFiles(paths ...string) error {
	srcs, err := s.loader.LoadFiles(paths...)
	if err != nil {
		return err
	}
	s.sources = append(s.sources, srcs...)
	return nil
}

// Result is the outcome of a build. Program holds the modules that
// compiled, in dependency order.
type Result struct {
	BuildID   string
	Program   *core.Program
	Units     []*pipeline.PipelineContext
	Errors    []*diagnostics.DiagnosticError
	Skipped   []string
	Locations *location.Table
}

// Failed reports whether any module had an error.
func (r *Result) Failed() bool {
	return diagnostics.HasErrors(r.Errors)
}

// Unit returns the context of a module.
func (r *Result) Unit(module string) *pipeline.PipelineContext {
	for _, u := range r.Units {
		if u.ModuleName() == module {
			return u
		}
	}
	return nil
}

func (s *Session) frontEnd() *pipeline.Pipeline {
	return pipeline.New(&lexer.LexerProcessor{}, &layout.LayoutProcessor{}, &parser.ParserProcessor{})
}

func (s *Session) middleEnd() *pipeline.Pipeline {
	return pipeline.New(&resolver.ResolverProcessor{}, &analyzer.AnalyzerProcessor{}, &desugar.DesugarProcessor{})
}

// Compile parses every source, orders the modules by their imports and
// checks them level by level. A module whose import failed is skipped;
// other modules still run so that one build reports the errors of
// several modules. An internal invariant failure aborts the build and
// is returned as the error.
func (s *Session) Compile(ctx context.Context) (*Result, error) {
	res := &Result{BuildID: s.ID.String(), Locations: s.Locations, Program: core.NewProgram()}

	parsed := make([]*pipeline.PipelineContext, len(s.sources))
	g, gctx := errgroup.WithContext(ctx)
	if !s.opts.Parallel {
		g.SetLimit(1)
	}
	for i, src := range s.sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return guard(func() {
				parsed[i] = s.frontEnd().Run(pipeline.NewContext(src.Path, src.Text, s.Locations))
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph := modules.NewGraph(s.Locations)
	units := make(map[string]*pipeline.PipelineContext)
	for _, u := range parsed {
		res.Errors = append(res.Errors, u.Errors...)
		if u.Failed() {
			continue
		}
		if err := graph.Add(modules.FromAST(u.AstRoot)); err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		units[u.ModuleName()] = u
	}
	levels, cycle := graph.Levels()
	if cycle != nil {
		res.Errors = append(res.Errors, cycle)
		return res, nil
	}

	snapshot := symbols.NewSnapshot()
	env := analyzer.NewEnv()
	failed := make(map[string]bool)
	for n, level := range levels {
		var run []*pipeline.PipelineContext
		for _, m := range level {
			if dep := failedImport(m, failed); dep != "" {
				s.log.Printf("skipping %s: import %s failed", m.Name, dep)
				failed[m.Name] = true
				res.Skipped = append(res.Skipped, m.Name)
				continue
			}
			u := units[m.Name]
			u.Imports = snapshot
			u.TypeEnv = env
			run = append(run, u)
		}
		s.log.Printf("level %d: %d module(s)", n, len(run))

		g, gctx := errgroup.WithContext(ctx)
		if !s.opts.Parallel {
			g.SetLimit(1)
		}
		done := make([]*pipeline.PipelineContext, len(run))
		for i, u := range run {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return guard(func() {
					done[i] = s.middleEnd().Run(u)
				})
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		// Single writer: the next level sees this level's exports.
		var tables []*symbols.ModuleTable
		var results []*analyzer.Result
		for _, u := range done {
			res.Units = append(res.Units, u)
			res.Errors = append(res.Errors, u.Errors...)
			if u.Failed() || u.Core == nil {
				s.log.Printf("%s failed", u.ModuleName())
				failed[u.ModuleName()] = true
				continue
			}
			tables = append(tables, u.Resolved.Table)
			results = append(results, u.Analysis.(*analyzer.Result))
			res.Program.Add(u.Core)
		}
		snapshot = snapshot.With(tables...)
		env = env.With(results...)
	}
	s.log.Printf("compiled %d module(s), %d diagnostic(s)", len(res.Program.Modules), len(res.Errors))
	return res, nil
}

func failedImport(m *modules.Module, failed map[string]bool) string {
	for _, imp := range m.Imports {
		if failed[imp] {
			return imp
		}
	}
	return ""
}

// guard turns an internal invariant panic into an error.
func guard(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			inv, ok := r.(*diagnostics.InvariantError)
			if !ok {
				panic(r)
			}
			err = inv
		}
	}()
	f()
	return nil
}

// EntryError reports a missing entry function as a configuration
// diagnostic, or nil when entry exists.
func (r *Result) EntryError(entry string) *diagnostics.DiagnosticError {
	if r.Program.Function(entry) != nil {
		return nil
	}
	return diagnostics.NewError(diagnostics.ErrC003, r.Locations, 0, "entry function %s not found", entry)
}
