package pipeline

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/symbols"
	"github.com/funvibe/siko/internal/token"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one compilation unit (one module) through the
// stages. Each stage reads the output of the previous one and stores a
// new value; no stage edits an earlier stage's output.
type PipelineContext struct {
	SourceCode string
	FilePath   string
	Locations  *location.Table

	// Tokens is the raw stream after lexing and the delimited stream
	// after layout resolution.
	Tokens []token.Token

	AstRoot *ast.Module

	// Imports is the read-only snapshot of previously processed modules'
	// export tables.
	Imports *symbols.Snapshot

	Resolved *ir.Module

	// TypeEnv holds the exported types of previously checked modules
	// (*analyzer.Env); Analysis holds this module's *analyzer.Result.
	TypeEnv  interface{}
	Analysis interface{}

	Core *core.Module

	Errors []*diagnostics.DiagnosticError
}

// NewContext creates a context for one source file.
func NewContext(path, source string, table *location.Table) *PipelineContext {
	if table == nil {
		table = location.NewTable()
	}
	return &PipelineContext{SourceCode: source, FilePath: path, Locations: table}
}

// Failed reports whether an error (not a warning) has been recorded.
func (ctx *PipelineContext) Failed() bool {
	return diagnostics.HasErrors(ctx.Errors)
}

// AddError records a diagnostic.
func (ctx *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	ctx.Errors = append(ctx.Errors, err)
}

// ModuleName returns the parsed module name, or "" before parsing.
func (ctx *PipelineContext) ModuleName() string {
	if ctx.AstRoot == nil {
		return ""
	}
	return ctx.AstRoot.Name
}
