package parser

import (
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/pipeline"
)

// ParserProcessor builds ctx.AstRoot from the delimited token stream.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	p := New(ctx.FilePath, ctx.Tokens, ctx.Locations)
	mod, err := p.ParseModule()
	if err != nil {
		if de, ok := err.(*diagnostics.DiagnosticError); ok {
			ctx.AddError(de)
		}
		return ctx
	}
	ctx.AstRoot = mod
	return ctx
}
