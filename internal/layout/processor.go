package layout

import (
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/pipeline"
)

// LayoutProcessor replaces the raw token stream with the delimited one.
type LayoutProcessor struct{}

func (lp *LayoutProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	toks, err := Resolve(ctx.Tokens, ctx.Locations)
	if err != nil {
		if de, ok := err.(*diagnostics.DiagnosticError); ok {
			ctx.AddError(de)
		}
		return ctx
	}
	ctx.Tokens = toks
	return ctx
}
