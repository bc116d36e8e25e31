package desugar

import (
	"github.com/funvibe/siko/internal/analyzer"
	"github.com/funvibe/siko/internal/pipeline"
)

// DesugarProcessor lowers ctx.Resolved with ctx.Analysis into ctx.Core.
type DesugarProcessor struct{}

func (dp *DesugarProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	res, ok := ctx.Analysis.(*analyzer.Result)
	if !ok || ctx.Resolved == nil {
		return ctx
	}
	mod, errs := Desugar(ctx.Resolved, res, ctx.Locations)
	for _, e := range errs {
		ctx.AddError(e)
	}
	ctx.Core = mod
	return ctx
}
