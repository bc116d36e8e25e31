package resolver

import (
	"github.com/funvibe/siko/internal/pipeline"
	"github.com/funvibe/siko/internal/symbols"
)

// ResolverProcessor builds ctx.Resolved from ctx.AstRoot and the import
// snapshot.
type ResolverProcessor struct{}

func (rp *ResolverProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	snapshot := ctx.Imports
	if snapshot == nil {
		snapshot = symbols.NewSnapshot()
	}
	mod, errs := Resolve(ctx.AstRoot, snapshot, ctx.Locations)
	for _, e := range errs {
		ctx.AddError(e)
	}
	ctx.Resolved = mod
	return ctx
}
