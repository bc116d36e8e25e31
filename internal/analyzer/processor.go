package analyzer

import "github.com/funvibe/siko/internal/pipeline"

// AnalyzerProcessor type checks ctx.Resolved against ctx.TypeEnv and
// stores the *Result in ctx.Analysis.
type AnalyzerProcessor struct{}

func (ap *AnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Resolved == nil {
		return ctx
	}
	env, _ := ctx.TypeEnv.(*Env)
	res, errs := Check(ctx.Resolved, env, ctx.Locations)
	for _, e := range errs {
		ctx.AddError(e)
	}
	ctx.Analysis = res
	return ctx
}
