package lexer

import (
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/pipeline"
)

// LexerProcessor turns ctx.SourceCode into ctx.Tokens.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.FilePath, ctx.SourceCode, ctx.Locations)
	toks, err := l.Tokenize()
	if err != nil {
		if de, ok := err.(*diagnostics.DiagnosticError); ok {
			ctx.AddError(de)
		}
		return ctx
	}
	ctx.Tokens = toks
	return ctx
}
