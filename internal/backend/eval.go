package backend

import (
	"context"
	"io"

	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/internal/evaluator"
	"github.com/funvibe/siko/pkg/rt"
)

// EvalBackend interprets the program.
type EvalBackend struct {
	Entry   string
	Externs *rt.Externs
}

// NewEval creates an evaluating backend whose prelude writes to out.
func NewEval(entry string, out io.Writer) *EvalBackend {
	return &EvalBackend{Entry: entry, Externs: rt.NewExterns(out)}
}

func (b *EvalBackend) Name() string { return "eval" }

func (b *EvalBackend) Run(ctx context.Context, program *core.Program) (rt.Value, error) {
	return evaluator.New(ctx, program, b.externs()).Run(b.Entry)
}

func (b *EvalBackend) externs() *rt.Externs {
	if b.Externs == nil {
		return rt.Default
	}
	return b.Externs
}

func (b *EvalBackend) missing(program *core.Program) []string {
	return MissingExterns(program, b.externs())
}
