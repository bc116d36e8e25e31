package backend

import (
	"context"
	"errors"

	"github.com/funvibe/siko/internal/compiler"
	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/pkg/rt"
)

// ExecutionProcessor runs a Backend over a successful build.
type ExecutionProcessor struct {
	Backend Backend
	Entry   string

	// Result is the entry's value after an evaluating run.
	Result rt.Value
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend, entry string) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b, Entry: entry}
}

// obligations is implemented by backends that know which externs
// will fail when called.
type obligations interface {
	missing(program *core.Program) []string
}

// Process adds its diagnostics to res: a missing entry (C003), externs
// without implementation (G001, warnings), runtime failures (R001) and
// internal invariant failures (I001). Other errors, such as failing to
// write output, are returned.
func (p *ExecutionProcessor) Process(ctx context.Context, res *compiler.Result) error {
	// If previous steps failed, don't run execution
	if res.Failed() {
		return nil
	}
	if err := res.EntryError(p.Entry); err != nil {
		res.Errors = append(res.Errors, err)
		return nil
	}
	if m, ok := p.Backend.(obligations); ok {
		for _, name := range m.missing(res.Program) {
			res.Errors = append(res.Errors, diagnostics.NewWarning(diagnostics.ErrG001, res.Locations, 0,
				"extern function %s has no implementation; calling it is a runtime error", name))
		}
	}

	result, err := p.Backend.Run(ctx, res.Program)
	if err != nil {
		return p.handleError(res, err)
	}
	p.Result = result
	return nil
}

func (p *ExecutionProcessor) handleError(res *compiler.Result, err error) error {
	if inv, ok := diagnostics.AsInvariant(err); ok {
		res.Errors = append(res.Errors, inv.Diagnostic())
		return nil
	}
	var re *rt.RuntimeError
	var mf *rt.MatchFailure
	switch {
	case errors.As(err, &re):
		res.Errors = append(res.Errors, diagnostics.NewError(diagnostics.ErrR001, res.Locations, 0, "%s", re.Message))
	case errors.As(err, &mf):
		res.Errors = append(res.Errors, diagnostics.NewError(diagnostics.ErrR001, res.Locations, 0, "%s", mf.Error()))
	default:
		return err
	}
	return nil
}
