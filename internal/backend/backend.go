// Package backend provides the two ways a compiled program leaves the
// compiler: evaluated in process, or emitted as Go source.
package backend

import (
	"context"

	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/pkg/rt"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run consumes the program starting at the entry function. The
	// result is the entry's value for evaluating backends.
	Run(ctx context.Context, program *core.Program) (rt.Value, error)

	// Name returns the backend name for display
	Name() string
}

// MissingExterns lists extern functions of program that externs has no
// implementation for.
func MissingExterns(program *core.Program, externs *rt.Externs) []string {
	var out []string
	for _, m := range program.Modules {
		for _, f := range m.Functions {
			if _, ok := externs.Lookup(f.Name); f.Extern && !ok {
				out = append(out, f.Name)
			}
		}
	}
	return out
}
