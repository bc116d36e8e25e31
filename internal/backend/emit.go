package backend

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/siko/internal/artifact"
	"github.com/funvibe/siko/internal/codegen"
	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/pkg/rt"
)

// EmitBackend generates one Go file per module plus the driver and
// hands them to Sink.
type EmitBackend struct {
	Entry  string
	Format bool
	Sink   artifact.Sink

	// Units holds what the last Run generated.
	Units []codegen.Unit
}

func (b *EmitBackend) Name() string { return "emit" }

func (b *EmitBackend) Run(ctx context.Context, program *core.Program) (rt.Value, error) {
	units, err := codegen.Program(program, b.Entry, codegen.Options{Format: b.Format})
	if err != nil {
		return nil, err
	}
	b.Units = units
	if b.Sink == nil {
		return nil, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, u := range units {
		g.Go(func() error { return b.Sink.Put(gctx, u) })
	}
	return nil, g.Wait()
}

// Generated code calls the default registry.
func (b *EmitBackend) missing(program *core.Program) []string {
	return MissingExterns(program, rt.Default)
}
