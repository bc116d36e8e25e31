// Package artifact stores the units produced by the code generator.
package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/siko/internal/codegen"
)

// Sink receives generated units. Put may be called from several
// goroutines.
type Sink interface {
	Put(ctx context.Context, u codegen.Unit) error
	Close() error
}

// Digest is the hex sha256 of a unit's source.
func Digest(u codegen.Unit) string {
	sum := sha256.Sum256(u.Source)
	return hex.EncodeToString(sum[:])
}

// DirSink writes every unit to a file in Dir.
type DirSink struct {
	Dir string
}

func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &DirSink{Dir: dir}, nil
}

func (s *DirSink) Put(ctx context.Context, u codegen.Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.Dir, u.File)
	if err := os.WriteFile(path, u.Source, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (s *DirSink) Close() error { return nil }

// Multi sends every unit to all sinks.
type Multi []Sink

func (m Multi) Put(ctx context.Context, u codegen.Unit) error {
	for _, s := range m {
		if err := s.Put(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
