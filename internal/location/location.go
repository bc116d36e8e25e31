// Package location maps opaque location handles to source positions.
// AST nodes carry an ID instead of an embedded position so they stay
// small and comparable.
package location

import (
	"fmt"
	"sync"
)

// ID is a handle into a Table. The zero ID means "no location".
type ID int32

// None is the zero location.
const None ID = 0

// Position is a resolved source position. Line and Column are 1-based.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsValid reports whether the position refers to real source text.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Table is the side table of positions. It is safe for concurrent use;
// modules of one session are lexed and checked in parallel against a
// shared table.
type Table struct {
	mu        sync.RWMutex
	positions []Position
}

// NewTable returns an empty table.
func NewTable() *Table {
	// index 0 is reserved for None
	return &Table{positions: []Position{{}}}
}

// Add records a position and returns its handle.
func (t *Table) Add(p Position) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.positions = append(t.positions, p)
	return ID(len(t.positions) - 1)
}

// Lookup resolves a handle. Unknown handles resolve to the zero Position.
func (t *Table) Lookup(id ID) Position {
	if t == nil {
		return Position{}
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id <= 0 || int(id) >= len(t.positions) {
		return Position{}
	}
	return t.positions[id]
}

// Len returns the number of recorded positions.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.positions) - 1
}
