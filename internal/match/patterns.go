// Package match compiles the patterns of a case, a do bind or a
// function's parameters into a decision tree and reports missing and
// unreachable alternatives.
package match

import (
	"strings"

	"github.com/funvibe/siko/internal/core"
)

// Pattern is a pattern over values already checked to have the right
// type.
type Pattern interface {
	pattern()
}

// Wild matches anything, binding the value when Bind is set.
type Wild struct {
	Bind *core.Var
}

// Con matches a constructor. Record constructors have a single shape
// and never need a tag test.
type Con struct {
	Type    string
	Variant string
	Tag     int
	Record  bool
	Args    []Pattern
}

type Tuple struct {
	Items []Pattern
}

// Lit matches an int64, float64, string or bool by equality.
type Lit struct {
	Value interface{}
}

func (Wild) pattern()   {}
func (*Con) pattern()   {}
func (*Tuple) pattern() {}
func (*Lit) pattern()   {}

// Row is one alternative: a pattern per scrutinee and the arm it
// selects.
type Row struct {
	Patterns []Pattern
	Arm      int
	Guarded  bool
}

// TypeInfo gives the variants of a data type.
type TypeInfo interface {
	Variants(typ string) []core.Variant
}

// Report lists the uncovered values as patterns and the arms no input
// reaches.
type Report struct {
	Missing   []string
	Unreached []int
}

// String renders a pattern as source would write it.
func String(p Pattern) string {
	return render(p, false)
}

func render(p Pattern, nested bool) string {
	switch v := p.(type) {
	case Wild:
		if v.Bind != nil {
			return v.Bind.Name
		}
		return "_"
	case *Con:
		if len(v.Args) == 0 {
			return v.Variant
		}
		parts := []string{v.Variant}
		for _, a := range v.Args {
			parts = append(parts, render(a, true))
		}
		s := strings.Join(parts, " ")
		if nested {
			s = "(" + s + ")"
		}
		return s
	case *Tuple:
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			parts[i] = render(it, false)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *Lit:
		return core.LitString(v.Value)
	}
	return "?"
}
