package match

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/siko/internal/core"
)

type testInfo map[string][]core.Variant

func (t testInfo) Variants(typ string) []core.Variant { return t[typ] }

var info = testInfo{
	"Option": {{Name: "Some", Tag: 0, Arity: 1}, {Name: "None", Tag: 1}},
	"Color":  {{Name: "Red", Tag: 0}, {Name: "Green", Tag: 1}, {Name: "Blue", Tag: 2}},
}

var (
	s = core.Var{ID: 0, Name: "s"}
	x = core.Var{ID: 1, Name: "x"}
)

func some(p Pattern) *Con { return &Con{Type: "Option", Variant: "Some", Tag: 0, Args: []Pattern{p}} }

var none = &Con{Type: "Option", Variant: "None", Tag: 1}

var red = &Con{Type: "Color", Variant: "Red", Tag: 0}

func bind(v core.Var) Wild { return Wild{Bind: &v} }
func lit(v interface{}) *Lit { return &Lit{Value: v} }

func compileRows(rows ...Row) (core.Decision, Report) {
	next := 10
	fresh := func(name string) core.Var {
		v := core.Var{ID: next, Name: name}
		next++
		return v
	}
	for i := range rows {
		rows[i].Arm = i
	}
	return Compile([]core.Var{s}, rows, info, fresh)
}

func one(p Pattern) Row { return Row{Patterns: []Pattern{p}} }

func TestCompile(t *testing.T) {
	tests := []struct {
		name      string
		rows      []Row
		tree      string
		missing   []string
		unreached []int
	}{
		{
			name: "exhaustive variants",
			rows: []Row{one(some(bind(x))), one(none)},
			tree: "(switch s_0 (Some [f_10] (leaf 0 x_1=f_10)) (None [] (leaf 1)))",
		},
		{
			name:    "nested missing",
			rows:    []Row{one(some(some(bind(x)))), one(none)},
			tree:    "(switch s_0 (Some [f_10] (switch f_10 (Some [f_11] (leaf 0 x_1=f_11)) (_ (fail)))) (None [] (leaf 1)))",
			missing: []string{"Some None"},
		},
		{
			name:      "wildcard first",
			rows:      []Row{one(Wild{}), one(none)},
			tree:      "(leaf 0)",
			unreached: []int{1},
		},
		{
			name: "guard falls through",
			rows: []Row{{Patterns: []Pattern{some(bind(x))}, Guarded: true}, one(Wild{})},
			tree: "(switch s_0 (Some [f_10] (leaf 0 x_1=f_10 else (leaf 1))) (_ (leaf 1)))",
		},
		{
			name:    "guard only",
			rows:    []Row{{Patterns: []Pattern{bind(x)}, Guarded: true}},
			tree:    "(leaf 0 x_1=s_0 else (fail))",
			missing: []string{"_"},
		},
		{
			name: "bool domain is finite",
			rows: []Row{one(lit(true)), one(lit(false))},
			tree: "(lits s_0 (True (leaf 0)) (False (leaf 1)))",
		},
		{
			name:    "missing bool",
			rows:    []Row{one(lit(true))},
			tree:    "(lits s_0 (True (leaf 0)) (_ (fail)))",
			missing: []string{"False"},
		},
		{
			name:    "integers need a default",
			rows:    []Row{one(lit(int64(1))), one(lit(int64(2)))},
			tree:    "(lits s_0 (1 (leaf 0)) (2 (leaf 1)) (_ (fail)))",
			missing: []string{"_"},
		},
		{
			name: "tuple",
			rows: []Row{
				one(&Tuple{Items: []Pattern{some(bind(x)), Wild{}}}),
				one(&Tuple{Items: []Pattern{Wild{}, lit(true)}}),
			},
			tree:    "(split s_0 [f_10 f_11] (switch f_10 (Some [f_12] (leaf 0 x_1=f_12)) (_ (lits f_11 (True (leaf 1)) (_ (fail))))))",
			missing: []string{"(None, False)"},
		},
		{
			name:    "record",
			rows:    []Row{one(&Con{Type: "P", Variant: "P", Record: true, Args: []Pattern{lit(int64(1)), bind(x)}})},
			tree:    "(split s_0 [f_10 f_11] (lits f_10 (1 (leaf 0 x_1=f_11)) (_ (fail))))",
			missing: []string{"P _ _"},
		},
		{
			name:    "every absent variant is missing",
			rows:    []Row{one(red)},
			tree:    "(switch s_0 (Red [] (leaf 0)) (_ (fail)))",
			missing: []string{"Green", "Blue"},
		},
		{
			name: "absent variants under a partial default",
			rows: []Row{
				one(&Tuple{Items: []Pattern{red, lit(true)}}),
				one(&Tuple{Items: []Pattern{Wild{}, lit(false)}}),
			},
			tree:    "(split s_0 [f_10 f_11] (switch f_10 (Red [] (lits f_11 (True (leaf 0)) (False (leaf 1)))) (_ (lits f_11 (False (leaf 1)) (_ (fail))))))",
			missing: []string{"(Green, True)", "(Blue, True)"},
		},
		{
			name: "default covers every absent variant",
			rows: []Row{one(red), one(Wild{})},
			tree: "(switch s_0 (Red [] (leaf 0)) (_ (leaf 1)))",
		},
		{
			name:      "duplicate alternative",
			rows:      []Row{one(none), one(some(Wild{})), one(none)},
			tree:      "(switch s_0 (Some [f_10] (leaf 1)) (None [] (leaf 0)))",
			unreached: []int{2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, rep := compileRows(tt.rows...)
			if got := core.DumpDecision(tree); got != tt.tree {
				t.Errorf("tree:\n got %s\nwant %s", got, tt.tree)
			}
			if diff := cmp.Diff(tt.missing, rep.Missing); diff != "" {
				t.Errorf("missing (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.unreached, rep.Unreached); diff != "" {
				t.Errorf("unreached (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPatternString(t *testing.T) {
	tests := []struct {
		p    Pattern
		want string
	}{
		{some(some(Wild{})), "Some (Some _)"},
		{&Tuple{Items: []Pattern{none, lit("a")}}, `(None, "a")`},
		{bind(x), "x"},
		{lit(2.5), "2.5"},
	}
	for _, tt := range tests {
		if got := String(tt.p); got != tt.want {
			t.Errorf("String = %q, want %q", got, tt.want)
		}
	}
}
