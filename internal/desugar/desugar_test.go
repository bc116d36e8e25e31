package desugar

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/siko/internal/analyzer"
	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/layout"
	"github.com/funvibe/siko/internal/lexer"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/parser"
	"github.com/funvibe/siko/internal/resolver"
	"github.com/funvibe/siko/internal/symbols"
)

const testPrelude = `module Std.Prelude where

data Int = extern
data String = extern
data Bool = extern
data Option a = Some a | None deriving (Eq, Show)

show :: (Show a) => a -> String
show x = extern
`

// check runs the front end over the prelude and src and returns the
// checked src module.
func check(t *testing.T, src string) (*ir.Module, *analyzer.Result, *location.Table) {
	t.Helper()
	table := location.NewTable()
	snap := symbols.NewSnapshot()
	env := analyzer.NewEnv()
	var (
		irMod *ir.Module
		res   *analyzer.Result
	)
	for _, s := range []string{testPrelude, src} {
		toks, err := lexer.New("test.sk", s, table).Tokenize()
		if err != nil {
			t.Fatalf("lex: %v", err)
		}
		if toks, err = layout.Resolve(toks, table); err != nil {
			t.Fatalf("layout: %v", err)
		}
		astMod, err := parser.New("test.sk", toks, table).ParseModule()
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		var rerrs []*diagnostics.DiagnosticError
		irMod, rerrs = resolver.Resolve(astMod, snap, table)
		if diagnostics.HasErrors(rerrs) {
			t.Fatalf("resolve: %v", rerrs)
		}
		snap = snap.With(irMod.Table)
		var cerrs []*diagnostics.DiagnosticError
		res, cerrs = analyzer.Check(irMod, env, table)
		if len(cerrs) > 0 {
			t.Fatalf("check: %v", cerrs)
		}
		env = res.Env
	}
	return irMod, res, table
}

// lower checks src and desugars it.
func lower(t *testing.T, src string) (*core.Module, []*diagnostics.DiagnosticError) {
	t.Helper()
	irMod, res, table := check(t, src)
	return Desugar(irMod, res, table)
}

func mustLower(t *testing.T, src string) *core.Module {
	t.Helper()
	mod, errs := lower(t, src)
	if len(errs) > 0 {
		t.Fatalf("desugar: %v", errs)
	}
	return mod
}

func function(t *testing.T, mod *core.Module, name string) *core.Function {
	t.Helper()
	for _, f := range mod.Functions {
		if f.Name == "Main."+name {
			return f
		}
	}
	t.Fatalf("no function %s", name)
	return nil
}

func TestLowering(t *testing.T) {
	tests := []struct {
		name string
		src  string
		fn   string
		want string
	}{
		{
			name: "do block closure",
			src:  "lambdaCreate = do\n    a <- 1\n    \\x, y -> x + y + a\n",
			fn:   "lambdaCreate",
			want: "(fn Main.lambdaCreate [] [] (let a_1 1 (lambda [x_2 y_3] {a_1} ((method Num.add (dict Num[Std.Prelude.Int])) ((method Num.add (dict Num[Std.Prelude.Int])) x_2 y_3) a_1))))",
		},
		{
			name: "dictionary parameter",
			src:  "add x y = x + y\n",
			fn:   "add",
			want: "(fn Main.add [dict_3] [x_1 y_2] ((method Num.add dict_3) x_1 y_2))",
		},
		{
			name: "dictionary argument",
			src:  "add x y = x + y\nthree = add 1 2\n",
			fn:   "three",
			want: "(fn Main.three [] [] (Main.add (dict Num[Std.Prelude.Int]) 1 2))",
		},
		{
			name: "short circuit",
			src:  "p x = x > 0 && x < 10\n",
			fn:   "p",
			want: "(fn Main.p [] [x_1] (if ((method Ord.gt (dict Ord[Std.Prelude.Int])) x_1 0) ((method Ord.lt (dict Ord[Std.Prelude.Int])) x_1 10) False))",
		},
		{
			name: "pipe and not",
			src:  "q x = !(x |> isZero)\nisZero n = n == 0\n",
			fn:   "q",
			want: "(fn Main.q [] [x_1] (if (Main.isZero x_1) False True))",
		},
		{
			name: "formatter",
			src:  "s x = \"v={}\" % x\n",
			fn:   "s",
			want: "(fn Main.s [dict_2] [x_1] (format \"v={}\" x_1))",
		},
		{
			name: "statements",
			src:  "main = do\n    show 1\n    _ <- show 2\n    3\n",
			fn:   "main",
			want: "(fn Main.main [] [] (seq (Std.Prelude.show (dict Show[Std.Prelude.Int]) 1) (seq (Std.Prelude.show (dict Show[Std.Prelude.Int]) 2) 3)))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := mustLower(t, "module Main where\n\n"+tt.src)
			if got := core.DumpFunction(function(t, mod, tt.fn)); got != tt.want {
				t.Errorf("got\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestLambdaCapturesDictionaries(t *testing.T) {
	mod := mustLower(t, "module Main where\n\nadder x = \\y -> x + y\n")
	fn := function(t, mod, "adder")
	lam, ok := fn.Body.(*core.Lambda)
	if !ok {
		t.Fatalf("body = %s", core.Dump(fn.Body))
	}
	var free []string
	for _, v := range lam.Free {
		free = append(free, v.Name)
	}
	if diff := cmp.Diff([]string{"dict", "x"}, free); diff != "" {
		t.Errorf("free variables (-want +got):\n%s", diff)
	}
}

func TestRefutableBindFailsAtRuntime(t *testing.T) {
	mod := mustLower(t, "module Main where\n\nk = do\n    Some v <- None\n    v + 1\n")
	body := function(t, mod, "k").Body
	let, ok := body.(*core.Let)
	if !ok {
		t.Fatalf("body = %s", core.Dump(body))
	}
	m, ok := let.Body.(*core.Match)
	if !ok {
		t.Fatalf("bind body = %s", core.Dump(let.Body))
	}
	sw := m.Tree.(*core.Switch)
	fail, ok := sw.Default.(*core.Fail)
	if !ok || !strings.Contains(fail.Message, "no pattern matched in do bind") || !strings.HasPrefix(fail.Message, "test.sk:") {
		t.Errorf("default = %#v", sw.Default)
	}
}

func TestRecordLowering(t *testing.T) {
	mod := mustLower(t, `module Main where

data P = { name :: String, age :: Int }

make = P { age = 3, name = "a" }
older p = p { age = 4 }
`)
	got := core.Dump(function(t, mod, "make").Body)
	if !strings.HasSuffix(got, "(new Main.P name=name_3 age=age_2)))") {
		t.Errorf("make = %s", got)
	}
	got = core.Dump(function(t, mod, "older").Body)
	if !strings.Contains(got, "(new Main.P name=rec_") || !strings.Contains(got, ".name age=age_") {
		t.Errorf("older = %s", got)
	}
}

func TestDerivedWitnesses(t *testing.T) {
	mod := mustLower(t, "module Main where\n\ndata Box a = Box a Int | Empty deriving (Eq, Show)\n")
	data := mod.Data[0]
	if len(data.Derived) != 2 || data.Derived[0].Class != "Eq" || data.Derived[1].Class != "Show" {
		t.Fatalf("derived = %+v", data.Derived)
	}
	var got []string
	for _, w := range data.Derived[0].FieldWitnesses[0] {
		got = append(got, core.Dump(w))
	}
	if diff := cmp.Diff([]string{"$0", "(dict Eq[Std.Prelude.Int])"}, got); diff != "" {
		t.Errorf("Box field witnesses (-want +got):\n%s", diff)
	}
	if want := []core.Variant{{Name: "Box", Tag: 0, Arity: 2}, {Name: "Empty", Tag: 1}}; !cmp.Equal(want, data.Variants) {
		t.Errorf("variants = %+v", data.Variants)
	}
}

func TestCaseDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		code    diagnostics.ErrorCode
		message string
	}{
		{"missing variant", "f o = case o of\n    Some x -> x\n", diagnostics.ErrM001, "non-exhaustive case in f: None not covered"},
		{"missing nested", "f o = case o of\n    Some (Some x) -> x\n    None -> 0\n", diagnostics.ErrM001, "Some None not covered"},
		{"guard does not cover", "f n = case n of\n    x if x > 0 -> 1\n", diagnostics.ErrM001, "_ not covered"},
		{"unreachable", "g o = case o of\n    _ -> 0\n    None -> 1\n", diagnostics.ErrM002, "unreachable case alternative None in g"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := lower(t, "module Main where\n\n"+tt.src)
			for _, e := range errs {
				if e.Code == tt.code && strings.Contains(e.Error(), tt.message) {
					return
				}
			}
			t.Errorf("want %s containing %q, got %v", tt.code, tt.message, errs)
		})
	}
}

func TestWildcardCaseIsExhaustive(t *testing.T) {
	mod := mustLower(t, "module Main where\n\nh o = case o of\n    Some x -> x\n    _ -> 0\n")
	got := core.Dump(function(t, mod, "h").Body)
	if strings.Contains(got, "(fail)") {
		t.Errorf("exhaustive case still has a failure: %s", got)
	}
}

// desugarInvariant runs Desugar and returns the invariant failure it
// aborted with, or nil.
func desugarInvariant(mod *ir.Module, res *analyzer.Result, table *location.Table) (inv *diagnostics.InvariantError) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*diagnostics.InvariantError)
			if !ok {
				panic(r)
			}
			inv = e
		}
	}()
	Desugar(mod, res, table)
	return nil
}

// redirectWitnesses replaces every recorded witness with w.
func redirectWitnesses(res *analyzer.Result, w analyzer.Witness) {
	for _, ws := range res.Witnesses {
		for i := range ws {
			ws[i] = w
		}
	}
}

func TestBrokenAnalysisIsInvariant(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		corrupt func(res *analyzer.Result)
		want    string
	}{
		{
			name:    "operator without witness",
			src:     "module Main where\n\nf x = x + 1\n",
			corrupt: func(res *analyzer.Result) { res.Witnesses = nil },
			want:    "operator add in f has no Num witness",
		},
		{
			name:    "formatter without witnesses",
			src:     "module Main where\n\nf x = \"<{}>\" % x\n",
			corrupt: func(res *analyzer.Result) { res.Witnesses = nil },
			want:    "formatter in f has 1 arguments but 0 Show witnesses",
		},
		{
			name:    "dictionary parameter out of range",
			src:     "module Main where\n\nf :: (Show a) => a -> String\nf x = show x\n",
			corrupt: func(res *analyzer.Result) { redirectWitnesses(res, analyzer.Param{Index: 3}) },
			want:    "dictionary parameter 3 out of range in f",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, res, table := check(t, tt.src)
			tt.corrupt(res)
			inv := desugarInvariant(mod, res, table)
			if inv == nil {
				t.Fatal("desugaring broken analysis did not abort")
			}
			if inv.Stage != "desugar" || !strings.Contains(inv.Error(), tt.want) {
				t.Errorf("got %v, want message containing %q", inv, tt.want)
			}
		})
	}
}
