package analyzer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

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
data Float = extern
data String = extern
data Bool = extern
data Option a = Some a | None deriving (Eq, Show)

length :: [a] -> Int
length xs = extern

show :: (Show a) => a -> String
show x = extern

print :: (Show a) => a -> ()
print x = extern
`

// checkAll resolves and checks sources in order, each against the
// exports of the ones before it, and returns the last result.
func checkAll(t *testing.T, sources ...string) (*ir.Module, *Result, []*diagnostics.DiagnosticError) {
	t.Helper()
	table := location.NewTable()
	snap := symbols.NewSnapshot()
	env := NewEnv()
	var (
		mod  *ir.Module
		res  *Result
		errs []*diagnostics.DiagnosticError
	)
	for i, src := range sources {
		toks, err := lexer.New("test.sk", src, table).Tokenize()
		if err != nil {
			t.Fatalf("lex: %v", err)
		}
		toks, err = layout.Resolve(toks, table)
		if err != nil {
			t.Fatalf("layout: %v", err)
		}
		astMod, err := parser.New("test.sk", toks, table).ParseModule()
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		var rerrs []*diagnostics.DiagnosticError
		mod, rerrs = resolver.Resolve(astMod, snap, table)
		if diagnostics.HasErrors(rerrs) {
			t.Fatalf("resolve: %v", rerrs)
		}
		snap = snap.With(mod.Table)
		res, errs = Check(mod, env, table)
		if i < len(sources)-1 && len(errs) > 0 {
			t.Fatalf("checking dependency: %v", errs)
		}
		env = res.Env
	}
	return mod, res, errs
}

func mustCheck(t *testing.T, src string) (*ir.Module, *Result) {
	t.Helper()
	mod, res, errs := checkAll(t, testPrelude, src)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	return mod, res
}

func TestInferredSchemes(t *testing.T) {
	_, res := mustCheck(t, `module Main where

data Pair a b = { first :: a, second :: b }

id x = x
compose f g x = f (g x)
eq x y = x == y
double x = x + x
describe x = "{} and {}" % (x, x)
count xs = length xs + 1
wrap x = Some x
isEven n = if n == 0 then True else isOdd (n - 1)
isOdd n = if n == 0 then False else isEven (n - 1)
swap p = Pair { first = p.second, second = p.first }
apply = \f, x -> f x
firstOf t = case t of
    (a, _) -> a
`)
	tests := []struct {
		name, want string
	}{
		{"id", "a -> a"},
		{"compose", "(a -> b) -> (c -> a) -> c -> b"},
		{"eq", "(Eq a) => a -> a -> Bool"},
		{"double", "(Num a) => a -> a"},
		{"describe", "(Show a) => a -> String"},
		{"count", "[a] -> Int"},
		{"wrap", "a -> Option a"},
		{"isEven", "Int -> Bool"},
		{"isOdd", "Int -> Bool"},
		{"swap", "Pair a b -> Pair b a"},
		{"apply", "(a -> b) -> a -> b"},
		{"firstOf", "(a, b) -> a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := res.Schemes["Main."+tt.name]
			if s == nil {
				t.Fatalf("no scheme for %s", tt.name)
			}
			if got := s.String(); got != tt.want {
				t.Errorf("%s :: %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestDeclaredSignatures(t *testing.T) {
	_, res := mustCheck(t, `module Main where

fromOption :: a -> Option a -> a
fromOption d o = case o of
    Some x -> x
    None -> d

render :: (Show a) => [a] -> String
render xs = show xs
`)
	if got := res.Schemes["Main.fromOption"].String(); got != "a -> Option a -> a" {
		t.Errorf("fromOption :: %s", got)
	}
	if got := res.Schemes["Main.render"].String(); got != "(Show a) => [a] -> String" {
		t.Errorf("render :: %s", got)
	}
}

// witnessesOf returns the witnesses recorded at references to name
// inside fn, in source order.
func witnessesOf(mod *ir.Module, res *Result, fn, name string) []string {
	var out []string
	ir.Inspect(mod.Function(fn).Body, func(n ir.Node) bool {
		if g, ok := n.(*ir.GlobalRef); ok && g.Ref.Name == name {
			var ws []string
			for _, w := range res.Witnesses[g.ID] {
				ws = append(ws, w.String())
			}
			out = append(out, strings.Join(ws, " "))
		}
		return true
	})
	return out
}

func TestWitnesses(t *testing.T) {
	mod, res := mustCheck(t, `module Main where

main = print (Some 1)

showAll x = show x

render :: (Show a) => a -> String
render x = show [(x, 1.5)]

loop x n = if n == 0 then show x else loop x (n - 1)
`)
	tests := []struct {
		fn, ref string
		want    []string
	}{
		{"main", "print", []string{"Show[Std.Prelude.Option](Show[Std.Prelude.Int])"}},
		{"showAll", "show", []string{"$0"}},
		{"render", "show", []string{"Show[List](Show[Tuple]($0, Show[Std.Prelude.Float]))"}},
		{"loop", "show", []string{"$0"}},
		{"loop", "loop", []string{"$0"}},
	}
	for _, tt := range tests {
		got := witnessesOf(mod, res, tt.fn, tt.ref)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s/%s witnesses (-want +got):\n%s", tt.fn, tt.ref, diff)
		}
	}
}

func TestOperatorWitnesses(t *testing.T) {
	mod, res := mustCheck(t, `module Main where

same a b = a == b
less = 1 < 2
`)
	for _, tt := range []struct{ fn, want string }{
		{"same", "$0"},
		{"less", "Ord[Std.Prelude.Int]"},
	} {
		var got []string
		ir.Inspect(mod.Function(tt.fn).Body, func(n ir.Node) bool {
			if op, ok := n.(*ir.Op); ok {
				got = append(got, res.Witnesses[op.ID][0].String())
			}
			return true
		})
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("%s: witnesses %v, want %s", tt.fn, got, tt.want)
		}
	}
}

func TestDerivedFieldWitnesses(t *testing.T) {
	_, res := mustCheck(t, `module Main where

data Pair a = Pair a Int | Empty deriving (Eq, Show)
data Tree = Leaf | Node Tree Int Tree deriving (Ord)
`)
	pair := res.Data["Main.Pair"]
	var got [][]string
	for _, fields := range pair.FieldWitnesses["Eq"] {
		var row []string
		for _, w := range fields {
			row = append(row, w.String())
		}
		got = append(got, row)
	}
	want := [][]string{{"$0", "Eq[Std.Prelude.Int]"}, nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Pair Eq field witnesses (-want +got):\n%s", diff)
	}
	tree := res.Data["Main.Tree"].FieldWitnesses["Ord"]
	if len(tree) != 2 || tree[1][0].String() != "Ord[Main.Tree]" {
		t.Errorf("Tree Ord field witnesses = %v", tree)
	}
}

func TestFieldChoice(t *testing.T) {
	mod, res := mustCheck(t, `module Main where

data Person = { name :: String, age :: Int }
data Pet = { name :: String }

older p = p { age = p.age + 1 }
petName :: Pet -> String
petName p = p.name
`)
	var choices []string
	for _, fn := range []string{"older", "petName"} {
		ir.Inspect(mod.Function(fn).Body, func(n ir.Node) bool {
			if fa, ok := n.(*ir.FieldAccess); ok {
				c := res.Fields[fa.ID]
				choices = append(choices, c.Record.Name+"."+fa.Field)
			}
			if ru, ok := n.(*ir.RecordUpdate); ok {
				choices = append(choices, "update "+res.Updates[ru.ID].Name)
			}
			return true
		})
	}
	want := []string{"update Person", "Person.age", "Pet.name"}
	if diff := cmp.Diff(want, choices); diff != "" {
		t.Errorf("field choices (-want +got):\n%s", diff)
	}
}

func TestTypeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		code    diagnostics.ErrorCode
		message string
	}{
		{"mismatch", "f = 1 + \"a\"\n", diagnostics.ErrA001, "expected Int, found String"},
		{"if branches", "f x = if x then 1 else \"no\"\n", diagnostics.ErrA001, "else branch"},
		{"missing constraint", "f :: a -> String\nf x = show x\n", diagnostics.ErrA002, "add (Show a) to the signature of f"},
		{"no instance", "f x = x + \"s\"\n", diagnostics.ErrA002, "no instance for Num String"},
		{"no instance for function", "f = show (\\x -> x)\n", diagnostics.ErrA002, "no instance for Show"},
		{"ambiguous", "f = show []\n", diagnostics.ErrA003, "ambiguous type variable"},
		{"not a function", "f = 1 2\n", diagnostics.ErrA004, "not a function"},
		{"pattern arity", "f x = case x of\n    Some a b -> a\n    None -> 0\n", diagnostics.ErrA004, "Some has 1 field(s) but the pattern has 2"},
		{"signature arity", "f :: Int -> Int\nf x y = x\n", diagnostics.ErrA004, "2 parameter(s)"},
		{"ambiguous field", "data A = { name :: String }\ndata B = { name :: String }\nf p = p.name\n", diagnostics.ErrA005, "could belong to A or B"},
		{"tuple field unknown", "f p = p.0\n", diagnostics.ErrA006, "known tuple type"},
		{"tuple field range", "f = (1, 2).2\n", diagnostics.ErrA006, "out of range"},
		{"missing field", "data P = { x :: Int, y :: Int }\nf = P { x = 1 }\n", diagnostics.ErrA007, "missing field(s) y"},
		{"derive function field", "data Box = Box (Int -> Int) deriving (Eq)\n", diagnostics.ErrA008, "cannot derive Eq for Box"},
		{"derive extern", "data H = extern\ndata Box = Box H deriving (Show)\n", diagnostics.ErrA008, "no Show instance"},
		{"infinite", "f x = x x\n", diagnostics.ErrA009, "infinite type"},
		{"rigid", "f :: a -> b\nf x = x\n", diagnostics.ErrA001, "type mismatch"},
		{"extern without signature", "f x = extern\n", diagnostics.ErrA001, "needs a type signature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := checkAll(t, testPrelude, "module Main where\n\n"+tt.src)
			for _, e := range errs {
				if e.Code == tt.code && strings.Contains(e.Error(), tt.message) {
					return
				}
			}
			t.Errorf("want %s containing %q, got %v", tt.code, tt.message, errs)
		})
	}
}

func TestErrorsStayLocal(t *testing.T) {
	_, res, errs := checkAll(t, testPrelude, `module Main where

bad = 1 + "x"
good x = x
user = good 1
`)
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	if res.Schemes["Main.good"] == nil || res.Schemes["Main.user"] == nil {
		t.Errorf("functions unrelated to the error should still be checked")
	}
}

func TestImportedSchemes(t *testing.T) {
	_, res, errs := checkAll(t, testPrelude, `module Util where

twice f x = f (f x)
`, `module Main where

import Util

main = twice (\n -> n * 2) 3
`)
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	if got := res.Scheme("Main.main").String(); got != "Int" {
		t.Errorf("main :: %s, want Int", got)
	}
	if res.Scheme("Util.twice") == nil {
		t.Errorf("imported scheme not visible through the result env")
	}
}
