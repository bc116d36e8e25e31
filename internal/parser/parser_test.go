package parser

import (
	"strings"
	"testing"

	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/layout"
	"github.com/funvibe/siko/internal/lexer"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/pipeline"
	"github.com/funvibe/siko/internal/prettyprinter"
)

func parseSource(t *testing.T, input string) (*ast.Module, error) {
	t.Helper()
	ctx := pipeline.NewContext("test.sk", input, location.NewTable())
	ctx = pipeline.New(&lexer.LexerProcessor{}, &layout.LayoutProcessor{}, &ParserProcessor{}).Run(ctx)
	if len(ctx.Errors) > 0 {
		return nil, ctx.Errors[0]
	}
	return ctx.AstRoot, nil
}

func mustParse(t *testing.T, input string) *ast.Module {
	t.Helper()
	mod, err := parseSource(t, input)
	if err != nil {
		t.Fatalf("parse error: %v\ninput:\n%s", err, input)
	}
	return mod
}

func parseExpr(t *testing.T, input string) ast.Expression {
	t.Helper()
	mod := mustParse(t, "module T where\nx = "+input+"\n")
	return mod.Functions[0].Body
}

func TestModuleStructure(t *testing.T) {
	input := `module Main (main, Shape(..), area) where

import Data.Map as M
import Data.List (length, push)
import Data.Set hiding (remove)

data Shape = Circle Int | Rect Int Int deriving (Eq, Show)
data Person a = { name :: String, tag :: a } deriving (Eq)
data Handle = extern

area :: (Num a, Show a) => Shape -> [a] -> (a, Int)
area s xs = extern

main = 0
`
	mod := mustParse(t, input)
	if mod.Name != "Main" || len(mod.Exports) != 3 || !mod.Exports[1].Members {
		t.Errorf("header = %q %+v", mod.Name, mod.Exports)
	}
	if len(mod.Imports) != 3 {
		t.Fatalf("imports = %d", len(mod.Imports))
	}
	if mod.Imports[0].Alias != "M" || mod.Imports[0].Module != "Data.Map" {
		t.Errorf("alias import = %+v", mod.Imports[0])
	}
	if mod.Imports[1].Kind != ast.ImportList || len(mod.Imports[1].Items) != 2 {
		t.Errorf("list import = %+v", mod.Imports[1])
	}
	if mod.Imports[2].Kind != ast.ImportHiding {
		t.Errorf("hiding import = %+v", mod.Imports[2])
	}

	if len(mod.Data) != 3 {
		t.Fatalf("data = %d", len(mod.Data))
	}
	shape := mod.Data[0].(*ast.AdtDef)
	if len(shape.Variants) != 2 || len(shape.Variants[1].Fields) != 2 || len(shape.Derived) != 2 {
		t.Errorf("shape = %+v", shape)
	}
	person := mod.Data[1].(*ast.RecordDef)
	if person.External || len(person.Fields) != 2 || person.TypeParams[0] != "a" {
		t.Errorf("person = %+v", person)
	}
	if handle := mod.Data[2].(*ast.RecordDef); !handle.External {
		t.Errorf("handle must be external")
	}

	sig := mod.Signatures[0]
	if len(sig.Constraints) != 2 || sig.Constraints[1].Class != "Show" {
		t.Errorf("constraints = %+v", sig.Constraints)
	}
	if _, ok := sig.Type.(*ast.FuncType); !ok {
		t.Errorf("signature type = %T", sig.Type)
	}
	if !mod.Functions[0].IsExtern() || len(mod.Functions[0].Args) != 2 {
		t.Errorf("area = %+v", mod.Functions[0])
	}
}

func TestApplicationGathersAllArguments(t *testing.T) {
	call, ok := parseExpr(t, "f a (g b) 3 c.name").(*ast.FunctionCall)
	if !ok {
		t.Fatal("expected FunctionCall")
	}
	if len(call.Args) != 4 {
		t.Fatalf("args = %d, want 4", len(call.Args))
	}
	if _, ok := call.Args[1].(*ast.FunctionCall); !ok {
		t.Errorf("parenthesized call must stay nested, got %T", call.Args[1])
	}
	if fa, ok := call.Args[3].(*ast.FieldAccess); !ok || fa.Field != "name" {
		t.Errorf("field access arg = %#v", call.Args[3])
	}

	// (do lambdaCreate) 2 3 applies a do block
	call, ok = parseExpr(t, "(do lambdaCreate) 2 3").(*ast.FunctionCall)
	if !ok {
		t.Fatal("expected FunctionCall")
	}
	if _, ok := call.Callee.(*ast.Do); !ok || len(call.Args) != 2 {
		t.Errorf("callee = %T, args = %d", call.Callee, len(call.Args))
	}
}

func TestDoBlock(t *testing.T) {
	mod := mustParse(t, `module Main where
lambdaCreate = do
    a <- 1
    (b, _) <- (2, 3)
    print a
    \x, y -> x + y + a + b
`)
	do, ok := mod.Functions[0].Body.(*ast.Do)
	if !ok {
		t.Fatalf("body = %T", mod.Functions[0].Body)
	}
	if len(do.Items) != 4 {
		t.Fatalf("items = %d", len(do.Items))
	}
	if b, ok := do.Items[0].(*ast.Bind); !ok || ast.PatternNames(b.Pattern)[0] != "a" {
		t.Errorf("item 0 = %#v", do.Items[0])
	}
	if b, ok := do.Items[1].(*ast.Bind); !ok {
		t.Errorf("item 1 = %T", do.Items[1])
	} else if _, ok := b.Pattern.(*ast.TuplePattern); !ok {
		t.Errorf("tuple bind pattern = %T", b.Pattern)
	}
	if _, ok := do.Items[2].(*ast.FunctionCall); !ok {
		t.Errorf("item 2 = %T", do.Items[2])
	}
	lam, ok := do.Items[3].(*ast.Lambda)
	if !ok || len(lam.Params) != 2 {
		t.Errorf("item 3 = %#v", do.Items[3])
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a + b * c", "a + b * c"},
		{"(a + b) * c", "(a + b) * c"},
		{"a - (b - c)", "a - (b - c)"},
		{"a - b - c", "a - b - c"},
		{"a || b && c", "a || b && c"},
		{"(a || b) && c", "(a || b) && c"},
		{"f x + g y", "f x + g y"},
		{"!f x", "!f x"},
		{"-x * y", "-x * y"},
		{"- 3", "-3"},
		{"f (-3)", "f (-3)"},
		{"x |> f |> g", "x |> f |> g"},
		{"a < b && c == d", "a < b && c == d"},
		{"p { age = 3 }.age", "p { age = 3 }.age"},
		{"t.0.1", "t.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := prettyprinter.Print(parseExpr(t, tt.input))
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatter(t *testing.T) {
	f, ok := parseExpr(t, `"{} is {} years" % (name p, age p)`).(*ast.Formatter)
	if !ok {
		t.Fatal("expected Formatter")
	}
	if len(f.Parts) != 3 || len(f.Args) != 2 || f.Parts[1] != " is " {
		t.Errorf("formatter = %#v", f)
	}
	single, ok := parseExpr(t, `"x = {}" % x`).(*ast.Formatter)
	if !ok || len(single.Args) != 1 {
		t.Errorf("single-arg formatter = %#v", single)
	}
	if s, ok := parseExpr(t, `"plain {}"`).(*ast.StringLit); !ok || s.Value != "plain {}" {
		t.Errorf("string without %% must stay a literal")
	}
}

func TestCaseWithGuards(t *testing.T) {
	mod := mustParse(t, `module Main where
describe s = case s of
    Circle r if r > 10 -> "big"
    Circle _ -> "circle"
    Rect (Some x) -1 -> "odd"
    _ -> "other"
`)
	c, ok := mod.Functions[0].Body.(*ast.CaseOf)
	if !ok {
		t.Fatalf("body = %T", mod.Functions[0].Body)
	}
	if len(c.Cases) != 4 {
		t.Fatalf("cases = %d", len(c.Cases))
	}
	if c.Cases[0].Guard == nil || c.Cases[1].Guard != nil {
		t.Errorf("guards parsed wrong")
	}
	rect := c.Cases[2].Pattern.(*ast.VariantPattern)
	if len(rect.Args) != 2 {
		t.Fatalf("rect args = %d", len(rect.Args))
	}
	if ip, ok := rect.Args[1].(*ast.IntPattern); !ok || ip.Value != -1 {
		t.Errorf("negative literal pattern = %#v", rect.Args[1])
	}
	if _, ok := c.Cases[3].Pattern.(*ast.WildcardPattern); !ok {
		t.Errorf("last pattern = %T", c.Cases[3].Pattern)
	}
}

func TestIfInsideDo(t *testing.T) {
	mod := mustParse(t, `module Main where
f x = do
    if x
    then 1
    else 2
`)
	do := mod.Functions[0].Body.(*ast.Do)
	if len(do.Items) != 1 {
		t.Fatalf("items = %d", len(do.Items))
	}
	if _, ok := do.Items[0].(*ast.If); !ok {
		t.Errorf("item = %T", do.Items[0])
	}
}

func TestRoundTrip(t *testing.T) {
	input := `module Main (main) where

import Std.Prelude
import Data.Map (insert, Map(..)) as M

data Option a = Some a | None deriving (Eq, Show, Ord)

data Person = { name :: String, age :: Int } deriving (Eq, Show)

data Handle = extern

lambdaCreate = do
    a <- 1
    \x, y -> x + y + a

lambdaCreate3 :: Int -> Int -> Int -> Int -> Int -> Int
lambdaCreate3 a = do
    \x, y -> \z -> x + y + a + z

main = do
    p <- Person { name = "ann\t\"q\"", age = 3 }
    q <- p { age = p.age + 1 }
    print ("{} and \{} {}" % (q.name, -2.5))
    r <- case M.get 1 m of
        Some (a, b) if a > 0 -> f (\x -> x) [1, 2, 3]
        None -> (do
            g 1) 2 3
    assert (!(a == b) || (a < b) == True)
    if r then () else (1, (2, 3)).1.0
`
	mod := mustParse(t, input)
	first := prettyprinter.Print(mod)
	again := mustParse(t, first)
	second := prettyprinter.Print(again)
	if first != second {
		t.Errorf("printing is not stable:\n--- first\n%s\n--- second\n%s", first, second)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
		want  string
	}{
		{"missing header", "f = 1\n", diagnostics.ErrP002, "module header"},
		{"do ends with bind", "module M where\nf = do\n    a <- 1\n", diagnostics.ErrP003, "last statement"},
		{"formatter count", "module M where\nf = \"{} {}\" % (a)\n", diagnostics.ErrP004, "2 {} markers but 1"},
		{"chained comparison", "module M where\nf = a == b == c\n", diagnostics.ErrP001, "chained"},
		{"missing then", "module M where\nf = if a else b\n", diagnostics.ErrP001, "'then'"},
		{"bad pattern", "module M where\nf = case x of\n    + -> 1\n", diagnostics.ErrP005, "expected pattern"},
		{"bad top level", "module M where\n1 = 2\n", diagnostics.ErrP006, "expected import"},
		{"extern deriving", "module M where\ndata X = extern deriving (Eq)\n", diagnostics.ErrP006, "cannot derive"},
		{"unclosed record", "module M where\nf = R { a = 1\n", diagnostics.ErrY003, "unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSource(t, tt.input)
			if err == nil {
				t.Fatalf("expected %s", tt.code)
			}
			de := err.(*diagnostics.DiagnosticError)
			if de.Code != tt.code {
				t.Errorf("code = %s, want %s (%v)", de.Code, tt.code, de)
			}
			if !strings.Contains(de.Message, tt.want) {
				t.Errorf("message %q does not contain %q", de.Message, tt.want)
			}
			if de.Pos.Line == 0 {
				t.Errorf("syntax error without location")
			}
		})
	}
}
