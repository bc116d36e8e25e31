package prettyprinter

import (
	"testing"

	"github.com/funvibe/siko/internal/ast"
)

func path(name string) *ast.Path { return &ast.Path{Name: name} }

func bin(op ast.BuiltinOp, l, r ast.Expression) *ast.Builtin {
	return &ast.Builtin{Op: op, Args: []ast.Expression{l, r}}
}

func TestPrintExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
		want string
	}{
		{"left assoc", bin(ast.OpSub, bin(ast.OpSub, path("a"), path("b")), path("c")), "a - b - c"},
		{"right nested", bin(ast.OpSub, path("a"), bin(ast.OpSub, path("b"), path("c"))), "a - (b - c)"},
		{"lower inside higher", bin(ast.OpMul, bin(ast.OpAdd, path("a"), path("b")), path("c")), "(a + b) * c"},
		{"non assoc", bin(ast.OpEq, bin(ast.OpEq, path("a"), path("b")), path("c")), "(a == b) == c"},
		{"call args", &ast.FunctionCall{Callee: path("f"), Args: []ast.Expression{
			&ast.FunctionCall{Callee: path("g"), Args: []ast.Expression{path("x")}},
			&ast.IntLit{Value: -1},
			&ast.FieldAccess{Expr: path("p"), Field: "name"},
		}}, "f (g x) (-1) p.name"},
		{"block operand", bin(ast.OpAdd, &ast.If{Cond: path("c"), Then: &ast.IntLit{Value: 1}, Else: &ast.IntLit{Value: 2}}, path("x")),
			"(if c then 1 else 2) + x"},
		{"lambda", &ast.Lambda{Params: []ast.Pattern{&ast.BindPattern{Name: "x"}, &ast.WildcardPattern{}},
			Body: bin(ast.OpAdd, path("x"), &ast.FloatLit{Value: 1})}, `\x, _ -> x + 1.0`},
		{"negate call", &ast.Builtin{Op: ast.OpNegate, Args: []ast.Expression{bin(ast.OpAdd, path("a"), path("b"))}}, "-(a + b)"},
		{"formatter", &ast.Formatter{Parts: []string{"", " {x} ", ""}, Args: []ast.Expression{path("a"), path("b")}},
			`"{} \{x} {}" % (a, b)`},
		{"string escapes", &ast.StringLit{Value: "a\"b\n{}"}, `"a\"b\n{}"`},
		{"record update", &ast.RecordUpdate{Expr: path("p"), Fields: []*ast.FieldInit{{Name: "age", Value: &ast.IntLit{Value: 3}}}},
			"p { age = 3 }"},
		{"tuple get", &ast.TupleFieldAccess{Expr: &ast.Tuple{Items: []ast.Expression{path("a"), path("b")}}, Index: 1}, "(a, b).1"},
		{"unit", &ast.Tuple{}, "()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Print(tt.expr); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintDoAndCase(t *testing.T) {
	body := &ast.Do{Items: []ast.Expression{
		&ast.Bind{Pattern: &ast.TuplePattern{Items: []ast.Pattern{&ast.BindPattern{Name: "a"}, &ast.WildcardPattern{}}}, Value: path("t")},
		&ast.CaseOf{Scrutinee: path("a"), Cases: []*ast.Case{
			{Pattern: &ast.VariantPattern{Name: "Some", Args: []ast.Pattern{&ast.IntPattern{Value: -1}}}, Body: path("x")},
			{Pattern: &ast.WildcardPattern{}, Guard: &ast.BoolLit{Value: true}, Body: path("y")},
		}},
	}}
	fn := &ast.Function{Name: "f", Args: []ast.Pattern{&ast.VariantPattern{Name: "Box", Args: []ast.Pattern{&ast.BindPattern{Name: "v"}}}}, Body: body}
	want := "f (Box v) = do\n    (a, _) <- t\n    case a of\n        Some (-1) -> x\n        _ if True -> y"
	if got := Print(fn); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintTypes(t *testing.T) {
	sig := &ast.FunctionSignature{
		Name:        "apply",
		Constraints: []ast.Constraint{{Class: "Show", Var: "a"}},
		Type: &ast.FuncType{
			Param:  &ast.FuncType{Param: &ast.VarType{Name: "a"}, Result: &ast.VarType{Name: "b"}},
			Result: &ast.FuncType{Param: &ast.NamedType{Name: "Option", Args: []ast.TypeExpr{&ast.ListType{Elem: &ast.VarType{Name: "a"}}}}, Result: &ast.TupleType{}},
		},
	}
	want := "apply :: (Show a) => (a -> b) -> Option [a] -> ()"
	if got := Print(sig); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	adt := &ast.AdtDef{Name: "Tree", TypeParams: []string{"a"}, Variants: []*ast.Variant{
		{Name: "Leaf"},
		{Name: "Node", Fields: []ast.TypeExpr{&ast.NamedType{Name: "Tree", Args: []ast.TypeExpr{&ast.VarType{Name: "a"}}}, &ast.VarType{Name: "a"}}},
	}, Derived: []ast.DerivedClass{{Name: "Eq"}, {Name: "Show"}}}
	if got := Print(adt); got != "data Tree a = Leaf | Node (Tree a) a deriving (Eq, Show)" {
		t.Errorf("adt = %q", got)
	}
}
