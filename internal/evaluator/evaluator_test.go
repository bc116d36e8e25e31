package evaluator

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/pkg/rt"
)

func v(id int, name string) core.Var { return core.Var{ID: id, Name: name} }

func lit(x interface{}) core.Expr { return &core.Lit{Value: x} }

func intDict(class string) core.Expr {
	return &core.DictInstance{Class: class, Type: rt.IntType}
}

func method(dict core.Expr, class, name string, args ...core.Expr) core.Expr {
	return &core.Apply{Func: &core.Method{Dict: dict, Class: class, Name: name}, Args: args}
}

func run(t *testing.T, entry core.Expr, extra ...*core.Function) (rt.Value, error) {
	t.Helper()
	mod := &core.Module{Name: "Main", Data: []*core.DataDef{listData}}
	mod.Functions = append(mod.Functions, extra...)
	mod.Functions = append(mod.Functions, &core.Function{Name: "Main.main", Body: entry})
	return New(context.Background(), core.NewProgram(mod), rt.NewExterns(&bytes.Buffer{})).Run("Main.main")
}

// data L a = Nil | Cons a (L a) deriving (Eq, Show)
var listData = &core.DataDef{
	Name:     "Main.L",
	Params:   []string{"a"},
	Variants: []core.Variant{{Name: "Nil", Tag: 0}, {Name: "Cons", Tag: 1, Arity: 2}},
	Derived: []core.Derived{
		{Class: rt.Eq, FieldWitnesses: [][]core.Expr{nil, {&core.DictParam{Index: 0}, &core.DictInstance{Class: rt.Eq, Type: "Main.L", Args: []core.Expr{&core.DictParam{Index: 0}}}}}},
		{Class: rt.Show, FieldWitnesses: [][]core.Expr{nil, {&core.DictParam{Index: 0}, &core.DictInstance{Class: rt.Show, Type: "Main.L", Args: []core.Expr{&core.DictParam{Index: 0}}}}}},
	},
}

func cons(h, t core.Expr) core.Expr {
	return &core.Apply{Func: &core.Ctor{Type: "Main.L", Variant: "Cons", Tag: 1, Arity: 2}, Args: []core.Expr{h, t}}
}

var nilL = &core.Ctor{Type: "Main.L", Variant: "Nil", Tag: 0}

func TestLambdaCreate(t *testing.T) {
	a, x, y := v(1, "a"), v(2, "x"), v(3, "y")
	add := func(l, r core.Expr) core.Expr { return method(intDict(rt.Num), rt.Num, rt.MethodAdd, l, r) }
	lambdaCreate := &core.Function{
		Name: "Main.lambdaCreate",
		Body: &core.Let{Var: a, Value: lit(int64(1)), Body: &core.Lambda{
			ID: 1, Params: []core.Var{x, y}, Free: []core.Var{a}, Body: add(add(x, y), a),
		}},
	}
	tests := []struct {
		name string
		expr core.Expr
		want rt.Value
	}{
		{"all at once", &core.Apply{Func: &core.Global{Name: "Main.lambdaCreate"}, Args: []core.Expr{lit(int64(2)), lit(int64(3))}}, int64(6)},
		{"partial", &core.Let{
			Var:   v(4, "p"),
			Value: &core.Apply{Func: &core.Global{Name: "Main.lambdaCreate"}, Args: []core.Expr{lit(int64(2))}},
			Body:  &core.Apply{Func: v(4, "p"), Args: []core.Expr{lit(int64(10))}},
		}, int64(13)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.expr, lambdaCreate)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDerivedInstances(t *testing.T) {
	xs := cons(lit(int64(1)), cons(lit(int64(2)), nilL))
	eqDict := &core.DictInstance{Class: rt.Eq, Type: "Main.L", Args: []core.Expr{intDict(rt.Eq)}}
	showDict := &core.DictInstance{Class: rt.Show, Type: "Main.L", Args: []core.Expr{intDict(rt.Show)}}

	got, err := run(t, method(eqDict, rt.Eq, rt.MethodEq, xs, cons(lit(int64(1)), cons(lit(int64(2)), nilL))))
	if err != nil || got != true {
		t.Errorf("derived eq = %v, %v", got, err)
	}
	got, err = run(t, method(eqDict, rt.Eq, rt.MethodNotEq, xs, nilL))
	if err != nil || got != true {
		t.Errorf("derived neq = %v, %v", got, err)
	}
	got, err = run(t, &core.Format{Parts: []string{"<", ">"}, Args: []core.Expr{xs}, Dicts: []core.Expr{showDict}})
	if err != nil || got != "<Cons (1) (Cons (2) (Nil))>" {
		t.Errorf("derived show = %v, %v", got, err)
	}
}

func TestMatch(t *testing.T) {
	s, h, tl, f1, f2 := v(1, "s"), v(2, "h"), v(3, "t"), v(4, "f"), v(5, "f")
	// case s of Cons h t if h > 1 -> h; _ -> 0
	m := &core.Match{
		Vars: []core.Var{s},
		Tree: &core.Switch{Var: s, Type: "Main.L", Cases: []core.SwitchCase{{
			Tag: 1, Variant: "Cons", Fields: []core.Var{f1, f2},
			Next: &core.Leaf{Arm: 0, Bindings: []core.Binding{{Var: h, Source: f1}, {Var: tl, Source: f2}}, Else: &core.Leaf{Arm: 1}},
		}}, Default: &core.Leaf{Arm: 1}},
		Arms: []core.Arm{
			{Guard: method(intDict(rt.Ord), rt.Ord, rt.MethodGreater, h, lit(int64(1))), Body: h},
			{Body: lit(int64(0))},
		},
	}
	tests := []struct {
		name  string
		value core.Expr
		want  rt.Value
	}{
		{"guard holds", cons(lit(int64(5)), nilL), int64(5)},
		{"guard fails", cons(lit(int64(1)), nilL), int64(0)},
		{"default", nilL, int64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, &core.Let{Var: s, Value: tt.value, Body: m})
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchFailureIsFatal(t *testing.T) {
	s := v(1, "s")
	body := &core.Let{Var: s, Value: nilL, Body: &core.Match{
		Vars: []core.Var{s},
		Tree: &core.Switch{Var: s, Type: "Main.L", Cases: []core.SwitchCase{{Tag: 1, Variant: "Cons", Fields: []core.Var{v(2, "f"), v(3, "f")}, Next: &core.Leaf{}}},
			Default: &core.Fail{Message: "test.sk:4:5: no pattern matched in do bind"}},
		Arms: []core.Arm{{Body: lit(int64(1))}},
	}}
	_, err := run(t, body)
	var mf *rt.MatchFailure
	if !errors.As(err, &mf) || mf.Message != "test.sk:4:5: no pattern matched in do bind" {
		t.Errorf("err = %v", err)
	}
}

func TestRuntimeErrors(t *testing.T) {
	_, err := run(t, &core.Apply{Func: lit(int64(1)), Args: []core.Expr{lit(int64(2))}})
	var re *rt.RuntimeError
	if !errors.As(err, &re) {
		t.Errorf("applying an Int: err = %v", err)
	}
	_, err = run(t, method(intDict(rt.Num), rt.Num, rt.MethodDiv, lit(int64(1)), lit(int64(0))))
	if err == nil || err.Error() != "division by zero" {
		t.Errorf("division by zero: err = %v", err)
	}
}

func TestRecordsAndExterns(t *testing.T) {
	var out bytes.Buffer
	person := &core.RecordNew{Type: "Main.Person", FieldNames: []string{"name", "age"}, Fields: []core.Expr{lit("Ann"), lit(int64(30))}}
	printLine := &core.Function{Name: "Std.Prelude.println", DictParams: []core.Var{v(1, "dict")}, Params: []core.Var{v(2, "x")}, Extern: true}
	unknown := &core.Function{Name: "Main.missing", Params: []core.Var{v(3, "x")}, Extern: true}
	main := &core.Function{Name: "Main.main", Body: &core.Apply{
		Func: &core.Global{Name: "Std.Prelude.println"},
		Args: []core.Expr{intDict(rt.Show), &core.FieldGet{Expr: person, Index: 1, Name: "age"}},
	}}
	prog := core.NewProgram(&core.Module{Name: "Main", Functions: []*core.Function{printLine, unknown, main}})
	e := New(context.Background(), prog, rt.NewExterns(&out))
	if missing := e.MissingExterns(); len(missing) != 1 || missing[0] != "Main.missing" {
		t.Errorf("missing externs = %v", missing)
	}
	if _, err := e.Run("Main.main"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "30\n" {
		t.Errorf("output = %q", out.String())
	}
}
