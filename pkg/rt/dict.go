package rt

import (
	"math"
	"strconv"
	"strings"
)

// Class and method names shared with the compiler.
const (
	Eq   = "Eq"
	Ord  = "Ord"
	Show = "Show"
	Num  = "Num"

	MethodEq        = "eq"
	MethodNotEq     = "neq"
	MethodLess      = "lt"
	MethodLessEq    = "le"
	MethodGreater   = "gt"
	MethodGreaterEq = "ge"
	MethodShow      = "show"
	MethodAdd       = "add"
	MethodSub       = "sub"
	MethodMul       = "mul"
	MethodDiv       = "div"
	MethodNegate    = "negate"
)

// Dict is the capabilities of one type for one class. Only the
// operations of Class are set.
type Dict struct {
	Class   string
	Type    string
	Eq      func(a, b Value) bool
	Compare func(a, b Value) int
	Show    func(v Value) string
	Add     func(a, b Value) Value
	Sub     func(a, b Value) Value
	Mul     func(a, b Value) Value
	Div     func(a, b Value) Value
	Negate  func(a Value) Value
}

// Method returns an operation of d as a function value.
func Method(d *Dict, name string) Value {
	binary := func(f func(a, b Value) Value) Value {
		return &Func{Name: name, N: 2, Fn: func(args []Value) Value { return f(args[0], args[1]) }}
	}
	compare := func(ok func(int) bool) Value {
		return binary(func(a, b Value) Value { return ok(d.Compare(a, b)) })
	}
	switch name {
	case MethodEq:
		return binary(func(a, b Value) Value { return d.Eq(a, b) })
	case MethodNotEq:
		return binary(func(a, b Value) Value { return !d.Eq(a, b) })
	case MethodLess:
		return compare(func(c int) bool { return c < 0 })
	case MethodLessEq:
		return compare(func(c int) bool { return c <= 0 })
	case MethodGreater:
		return compare(func(c int) bool { return c > 0 })
	case MethodGreaterEq:
		return compare(func(c int) bool { return c >= 0 })
	case MethodAdd:
		return binary(d.Add)
	case MethodSub:
		return binary(d.Sub)
	case MethodMul:
		return binary(d.Mul)
	case MethodDiv:
		return binary(d.Div)
	case MethodNegate:
		return &Func{Name: name, N: 1, Fn: func(args []Value) Value { return d.Negate(args[0]) }}
	case MethodShow:
		return &Func{Name: name, N: 1, Fn: func(args []Value) Value { return d.Show(args[0]) }}
	}
	panic(Errorf("class %s has no method %s", d.Class, name))
}

// Builtin type names as the compiler qualifies them.
const (
	IntType    = "Std.Prelude.Int"
	FloatType  = "Std.Prelude.Float"
	StringType = "Std.Prelude.String"
	BoolType   = "Std.Prelude.Bool"
	ListType   = "List"
	TupleType  = "Tuple"
)

// Instance returns the builtin dictionary of class for typ. Lists and
// tuples take the dictionaries of their element types.
func Instance(class, typ string, args ...*Dict) *Dict {
	switch typ {
	case IntType, FloatType, StringType, BoolType:
		if d := primitive[class][typ]; d != nil {
			return d
		}
	case ListType:
		if len(args) == 1 {
			return listDict(class, args[0])
		}
	case TupleType:
		return tupleDict(class, args)
	}
	panic(Errorf("no instance %s %s", class, typ))
}

func compareOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func eqPrim(a, b Value) bool { return a == b }

// ShowFloat renders floats the way Show does.
func ShowFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func showBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

var primitive = map[string]map[string]*Dict{
	Eq: {
		IntType:    {Class: Eq, Type: IntType, Eq: eqPrim},
		FloatType:  {Class: Eq, Type: FloatType, Eq: eqPrim},
		StringType: {Class: Eq, Type: StringType, Eq: eqPrim},
		BoolType:   {Class: Eq, Type: BoolType, Eq: eqPrim},
	},
	Ord: {
		IntType:    {Class: Ord, Type: IntType, Compare: func(a, b Value) int { return compareOrdered(a.(int64), b.(int64)) }},
		FloatType:  {Class: Ord, Type: FloatType, Compare: func(a, b Value) int { return compareOrdered(a.(float64), b.(float64)) }},
		StringType: {Class: Ord, Type: StringType, Compare: func(a, b Value) int { return compareOrdered(a.(string), b.(string)) }},
		BoolType:   {Class: Ord, Type: BoolType, Compare: func(a, b Value) int { return compareBool(a.(bool), b.(bool)) }},
	},
	Show: {
		IntType:    {Class: Show, Type: IntType, Show: func(v Value) string { return strconv.FormatInt(v.(int64), 10) }},
		FloatType:  {Class: Show, Type: FloatType, Show: func(v Value) string { return ShowFloat(v.(float64)) }},
		StringType: {Class: Show, Type: StringType, Show: func(v Value) string { return v.(string) }},
		BoolType:   {Class: Show, Type: BoolType, Show: func(v Value) string { return showBool(v.(bool)) }},
	},
	Num: {
		IntType: {
			Class:  Num,
			Type:   IntType,
			Add:    func(a, b Value) Value { return a.(int64) + b.(int64) },
			Sub:    func(a, b Value) Value { return a.(int64) - b.(int64) },
			Mul:    func(a, b Value) Value { return a.(int64) * b.(int64) },
			Div:    divInt,
			Negate: func(a Value) Value { return -a.(int64) },
		},
		FloatType: {
			Class:  Num,
			Type:   FloatType,
			Add:    func(a, b Value) Value { return a.(float64) + b.(float64) },
			Sub:    func(a, b Value) Value { return a.(float64) - b.(float64) },
			Mul:    func(a, b Value) Value { return a.(float64) * b.(float64) },
			Div:    func(a, b Value) Value { return a.(float64) / b.(float64) },
			Negate: func(a Value) Value { return -a.(float64) },
		},
	},
}

func divInt(a, b Value) Value {
	if b.(int64) == 0 {
		panic(Errorf("division by zero"))
	}
	return a.(int64) / b.(int64)
}

func listDict(class string, elem *Dict) *Dict {
	d := &Dict{Class: class, Type: ListType}
	switch class {
	case Eq:
		d.Eq = func(a, b Value) bool {
			x, y := a.(List), b.(List)
			if len(x) != len(y) {
				return false
			}
			for i := range x {
				if !elem.Eq(x[i], y[i]) {
					return false
				}
			}
			return true
		}
	case Ord:
		d.Compare = func(a, b Value) int {
			x, y := a.(List), b.(List)
			for i := 0; i < len(x) && i < len(y); i++ {
				if c := elem.Compare(x[i], y[i]); c != 0 {
					return c
				}
			}
			return compareOrdered(int64(len(x)), int64(len(y)))
		}
	case Show:
		d.Show = func(v Value) string {
			items := v.(List)
			parts := make([]string, len(items))
			for i, it := range items {
				parts[i] = elem.Show(it)
			}
			return "[" + strings.Join(parts, ", ") + "]"
		}
	default:
		panic(Errorf("no instance %s List", class))
	}
	return d
}

func tupleDict(class string, elems []*Dict) *Dict {
	d := &Dict{Class: class, Type: TupleType}
	switch class {
	case Eq:
		d.Eq = func(a, b Value) bool {
			x, y := a.(Tuple), b.(Tuple)
			for i, e := range elems {
				if !e.Eq(x[i], y[i]) {
					return false
				}
			}
			return true
		}
	case Ord:
		d.Compare = func(a, b Value) int {
			x, y := a.(Tuple), b.(Tuple)
			for i, e := range elems {
				if c := e.Compare(x[i], y[i]); c != 0 {
					return c
				}
			}
			return 0
		}
	case Show:
		d.Show = func(v Value) string {
			items := v.(Tuple)
			parts := make([]string, len(items))
			for i, e := range elems {
				parts[i] = e.Show(items[i])
			}
			return "(" + strings.Join(parts, ", ") + ")"
		}
	default:
		panic(Errorf("no instance %s Tuple", class))
	}
	return d
}
