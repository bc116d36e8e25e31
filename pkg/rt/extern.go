package rt

import (
	"fmt"
	"io"
	"os"
)

// Externs holds the foreign implementations of extern functions,
// keyed by qualified name. Functions with class constraints take their
// dictionaries first.
type Externs struct {
	out   io.Writer
	funcs map[string]*Func
}

// Default writes to standard output.
var Default = NewExterns(os.Stdout)

// NewExterns returns the prelude's implementations writing output to
// out.
func NewExterns(out io.Writer) *Externs {
	e := &Externs{out: out, funcs: make(map[string]*Func)}
	e.registerPrelude()
	return e
}

// Register adds or replaces an implementation.
func (e *Externs) Register(name string, arity int, fn func(args []Value) Value) {
	e.funcs[name] = &Func{Name: name, N: arity, Fn: fn}
}

// Lookup finds the implementation of name.
func (e *Externs) Lookup(name string) (*Func, bool) {
	f, ok := e.funcs[name]
	return f, ok
}

// Must returns the implementation of name or raises a runtime error.
func (e *Externs) Must(name string) *Func {
	f, ok := e.funcs[name]
	if !ok {
		panic(Errorf("extern %s has no implementation", name))
	}
	return f
}

func list(v Value) List {
	l, ok := v.(List)
	if !ok {
		panic(Errorf("expected a list, found %s", describe(v)))
	}
	return l
}

func (e *Externs) registerPrelude() {
	const p = "Std.Prelude."
	e.Register(p+"show", 2, func(args []Value) Value {
		return args[0].(*Dict).Show(args[1])
	})
	e.Register(p+"print", 2, func(args []Value) Value {
		fmt.Fprint(e.out, args[0].(*Dict).Show(args[1]))
		return Unit
	})
	e.Register(p+"println", 2, func(args []Value) Value {
		fmt.Fprintln(e.out, args[0].(*Dict).Show(args[1]))
		return Unit
	})
	e.Register(p+"assert", 1, func(args []Value) Value {
		if !Truth(args[0]) {
			panic(Errorf("assertion failed"))
		}
		return Unit
	})
	e.Register(p+"panic", 1, func(args []Value) Value {
		panic(Errorf("%s", args[0].(string)))
	})
	e.Register(p+"length", 1, func(args []Value) Value {
		return int64(len(list(args[0])))
	})
	e.Register(p+"push", 2, func(args []Value) Value {
		l := list(args[0])
		out := make(List, len(l), len(l)+1)
		copy(out, l)
		return append(out, args[1])
	})
	e.Register(p+"concat", 2, func(args []Value) Value {
		a, b := list(args[0]), list(args[1])
		out := make(List, 0, len(a)+len(b))
		return append(append(out, a...), b...)
	})
	e.Register(p+"head", 1, func(args []Value) Value {
		l := list(args[0])
		if len(l) == 0 {
			panic(Errorf("head of empty list"))
		}
		return l[0]
	})
	e.Register(p+"tail", 1, func(args []Value) Value {
		l := list(args[0])
		if len(l) == 0 {
			panic(Errorf("tail of empty list"))
		}
		return l[1:]
	})
	e.Register(p+"isEmpty", 1, func(args []Value) Value {
		return len(list(args[0])) == 0
	})
	e.Register(p+"toFloat", 1, func(args []Value) Value {
		return float64(args[0].(int64))
	})
	e.Register(p+"append", 2, func(args []Value) Value {
		return args[0].(string) + args[1].(string)
	})
}
