package rt

// Callable is a function value taking exactly Arity arguments per
// invocation.
type Callable interface {
	Arity() int
	Invoke(args []Value) Value
}

// Func is a Callable backed by a Go function.
type Func struct {
	Name string
	N    int
	Fn   func(args []Value) Value
}

func (f *Func) Arity() int                { return f.N }
func (f *Func) Invoke(args []Value) Value { return f.Fn(args) }

// Partial is a callable with some leading arguments supplied.
type Partial struct {
	Fn   Callable
	Args []Value
}

func (p *Partial) Arity() int { return p.Fn.Arity() - len(p.Args) }

func (p *Partial) Invoke(args []Value) Value {
	all := make([]Value, 0, len(p.Args)+len(args))
	all = append(all, p.Args...)
	return p.Fn.Invoke(append(all, args...))
}

// Apply applies f to args. A callable of arity k consumes the first k
// arguments and its result is applied to the rest; with fewer than k
// arguments the result is a partial application.
func Apply(f Value, args ...Value) Value {
	for len(args) > 0 {
		c, ok := f.(Callable)
		if !ok {
			panic(Errorf("%s applied to %d argument(s)", describe(f), len(args)))
		}
		k := c.Arity()
		if k <= 0 {
			panic(Errorf("function of no arguments applied to %d argument(s)", len(args)))
		}
		if len(args) < k {
			return &Partial{Fn: c, Args: append([]Value(nil), args...)}
		}
		f = c.Invoke(args[:k:k])
		args = args[k:]
	}
	return f
}
