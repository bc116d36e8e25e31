// Package evaluator interprets core programs over rt values.
package evaluator

import (
	"context"
	"fmt"

	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/pkg/rt"
)

const maxEvalDepth = 100000

type Evaluator struct {
	program *core.Program
	externs *rt.Externs
	ctx     context.Context
	depth   int
}

func New(ctx context.Context, program *core.Program, externs *rt.Externs) *Evaluator {
	if externs == nil {
		externs = rt.Default
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Evaluator{program: program, externs: externs, ctx: ctx}
}

// MissingExterns lists extern functions without a foreign
// implementation, in program order.
func (e *Evaluator) MissingExterns() []string {
	var out []string
	for _, m := range e.program.Modules {
		for _, f := range m.Functions {
			if _, ok := e.externs.Lookup(f.Name); f.Extern && !ok {
				out = append(out, f.Name)
			}
		}
	}
	return out
}

// Run evaluates the entry function, which must take no arguments.
// Runtime errors and match failures are returned as errors.
func (e *Evaluator) Run(entry string) (result rt.Value, err error) {
	fn := e.program.Function(entry)
	if fn == nil {
		return nil, fmt.Errorf("entry function %s not found", entry)
	}
	if fn.Arity() != 0 {
		return nil, fmt.Errorf("entry function %s must not take arguments", entry)
	}
	defer rt.Recover(&err)
	return e.global(entry), nil
}

// global returns the value of a top level function: its result when it
// takes no arguments, otherwise a callable.
func (e *Evaluator) global(name string) rt.Value {
	fn := e.program.Function(name)
	if fn == nil {
		panic(rt.Errorf("unknown function %s", name))
	}
	if fn.Extern {
		f := e.externs.Must(name)
		if fn.Arity() == 0 {
			return f.Invoke(nil)
		}
		return f
	}
	if fn.Arity() == 0 {
		return e.Eval(fn.Body, NewEnvironment())
	}
	return &function{e: e, fn: fn}
}

// function is a top level function used as a value.
type function struct {
	e  *Evaluator
	fn *core.Function
}

func (f *function) Arity() int { return f.fn.Arity() }

func (f *function) Invoke(args []rt.Value) rt.Value {
	env := NewEnvironment()
	n := len(f.fn.DictParams)
	for i, v := range f.fn.DictParams {
		env.Set(v, args[i])
	}
	for i, v := range f.fn.Params {
		env.Set(v, args[n+i])
	}
	return f.e.Eval(f.fn.Body, env)
}

// closure holds the values of its free variables, captured when it was
// created.
type closure struct {
	e      *Evaluator
	lambda *core.Lambda
	env    *Environment
}

func (c *closure) Arity() int { return len(c.lambda.Params) }

func (c *closure) Invoke(args []rt.Value) rt.Value {
	env := NewEnclosedEnvironment(c.env)
	for i, v := range c.lambda.Params {
		env.Set(v, args[i])
	}
	return c.e.Eval(c.lambda.Body, env)
}

func (e *Evaluator) Eval(expr core.Expr, env *Environment) rt.Value {
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > maxEvalDepth {
		panic(rt.Errorf("maximum recursion depth exceeded"))
	}
	if e.depth%1024 == 0 {
		if err := e.ctx.Err(); err != nil {
			panic(rt.Errorf("execution cancelled: %v", err))
		}
	}
	return e.evalCore(expr, env)
}

func (e *Evaluator) evalAll(exprs []core.Expr, env *Environment) []rt.Value {
	out := make([]rt.Value, len(exprs))
	for i, x := range exprs {
		out[i] = e.Eval(x, env)
	}
	return out
}

func (e *Evaluator) evalCore(expr core.Expr, env *Environment) rt.Value {
	switch v := expr.(type) {
	case core.Var:
		val, ok := env.Get(v)
		if !ok {
			panic(rt.Errorf("unbound variable %s", v))
		}
		return val
	case *core.Global:
		return e.global(v.Name)
	case *core.Ctor:
		if v.FieldNames != nil {
			return rt.RecordConstructor(v.Type, v.FieldNames)
		}
		return rt.Constructor(v.Type, v.Tag, v.Variant, v.Arity)
	case *core.Lit:
		return v.Value
	case *core.Apply:
		f := e.Eval(v.Func, env)
		return rt.Apply(f, e.evalAll(v.Args, env)...)
	case *core.Lambda:
		captured := NewEnvironment()
		for _, fv := range v.Free {
			val, ok := env.Get(fv)
			if !ok {
				panic(rt.Errorf("unbound captured variable %s", fv))
			}
			captured.Set(fv, val)
		}
		return &closure{e: e, lambda: v, env: captured}
	case *core.Let:
		inner := NewEnclosedEnvironment(env)
		inner.Set(v.Var, e.Eval(v.Value, env))
		return e.Eval(v.Body, inner)
	case *core.Seq:
		e.Eval(v.First, env)
		return e.Eval(v.Then, env)
	case *core.If:
		if rt.Truth(e.Eval(v.Cond, env)) {
			return e.Eval(v.Then, env)
		}
		return e.Eval(v.Else, env)
	case *core.Tuple:
		return rt.Tuple(e.evalAll(v.Items, env))
	case *core.List:
		return rt.List(e.evalAll(v.Items, env))
	case *core.TupleGet:
		return rt.TupleGet(e.Eval(v.Expr, env), v.Index)
	case *core.FieldGet:
		return rt.Field(e.Eval(v.Expr, env), v.Index)
	case *core.RecordNew:
		return rt.NewRecord(v.Type, v.FieldNames, e.evalAll(v.Fields, env)...)
	case *core.Method:
		return rt.Method(e.Eval(v.Dict, env).(*rt.Dict), v.Name)
	case *core.DictInstance:
		return e.dict(v, env, nil)
	case *core.Format:
		args := e.evalAll(v.Args, env)
		dicts := make([]*rt.Dict, len(v.Dicts))
		for i, d := range v.Dicts {
			dicts[i] = e.Eval(d, env).(*rt.Dict)
		}
		return rt.Format(v.Parts, args, dicts)
	case *core.Match:
		return e.match(v, env)
	case *core.Fail:
		return rt.Fail(v.Message)
	}
	panic(rt.Errorf("cannot evaluate %T", expr))
}

// dict builds a dictionary. params are the dictionaries of the derived
// instance whose field witnesses are being evaluated.
func (e *Evaluator) dict(expr core.Expr, env *Environment, params []*rt.Dict) *rt.Dict {
	switch v := expr.(type) {
	case *core.DictParam:
		return params[v.Index]
	case *core.DictInstance:
		args := make([]*rt.Dict, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.dict(a, env, params)
		}
		data := e.program.Data(v.Type)
		if data == nil || data.Extern {
			return rt.Instance(v.Class, v.Type, args...)
		}
		derived := data.Derives(v.Class)
		if derived == nil {
			panic(rt.Errorf("%s does not derive %s", v.Type, v.Class))
		}
		return rt.Derive(v.Class, v.Type, func(tag int) []*rt.Dict {
			ws := derived.FieldWitnesses[tag]
			out := make([]*rt.Dict, len(ws))
			for i, w := range ws {
				out[i] = e.dict(w, env, args)
			}
			return out
		})
	}
	return e.Eval(expr, env).(*rt.Dict)
}

func (e *Evaluator) match(m *core.Match, env *Environment) rt.Value {
	return e.decide(m.Tree, m, NewEnclosedEnvironment(env))
}

func (e *Evaluator) decide(d core.Decision, m *core.Match, env *Environment) rt.Value {
	get := func(v core.Var) rt.Value {
		val, ok := env.Get(v)
		if !ok {
			panic(rt.Errorf("unbound match variable %s", v))
		}
		return val
	}
	switch v := d.(type) {
	case *core.Switch:
		tag := rt.Tag(get(v.Var))
		for _, c := range v.Cases {
			if c.Tag == tag {
				data := get(v.Var).(*rt.Data)
				for i, f := range c.Fields {
					env.Set(f, data.Fields[i])
				}
				return e.decide(c.Next, m, env)
			}
		}
		if v.Default == nil {
			panic(rt.Errorf("no case for tag %d of %s", tag, v.Type))
		}
		return e.decide(v.Default, m, env)
	case *core.Destructure:
		val := get(v.Var)
		for i, f := range v.Fields {
			if v.Record {
				env.Set(f, rt.Field(val, i))
			} else {
				env.Set(f, rt.TupleGet(val, i))
			}
		}
		return e.decide(v.Next, m, env)
	case *core.LitSwitch:
		val := get(v.Var)
		for _, c := range v.Cases {
			if c.Value == val {
				return e.decide(c.Next, m, env)
			}
		}
		return e.decide(v.Default, m, env)
	case *core.Leaf:
		for _, b := range v.Bindings {
			env.Set(b.Var, get(b.Source))
		}
		arm := m.Arms[v.Arm]
		if arm.Guard != nil && !rt.Truth(e.Eval(arm.Guard, env)) {
			return e.decide(v.Else, m, env)
		}
		return e.Eval(arm.Body, env)
	case *core.Fail:
		return rt.Fail(v.Message)
	}
	panic(rt.Errorf("cannot run decision %T", d))
}
