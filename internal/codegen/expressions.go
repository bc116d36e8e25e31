package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/siko/internal/core"
)

// tail emits statements that return the value of x.
func (e *emitter) tail(x core.Expr) {
	switch v := x.(type) {
	case *core.Let:
		if uses(v.Body, v.Var) {
			e.line("%s := %s", v.Var, e.expr(v.Value))
		} else {
			e.line("_ = %s", e.expr(v.Value))
		}
		e.tail(v.Body)
	case *core.Seq:
		e.line("_ = %s", e.expr(v.First))
		e.tail(v.Then)
	case *core.If:
		e.open("if rt.Truth(%s) {", e.expr(v.Cond))
		e.tail(v.Then)
		e.close("}")
		e.tail(v.Else)
	case *core.Match:
		e.decide(v.Tree, v)
	default:
		e.line("return %s", e.expr(x))
	}
}

func uses(body core.Expr, v core.Var) bool {
	for _, fv := range core.FreeVars(body) {
		if fv == v {
			return true
		}
	}
	return false
}

// expr returns a Go expression of type rt.Value.
func (e *emitter) expr(x core.Expr) string {
	switch v := x.(type) {
	case core.Var:
		return v.String()
	case *core.Global:
		fn := e.lookup(v.Name)
		if fn.Arity() == 0 {
			return ident(v.Name) + "()"
		}
		return ident(v.Name) + "_fn()"
	case *core.Ctor:
		return e.ctor(v)
	case *core.Lit:
		return literal(v.Value)
	case *core.Apply:
		return e.apply(v)
	case *core.Lambda:
		if !e.queued[v.ID] {
			e.queued[v.ID] = true
			e.lambdas = append(e.lambdas, v)
		}
		fields := make([]string, len(v.Free))
		for i, fv := range v.Free {
			fields[i] = fmt.Sprintf("%s: %s", fv, fv)
		}
		return fmt.Sprintf("&%s{%s}", e.closureName(v), strings.Join(fields, ", "))
	case *core.Let, *core.Seq, *core.If, *core.Match:
		body := e.capture(func() {
			e.indent++
			e.tail(x)
			e.indent--
		})
		return "func() rt.Value {\n" + body + strings.Repeat("\t", e.indent) + "}()"
	case *core.Tuple:
		if len(v.Items) == 0 {
			return "rt.Unit"
		}
		return "rt.Tuple{" + e.exprs(v.Items) + "}"
	case *core.List:
		return "rt.List{" + e.exprs(v.Items) + "}"
	case *core.TupleGet:
		return fmt.Sprintf("rt.TupleGet(%s, %d)", e.expr(v.Expr), v.Index)
	case *core.FieldGet:
		return fmt.Sprintf("rt.Field(%s, %d)", e.expr(v.Expr), v.Index)
	case *core.RecordNew:
		return fmt.Sprintf("%s(%s)", ident(v.Type), e.exprs(v.Fields))
	case *core.Method:
		return fmt.Sprintf("rt.Method(%s, %q)", e.dict(v.Dict), v.Name)
	case *core.DictInstance:
		return e.dict(v)
	case *core.Format:
		dicts := make([]string, len(v.Dicts))
		for i, d := range v.Dicts {
			dicts[i] = e.dict(d)
		}
		return fmt.Sprintf("rt.Format(%s, []rt.Value{%s}, []*rt.Dict{%s})",
			stringSlice(v.Parts), e.exprs(v.Args), strings.Join(dicts, ", "))
	case *core.Fail:
		return fmt.Sprintf("rt.Fail(%q)", v.Message)
	}
	invariant("cannot translate %T", x)
	return ""
}

func (e *emitter) exprs(xs []core.Expr) string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = e.expr(x)
	}
	return strings.Join(out, ", ")
}

func (e *emitter) lookup(name string) *core.Function {
	fn := e.program.Function(name)
	if fn == nil {
		invariant("unresolved reference to %s in %s", name, e.mod.Name)
	}
	return fn
}

func (e *emitter) dataDef(name string) *core.DataDef {
	d := e.program.Data(name)
	if d == nil {
		invariant("unresolved type %s in %s", name, e.mod.Name)
	}
	return d
}

// apply calls top level functions and constructors directly when they
// receive exactly their arity; everything else goes through rt.Apply.
func (e *emitter) apply(a *core.Apply) string {
	switch f := a.Func.(type) {
	case *core.Global:
		if fn := e.lookup(f.Name); fn.Arity() > 0 && fn.Arity() == len(a.Args) {
			return fmt.Sprintf("%s(%s)", ident(f.Name), e.exprs(a.Args))
		}
	case *core.Ctor:
		if f.Arity > 0 && f.Arity == len(a.Args) {
			return fmt.Sprintf("%s(%s)", e.ctorFunc(f), e.exprs(a.Args))
		}
	}
	return fmt.Sprintf("rt.Apply(%s, %s)", e.expr(a.Func), e.exprs(a.Args))
}

func (e *emitter) ctorFunc(c *core.Ctor) string {
	d := e.dataDef(c.Type)
	for _, v := range d.Variants {
		if v.Name == c.Variant {
			return e.variantFunc(d, v)
		}
	}
	invariant("type %s has no variant %s", c.Type, c.Variant)
	return ""
}

func (e *emitter) ctor(c *core.Ctor) string {
	if c.Arity == 0 {
		return e.ctorFunc(c) + "()"
	}
	if c.FieldNames != nil {
		return fmt.Sprintf("rt.RecordConstructor(%q, %s_fields)", c.Type, ident(c.Type))
	}
	d := e.dataDef(c.Type)
	return fmt.Sprintf("rt.Constructor(%q, %s, %q, %d)", c.Type, e.tagConst(d, core.Variant{Name: c.Variant}), c.Variant, c.Arity)
}

// dict returns a Go expression of type *rt.Dict.
func (e *emitter) dict(x core.Expr) string {
	switch v := x.(type) {
	case core.Var:
		return v.String() + ".(*rt.Dict)"
	case *core.DictParam:
		return fmt.Sprintf("params[%d]", v.Index)
	case *core.DictInstance:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.dict(a)
		}
		if d := e.program.Data(v.Type); d != nil && !d.Extern {
			if d.Derives(v.Class) == nil {
				invariant("%s does not derive %s", v.Type, v.Class)
			}
			return fmt.Sprintf("%s(%s)", derivedName(v.Type, v.Class), strings.Join(args, ", "))
		}
		return fmt.Sprintf("rt.Instance(%q, %q%s)", v.Class, v.Type, trailing(args))
	}
	return e.expr(x) + ".(*rt.Dict)"
}

func literal(v interface{}) string {
	switch x := v.(type) {
	case int64:
		return fmt.Sprintf("int64(%d)", x)
	case float64:
		return "float64(" + strconv.FormatFloat(x, 'g', -1, 64) + ")"
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	}
	invariant("literal of type %T", v)
	return ""
}

// decide emits a decision tree as nested switch statements. Every path
// ends in a return or a panic.
func (e *emitter) decide(d core.Decision, m *core.Match) {
	switch v := d.(type) {
	case nil:
		e.line(`panic(rt.Errorf("no alternative matched"))`)
	case *core.Switch:
		e.line("switch rt.Tag(%s) {", v.Var)
		dd := e.dataDef(v.Type)
		for _, c := range v.Cases {
			e.line("case %s:", e.tagConst(dd, core.Variant{Name: c.Variant}))
			e.indent++
			for i, f := range c.Fields {
				e.line("%s := rt.Field(%s, %d)", f, v.Var, i)
			}
			e.discard(c.Fields)
			e.decide(c.Next, m)
			e.indent--
		}
		e.line("}")
		if v.Default == nil {
			e.line("panic(rt.Errorf(\"no case for %%s\", %q))", v.Type)
			return
		}
		e.decide(v.Default, m)
	case *core.Destructure:
		e.open("{")
		get := "rt.TupleGet"
		if v.Record {
			get = "rt.Field"
		}
		for i, f := range v.Fields {
			e.line("%s := %s(%s, %d)", f, get, v.Var, i)
		}
		e.discard(v.Fields)
		e.decide(v.Next, m)
		e.close("}")
	case *core.LitSwitch:
		e.line("switch %s {", v.Var)
		for _, c := range v.Cases {
			e.line("case %s:", literal(c.Value))
			e.indent++
			e.decide(c.Next, m)
			e.indent--
		}
		e.line("}")
		e.decide(v.Default, m)
	case *core.Leaf:
		e.open("{")
		var bound []core.Var
		for _, b := range v.Bindings {
			e.line("%s := %s", b.Var, b.Source)
			bound = append(bound, b.Var)
		}
		e.discard(bound)
		arm := m.Arms[v.Arm]
		if arm.Guard != nil {
			e.open("if rt.Truth(%s) {", e.expr(arm.Guard))
			e.tail(arm.Body)
			e.close("}")
			e.decide(v.Else, m)
		} else {
			e.tail(arm.Body)
		}
		e.close("}")
	case *core.Fail:
		e.line("return rt.Fail(%q)", v.Message)
	default:
		invariant("cannot translate decision %T", d)
	}
}
