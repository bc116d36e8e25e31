package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/funvibe/siko/internal/core"
)

type emitter struct {
	mod     *core.Module
	program *core.Program
	buf     bytes.Buffer
	indent  int

	// lambdas waiting for their closure type, in order of appearance.
	lambdas []*core.Lambda
	queued  map[int]bool
}

func newEmitter(mod *core.Module, program *core.Program) *emitter {
	return &emitter{mod: mod, program: program, queued: make(map[int]bool)}
}

func (e *emitter) line(format string, args ...interface{}) {
	e.buf.WriteString(strings.Repeat("\t", e.indent))
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *emitter) open(format string, args ...interface{}) {
	e.line(format, args...)
	e.indent++
}

func (e *emitter) close(format string, args ...interface{}) {
	e.indent--
	e.line(format, args...)
}

// capture runs f with output redirected and returns what it wrote.
func (e *emitter) capture(f func()) string {
	saved := e.buf
	e.buf = bytes.Buffer{}
	f()
	out := e.buf.String()
	e.buf = saved
	return out
}

func (e *emitter) module() {
	for _, d := range e.mod.Data {
		e.data(d)
	}
	for _, f := range e.mod.Functions {
		e.function(f)
	}
	for len(e.lambdas) > 0 {
		l := e.lambdas[0]
		e.lambdas = e.lambdas[1:]
		e.closure(l)
	}
}

func (e *emitter) tagConst(d *core.DataDef, v core.Variant) string {
	if d.Record {
		return "0"
	}
	return ident(d.Name) + "_" + v.Name + "_tag"
}

func (e *emitter) variantFunc(d *core.DataDef, v core.Variant) string {
	if d.Record {
		return ident(d.Name)
	}
	return ident(d.Name) + "_" + v.Name
}

func fieldParams(n int) (names []string, decl string) {
	for i := 0; i < n; i++ {
		names = append(names, fmt.Sprintf("f%d", i))
	}
	if n > 0 {
		decl = strings.Join(names, ", ") + " rt.Value"
	}
	return names, decl
}

func (e *emitter) data(d *core.DataDef) {
	name := ident(d.Name)
	e.line("// %s", d.Name)
	if d.Extern {
		e.line("type %s = rt.Value", name)
		e.line("")
		return
	}
	if d.Record {
		v := d.Variants[0]
		e.line("var %s_fields = %s", name, stringSlice(v.FieldNames))
		e.line("")
		names, decl := fieldParams(v.Arity)
		e.open("func %s(%s) rt.Value {", name, decl)
		e.line("return rt.NewRecord(%q, %s_fields%s)", d.Name, name, trailing(names))
		e.close("}")
		e.line("")
	} else {
		e.open("const (")
		for _, v := range d.Variants {
			e.line("%s = %d", e.tagConst(d, v), v.Tag)
		}
		e.close(")")
		e.line("")
		for _, v := range d.Variants {
			names, decl := fieldParams(v.Arity)
			e.open("func %s(%s) rt.Value {", e.variantFunc(d, v), decl)
			e.line("return rt.NewData(%q, %s, %q%s)", d.Name, e.tagConst(d, v), v.Name, trailing(names))
			e.close("}")
			e.line("")
		}
	}
	for _, der := range d.Derived {
		e.derived(d, der)
	}
}

func trailing(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return ", " + strings.Join(args, ", ")
}

func stringSlice(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

func params(vs []core.Var) string {
	if len(vs) == 0 {
		return ""
	}
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.String()
	}
	return strings.Join(names, ", ") + " rt.Value"
}

func (e *emitter) function(f *core.Function) {
	all := append(append([]core.Var(nil), f.DictParams...), f.Params...)
	name := ident(f.Name)
	e.open("func %s(%s) rt.Value {", name, params(all))
	if f.Extern {
		args := "nil"
		if len(all) > 0 {
			args = "[]rt.Value{" + varList(all) + "}"
		}
		e.line("return rt.Default.Must(%q).Invoke(%s)", f.Name, args)
	} else {
		e.tail(f.Body)
	}
	e.close("}")
	e.line("")
	if len(all) == 0 {
		return
	}
	e.open("func %s_fn() rt.Value {", name)
	e.open("return &rt.Func{Name: %q, N: %d, Fn: func(args []rt.Value) rt.Value {", f.Name, len(all))
	e.line("return %s(%s)", name, argList(len(all)))
	e.close("}}")
	e.close("}")
	e.line("")
}

func varList(vs []core.Var) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.String()
	}
	return strings.Join(names, ", ")
}

func argList(n int) string {
	args := make([]string, n)
	for i := range args {
		args[i] = fmt.Sprintf("args[%d]", i)
	}
	return strings.Join(args, ", ")
}

func (e *emitter) closureName(l *core.Lambda) string {
	return fmt.Sprintf("%s_closure%d", ident(e.mod.Name), l.ID)
}

// closure emits the type of a lambda: a struct holding its free
// variables with the rt.Callable methods.
func (e *emitter) closure(l *core.Lambda) {
	name := e.closureName(l)
	if len(l.Free) == 0 {
		e.line("type %s struct{}", name)
	} else {
		e.open("type %s struct {", name)
		for _, v := range l.Free {
			e.line("%s rt.Value", v)
		}
		e.close("}")
	}
	e.line("")
	e.line("func (c *%s) Arity() int { return %d }", name, len(l.Params))
	e.line("")
	e.open("func (c *%s) Invoke(args []rt.Value) rt.Value {", name)
	var bound []core.Var
	for _, v := range l.Free {
		e.line("%s := c.%s", v, v)
		bound = append(bound, v)
	}
	for i, v := range l.Params {
		e.line("%s := args[%d]", v, i)
		bound = append(bound, v)
	}
	e.discard(bound)
	e.tail(l.Body)
	e.close("}")
	e.line("")
}

// discard marks variables as used.
func (e *emitter) discard(vs []core.Var) {
	if len(vs) == 0 {
		return
	}
	e.line("%s = %s", strings.TrimSuffix(strings.Repeat("_, ", len(vs)), ", "), varList(vs))
}
