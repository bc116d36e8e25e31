// Package desugar lowers a checked module to core: generalized
// application, explicit dictionaries, closures with their free
// variables and compiled pattern matches.
package desugar

import (
	"github.com/funvibe/siko/internal/analyzer"
	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/match"
)

type desugarer struct {
	mod    *ir.Module
	res    *analyzer.Result
	table  *location.Table
	errors []*diagnostics.DiagnosticError

	nextVar    int
	nextLambda int

	// dictionary parameters of the function being lowered
	dicts []core.Var
	fn    string
}

// Desugar lowers mod. Non-exhaustive and unreachable case alternatives
// are reported; the module is still produced.
func Desugar(mod *ir.Module, res *analyzer.Result, table *location.Table) (*core.Module, []*diagnostics.DiagnosticError) {
	d := &desugarer{mod: mod, res: res, table: table, nextVar: mod.VarCount}
	out := &core.Module{Name: mod.Name}
	for _, data := range mod.Data {
		out.Data = append(out.Data, d.lowerData(data))
	}
	for _, fn := range mod.Functions {
		if res.Scheme(fn.Ref.String()) == nil {
			continue
		}
		out.Functions = append(out.Functions, d.lowerFunction(fn))
	}
	return out, d.errors
}

func (d *desugarer) fresh(name string) core.Var {
	d.nextVar++
	return core.Var{ID: d.nextVar, Name: name}
}

func (d *desugarer) errorf(code diagnostics.ErrorCode, loc location.ID, format string, args ...interface{}) {
	d.errors = append(d.errors, diagnostics.NewError(code, d.table, loc, format, args...))
}

// invariant aborts the run on IR that an earlier stage should have
// rejected.
func invariant(format string, args ...interface{}) {
	panic(diagnostics.Invariant("desugar", format, args...))
}

// dataType looks up a checked data type; the resolver and analyzer
// guarantee it exists.
func (d *desugarer) dataType(name string) *analyzer.DataType {
	dt := d.res.DataType(name)
	if dt == nil {
		invariant("unknown data type %s", name)
	}
	return dt
}

func (d *desugarer) position(loc location.ID) string {
	return d.table.Lookup(loc).String()
}

func (d *desugarer) lowerData(def *ir.DataDef) *core.DataDef {
	dt := d.dataType(def.Ref.String())
	out := &core.DataDef{Name: def.Ref.String(), Params: def.Params, Record: def.Record, Extern: def.Extern}
	out.Variants = variantsOf(dt)
	for _, der := range def.Derived {
		derived := core.Derived{Class: der.Class}
		for _, fields := range dt.FieldWitnesses[der.Class] {
			var ws []core.Expr
			for _, w := range fields {
				ws = append(ws, d.dataWitness(w))
			}
			derived.FieldWitnesses = append(derived.FieldWitnesses, ws)
		}
		out.Derived = append(out.Derived, derived)
	}
	return out
}

func variantsOf(dt *analyzer.DataType) []core.Variant {
	var out []core.Variant
	for _, v := range dt.Variants {
		cv := core.Variant{Name: v.Name, Tag: v.Tag, Arity: len(v.Fields)}
		if dt.Record {
			cv.FieldNames = dt.FieldNames
		}
		out = append(out, cv)
	}
	return out
}

// dataWitness converts a derived instance's field witness; parameters
// refer to the instance's own dictionaries.
func (d *desugarer) dataWitness(w analyzer.Witness) core.Expr {
	switch v := w.(type) {
	case analyzer.Param:
		return &core.DictParam{Index: v.Index}
	case analyzer.Instance:
		out := &core.DictInstance{Class: v.Class, Type: v.Type}
		for _, a := range v.Args {
			out.Args = append(out.Args, d.dataWitness(a))
		}
		return out
	}
	invariant("unknown witness %T", w)
	return nil
}

// witness converts a use-site witness in the current function.
func (d *desugarer) witness(w analyzer.Witness) core.Expr {
	switch v := w.(type) {
	case analyzer.Param:
		if v.Index < 0 || v.Index >= len(d.dicts) {
			invariant("dictionary parameter %d out of range in %s (%d parameters)", v.Index, d.fn, len(d.dicts))
		}
		return d.dicts[v.Index]
	case analyzer.Instance:
		out := &core.DictInstance{Class: v.Class, Type: v.Type}
		for _, a := range v.Args {
			out.Args = append(out.Args, d.witness(a))
		}
		return out
	}
	invariant("unknown witness %T", w)
	return nil
}

func (d *desugarer) witnesses(site int) []core.Expr {
	var out []core.Expr
	for _, w := range d.res.Witnesses[site] {
		out = append(out, d.witness(w))
	}
	return out
}

func (d *desugarer) lowerFunction(fn *ir.Function) *core.Function {
	scheme := d.res.Scheme(fn.Ref.String())
	out := &core.Function{Name: fn.Ref.String(), Extern: fn.IsExtern()}
	d.fn = fn.Name
	d.dicts = nil
	for range scheme.Constraints {
		d.dicts = append(d.dicts, d.fresh("dict"))
	}
	out.DictParams = d.dicts

	if fn.IsExtern() {
		for _, p := range fn.Params {
			out.Params = append(out.Params, d.paramVar(p))
		}
		return out
	}
	out.Params, out.Body = d.lowerParams(fn.Params, fn.Body, fn.Loc, "arguments of "+fn.Name)
	return out
}

func (d *desugarer) paramVar(p ir.Pattern) core.Var {
	if b, ok := p.(*ir.BindPattern); ok {
		return localVar(b.Var, b.Name)
	}
	return d.fresh("p")
}

func localVar(id ir.VarID, name string) core.Var {
	return core.Var{ID: int(id), Name: name}
}

// lowerParams binds parameter patterns. Plain variables are used
// directly; anything else goes through a match that fails at runtime.
func (d *desugarer) lowerParams(params []ir.Pattern, body ir.Expr, loc location.ID, what string) ([]core.Var, core.Expr) {
	vars := make([]core.Var, len(params))
	simple := true
	for i, p := range params {
		if b, ok := p.(*ir.BindPattern); ok {
			vars[i] = localVar(b.Var, b.Name)
			continue
		}
		simple = false
		vars[i] = d.fresh("p")
	}
	lowered := d.lowerExpr(body)
	if simple {
		return vars, lowered
	}
	row := match.Row{Patterns: make([]match.Pattern, len(params))}
	for i, p := range params {
		row.Patterns[i] = d.pattern(p)
	}
	tree, _ := match.Compile(vars, []match.Row{row}, typeInfo{d.res}, d.fresh)
	d.fillFailures(tree, what, loc)
	return vars, &core.Match{Vars: vars, Tree: tree, Arms: []core.Arm{{Body: lowered}}}
}
