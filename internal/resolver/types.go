package resolver

import (
	"strings"

	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/config"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/symbols"
)

func (r *Resolver) resolveData(d ast.DataDefinition) *ir.DataDef {
	out := &ir.DataDef{Loc: d.Location(), Ref: ir.Ref{Module: r.mod.Name, Name: d.DataName()}, Params: d.Params()}
	params := make(map[string]bool)
	for _, p := range d.Params() {
		params[p] = true
	}
	for _, c := range d.DerivedClasses() {
		if config.IsDerivable(c.Name) {
			out.Derived = append(out.Derived, ir.Derived{Class: c.Name, Loc: c.Loc})
		}
	}
	switch def := d.(type) {
	case *ast.AdtDef:
		for i, v := range def.Variants {
			variant := &ir.Variant{Loc: v.Loc, Name: v.Name, Tag: i}
			for _, f := range v.Fields {
				variant.Fields = append(variant.Fields, r.resolveType(f, params))
			}
			out.Variants = append(out.Variants, variant)
		}
	case *ast.RecordDef:
		out.Record = true
		out.Extern = def.External
		for i, f := range def.Fields {
			out.Fields = append(out.Fields, &ir.Field{Loc: f.Loc, Name: f.Name, Index: i, Type: r.resolveType(f.Type, params)})
		}
	}
	return out
}

func (r *Resolver) resolveSignature(sig *ast.FunctionSignature) *ir.Signature {
	out := &ir.Signature{Loc: sig.Loc, Type: r.resolveType(sig.Type, nil)}
	for _, c := range sig.Constraints {
		if !config.IsKnownClass(c.Class) {
			r.errorf(diagnostics.ErrN007, c.Loc, "unknown class %s in constraint%s", c.Class, suggestion(c.Class, config.KnownClasses))
			continue
		}
		out.Constraints = append(out.Constraints, ir.Constraint{Loc: c.Loc, Class: c.Class, Var: c.Var})
	}
	return out
}

// resolveType resolves type names. When params is non-nil, type
// variables must be among them.
func (r *Resolver) resolveType(t ast.TypeExpr, params map[string]bool) ir.TypeExpr {
	switch v := t.(type) {
	case *ast.NamedType:
		out := &ir.TypeRef{Loc: v.Loc, Ref: r.resolveTypeName(v.Name, v.Loc)}
		for _, a := range v.Args {
			out.Args = append(out.Args, r.resolveType(a, params))
		}
		return out
	case *ast.VarType:
		if params != nil && !params[v.Name] {
			r.errorf(diagnostics.ErrN001, v.Loc, "unknown type variable %s", v.Name)
		}
		return &ir.TypeVar{Loc: v.Loc, Name: v.Name}
	case *ast.ListType:
		return &ir.ListType{Loc: v.Loc, Elem: r.resolveType(v.Elem, params)}
	case *ast.TupleType:
		out := &ir.TupleType{Loc: v.Loc}
		for _, it := range v.Items {
			out.Items = append(out.Items, r.resolveType(it, params))
		}
		return out
	case *ast.FuncType:
		return &ir.FuncType{Loc: v.Loc, Param: r.resolveType(v.Param, params), Result: r.resolveType(v.Result, params)}
	}
	return nil
}

func (r *Resolver) resolveTypeName(name string, loc location.ID) ir.Ref {
	item, ok := r.lookup(symbols.TypeNamespace, name, loc, "type")
	if !ok {
		return ir.Ref{Module: r.mod.Name, Name: name}
	}
	return ir.Ref{Module: item.Module, Name: item.Name}
}

// lookup resolves a name to exactly one item, reporting unknown and
// ambiguous names.
func (r *Resolver) lookup(ns symbols.Namespace, name string, loc location.ID, what string) (symbols.Item, bool) {
	items := r.scope.Lookup(ns, name)
	switch len(items) {
	case 0:
		r.errorf(diagnostics.ErrN001, loc, "unknown %s %s%s", what, name, suggestion(name, r.scope.Names(ns)))
		return symbols.Item{}, false
	case 1:
		return items[0], true
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Qualified()
	}
	r.errorf(diagnostics.ErrN002, loc, "ambiguous %s %s: could be %s", what, name, strings.Join(names, " or "))
	return symbols.Item{}, false
}
