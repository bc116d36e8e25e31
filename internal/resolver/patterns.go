package resolver

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/symbols"
)

// resolvePattern binds the pattern's variables in the innermost frame.
// bound collects the names of one pattern group (all parameters of a
// function or lambda) so a name cannot be bound twice.
func (r *Resolver) resolvePattern(p ast.Pattern, bound map[string]location.ID) ir.Pattern {
	switch v := p.(type) {
	case *ast.BindPattern:
		if first, dup := bound[v.Name]; dup {
			r.errorf(diagnostics.ErrN005, v.Loc, "variable %s bound twice in one pattern (first at %s)", v.Name, r.table.Lookup(first))
		}
		bound[v.Name] = v.Loc
		return &ir.BindPattern{Base: r.base(v.Loc), Var: r.bindLocal(v.Name), Name: v.Name}
	case *ast.WildcardPattern:
		return &ir.WildcardPattern{Base: r.base(v.Loc)}
	case *ast.IntPattern:
		return &ir.IntPattern{Base: r.base(v.Loc), Value: v.Value}
	case *ast.FloatPattern:
		return &ir.FloatPattern{Base: r.base(v.Loc), Value: v.Value}
	case *ast.StringPattern:
		return &ir.StringPattern{Base: r.base(v.Loc), Value: v.Value}
	case *ast.BoolPattern:
		return &ir.BoolPattern{Base: r.base(v.Loc), Value: v.Value}
	case *ast.TuplePattern:
		out := &ir.TuplePattern{Base: r.base(v.Loc)}
		for _, it := range v.Items {
			out.Items = append(out.Items, r.resolvePattern(it, bound))
		}
		return out
	case *ast.VariantPattern:
		out := &ir.VariantPattern{Base: r.base(v.Loc), Variant: v.Name}
		if item, ok := r.lookup(symbols.ValueNamespace, v.Name, v.Loc, "constructor"); ok {
			out.Type = ir.Ref{Module: item.Module, Name: item.Owner}
			out.Variant = item.Name
			out.Tag = item.Index
			if info := r.data[out.Type.String()]; info != nil {
				out.Record = info.Record
			}
		}
		for _, a := range v.Args {
			out.Args = append(out.Args, r.resolvePattern(a, bound))
		}
		return out
	}
	r.errorf(diagnostics.ErrP005, p.Location(), "unsupported pattern %T", p)
	return &ir.WildcardPattern{Base: r.base(p.Location())}
}
