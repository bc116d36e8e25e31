package resolver

import (
	"strings"
	"unicode"

	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/symbols"
)

func (r *Resolver) resolveFunction(fn *ast.Function, sig *ast.FunctionSignature) *ir.Function {
	out := &ir.Function{Loc: fn.Loc, Ref: ir.Ref{Module: r.mod.Name, Name: fn.Name}, Name: fn.Name}
	if sig != nil {
		out.Signature = r.resolveSignature(sig)
	}
	r.frames = nil
	r.lambdas = nil
	r.pushFrame()
	bound := make(map[string]location.ID)
	for _, p := range fn.Args {
		out.Params = append(out.Params, r.resolvePattern(p, bound))
	}
	if fn.Body != nil {
		out.Body = r.resolveExpr(fn.Body)
	}
	r.popFrame()
	return out
}

func (r *Resolver) pushFrame() {
	r.frames = append(r.frames, make(map[string]ir.VarID))
}

func (r *Resolver) popFrame() {
	r.frames = r.frames[:len(r.frames)-1]
}

func (r *Resolver) bindLocal(name string) ir.VarID {
	r.nextVar++
	r.frames[len(r.frames)-1][name] = r.nextVar
	return r.nextVar
}

// lookupLocal finds a local variable, innermost frame first, and records
// it as a capture of every lambda between its frame and the use.
func (r *Resolver) lookupLocal(name string, ref *ir.LocalRef) bool {
	for i := len(r.frames) - 1; i >= 0; i-- {
		id, ok := r.frames[i][name]
		if !ok {
			continue
		}
		ref.Var = id
		for _, lam := range r.lambdas {
			if i < lam.base && !lam.captured[id] {
				lam.captured[id] = true
				lam.node.Captures = append(lam.node.Captures, &ir.LocalRef{Base: ir.Base{ID: ref.ID, Loc: ref.Loc}, Var: id, Name: name})
			}
		}
		return true
	}
	return false
}

func isConstructorName(name string) bool {
	last := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		last = name[i+1:]
	}
	for _, c := range last {
		return unicode.IsUpper(c)
	}
	return false
}

func (r *Resolver) resolveExprs(exprs []ast.Expression) []ir.Expr {
	out := make([]ir.Expr, len(exprs))
	for i, e := range exprs {
		out[i] = r.resolveExpr(e)
	}
	return out
}

func (r *Resolver) resolveExpr(e ast.Expression) ir.Expr {
	switch v := e.(type) {
	case *ast.Path:
		return r.resolvePath(v)
	case *ast.IntLit:
		return &ir.IntLit{Base: r.base(v.Loc), Value: v.Value}
	case *ast.FloatLit:
		return &ir.FloatLit{Base: r.base(v.Loc), Value: v.Value}
	case *ast.StringLit:
		return &ir.StringLit{Base: r.base(v.Loc), Value: v.Value}
	case *ast.BoolLit:
		return &ir.BoolLit{Base: r.base(v.Loc), Value: v.Value}
	case *ast.FunctionCall:
		b := r.base(v.Loc)
		return &ir.Call{Base: b, Callee: r.resolveExpr(v.Callee), Args: r.resolveExprs(v.Args)}
	case *ast.Builtin:
		b := r.base(v.Loc)
		return &ir.Op{Base: b, Op: v.Op, Args: r.resolveExprs(v.Args)}
	case *ast.If:
		b := r.base(v.Loc)
		return &ir.If{Base: b, Cond: r.resolveExpr(v.Cond), Then: r.resolveExpr(v.Then), Else: r.resolveExpr(v.Else)}
	case *ast.Tuple:
		b := r.base(v.Loc)
		return &ir.Tuple{Base: b, Items: r.resolveExprs(v.Items)}
	case *ast.List:
		b := r.base(v.Loc)
		return &ir.List{Base: b, Items: r.resolveExprs(v.Items)}
	case *ast.Lambda:
		return r.resolveLambda(v)
	case *ast.Do:
		return r.resolveDo(v)
	case *ast.Bind:
		// a bind outside a do block is rejected by the parser
		r.errorf(diagnostics.ErrP001, v.Loc, "binding outside of a do block")
		return &ir.Tuple{Base: r.base(v.Loc)}
	case *ast.FieldAccess:
		b := r.base(v.Loc)
		out := &ir.FieldAccess{Base: b, Expr: r.resolveExpr(v.Expr), Field: v.Field}
		out.Candidates = r.fieldOwners(v.Field, v.Loc)
		return out
	case *ast.TupleFieldAccess:
		b := r.base(v.Loc)
		return &ir.TupleField{Base: b, Expr: r.resolveExpr(v.Expr), Index: v.Index}
	case *ast.Formatter:
		b := r.base(v.Loc)
		return &ir.Format{Base: b, Parts: v.Parts, Args: r.resolveExprs(v.Args)}
	case *ast.CaseOf:
		return r.resolveCase(v)
	case *ast.RecordInitialization:
		return r.resolveRecordInit(v)
	case *ast.RecordUpdate:
		return r.resolveRecordUpdate(v)
	}
	r.errorf(diagnostics.ErrP001, e.Location(), "unsupported expression %T", e)
	return &ir.Tuple{Base: r.base(e.Location())}
}

func (r *Resolver) resolvePath(p *ast.Path) ir.Expr {
	b := r.base(p.Loc)
	if isConstructorName(p.Name) {
		item, ok := r.lookup(symbols.ValueNamespace, p.Name, p.Loc, "constructor")
		if !ok {
			return &ir.CtorRef{Base: b, Variant: p.Name}
		}
		return &ir.CtorRef{Base: b, Type: ir.Ref{Module: item.Module, Name: item.Owner}, Variant: item.Name, Tag: item.Index}
	}
	if !strings.Contains(p.Name, ".") {
		ref := &ir.LocalRef{Base: b, Name: p.Name}
		if r.lookupLocal(p.Name, ref) {
			return ref
		}
	}
	item, ok := r.lookup(symbols.ValueNamespace, p.Name, p.Loc, "name")
	if !ok {
		return &ir.GlobalRef{Base: b, Ref: ir.Ref{Module: r.mod.Name, Name: p.Name}}
	}
	return &ir.GlobalRef{Base: b, Ref: ir.Ref{Module: item.Module, Name: item.Name}}
}

func (r *Resolver) resolveLambda(l *ast.Lambda) ir.Expr {
	out := &ir.Lambda{Base: r.base(l.Loc)}
	r.pushFrame()
	frame := &lambdaFrame{base: len(r.frames) - 1, node: out, captured: make(map[ir.VarID]bool)}
	bound := make(map[string]location.ID)
	for _, p := range l.Params {
		out.Params = append(out.Params, r.resolvePattern(p, bound))
	}
	r.lambdas = append(r.lambdas, frame)
	out.Body = r.resolveExpr(l.Body)
	r.lambdas = r.lambdas[:len(r.lambdas)-1]
	r.popFrame()
	return out
}

// resolveDo gives each bind a new frame so later statements see the
// bound names and earlier ones do not.
func (r *Resolver) resolveDo(d *ast.Do) ir.Expr {
	out := &ir.Do{Base: r.base(d.Loc)}
	depth := len(r.frames)
	for _, item := range d.Items {
		bind, ok := item.(*ast.Bind)
		if !ok {
			out.Items = append(out.Items, r.resolveExpr(item))
			continue
		}
		b := r.base(bind.Loc)
		value := r.resolveExpr(bind.Value)
		r.pushFrame()
		pat := r.resolvePattern(bind.Pattern, make(map[string]location.ID))
		out.Items = append(out.Items, &ir.Bind{Base: b, Pattern: pat, Value: value})
	}
	r.frames = r.frames[:depth]
	return out
}

func (r *Resolver) resolveCase(c *ast.CaseOf) ir.Expr {
	out := &ir.Case{Base: r.base(c.Loc), Scrutinee: r.resolveExpr(c.Scrutinee)}
	for _, alt := range c.Cases {
		r.pushFrame()
		a := &ir.Alt{Loc: alt.Loc, Pattern: r.resolvePattern(alt.Pattern, make(map[string]location.ID))}
		if alt.Guard != nil {
			a.Guard = r.resolveExpr(alt.Guard)
		}
		a.Body = r.resolveExpr(alt.Body)
		r.popFrame()
		out.Alts = append(out.Alts, a)
	}
	return out
}

// fieldOwners returns every visible record type having field.
func (r *Resolver) fieldOwners(field string, loc location.ID) []ir.Ref {
	items := r.scope.Fields(field)
	if len(items) == 0 {
		r.errorf(diagnostics.ErrN008, loc, "unknown record field %s%s", field, suggestion(field, r.scope.Names(symbols.FieldNamespace)))
		return nil
	}
	out := make([]ir.Ref, 0, len(items))
	for _, it := range items {
		out = append(out, ir.Ref{Module: it.Module, Name: it.Owner})
	}
	return out
}

func (r *Resolver) resolveFieldValues(fields []*ast.FieldInit) []*ir.FieldValue {
	seen := make(map[string]bool)
	var out []*ir.FieldValue
	for _, f := range fields {
		if seen[f.Name] {
			r.errorf(diagnostics.ErrN005, f.Loc, "field %s given twice", f.Name)
			continue
		}
		seen[f.Name] = true
		out = append(out, &ir.FieldValue{Loc: f.Loc, Name: f.Name, Value: r.resolveExpr(f.Value)})
	}
	return out
}

func (r *Resolver) resolveRecordInit(ri *ast.RecordInitialization) ir.Expr {
	out := &ir.RecordInit{Base: r.base(ri.Loc)}
	item, ok := r.lookup(symbols.ValueNamespace, ri.Name, ri.Loc, "record")
	if ok {
		out.Record = ir.Ref{Module: item.Module, Name: item.Owner}
		info := r.data[out.Record.String()]
		if info == nil || !info.Record {
			r.errorf(diagnostics.ErrN008, ri.Loc, "%s is not a record", ri.Name)
			ok = false
		}
		for _, f := range ri.Fields {
			if ok && info.FieldIndex(f.Name) < 0 {
				r.errorf(diagnostics.ErrN008, f.Loc, "record %s has no field %s%s", ri.Name, f.Name, suggestion(f.Name, info.Fields))
			}
		}
	}
	out.Fields = r.resolveFieldValues(ri.Fields)
	return out
}

func (r *Resolver) resolveRecordUpdate(ru *ast.RecordUpdate) ir.Expr {
	out := &ir.RecordUpdate{Base: r.base(ru.Loc), Expr: r.resolveExpr(ru.Expr)}
	out.Fields = r.resolveFieldValues(ru.Fields)
	var owners []ir.Ref
	for i, f := range out.Fields {
		refs := r.fieldOwners(f.Name, f.Loc)
		if i == 0 {
			owners = refs
			continue
		}
		owners = intersect(owners, refs)
	}
	if len(owners) == 0 && len(out.Fields) > 1 {
		r.errorf(diagnostics.ErrN008, ru.Loc, "no record has all of the updated fields")
	}
	out.Candidates = owners
	return out
}

func intersect(a, b []ir.Ref) []ir.Ref {
	var out []ir.Ref
	for _, x := range a {
		for _, y := range b {
			if x == y {
				out = append(out, x)
				break
			}
		}
	}
	return out
}
