package desugar

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/match"
	"github.com/funvibe/siko/pkg/rt"
)

var operatorMethods = map[ast.BuiltinOp]struct{ class, method string }{
	ast.OpAdd:       {rt.Num, rt.MethodAdd},
	ast.OpSub:       {rt.Num, rt.MethodSub},
	ast.OpMul:       {rt.Num, rt.MethodMul},
	ast.OpDiv:       {rt.Num, rt.MethodDiv},
	ast.OpNegate:    {rt.Num, rt.MethodNegate},
	ast.OpEq:        {rt.Eq, rt.MethodEq},
	ast.OpNotEq:     {rt.Eq, rt.MethodNotEq},
	ast.OpLess:      {rt.Ord, rt.MethodLess},
	ast.OpLessEq:    {rt.Ord, rt.MethodLessEq},
	ast.OpGreater:   {rt.Ord, rt.MethodGreater},
	ast.OpGreaterEq: {rt.Ord, rt.MethodGreaterEq},
}

func (d *desugarer) lowerExprs(es []ir.Expr) []core.Expr {
	out := make([]core.Expr, len(es))
	for i, e := range es {
		out[i] = d.lowerExpr(e)
	}
	return out
}

func (d *desugarer) lowerExpr(e ir.Expr) core.Expr {
	switch v := e.(type) {
	case *ir.IntLit:
		return &core.Lit{Value: v.Value}
	case *ir.FloatLit:
		return &core.Lit{Value: v.Value}
	case *ir.StringLit:
		return &core.Lit{Value: v.Value}
	case *ir.BoolLit:
		return &core.Lit{Value: v.Value}
	case *ir.LocalRef:
		return localVar(v.Var, v.Name)
	case *ir.GlobalRef:
		g := &core.Global{Name: v.Ref.String()}
		if dicts := d.witnesses(v.ID); len(dicts) > 0 {
			return &core.Apply{Func: g, Args: dicts}
		}
		return g
	case *ir.CtorRef:
		return d.ctor(v)
	case *ir.Call:
		args := d.lowerExprs(v.Args)
		callee := d.lowerExpr(v.Callee)
		if inner, ok := callee.(*core.Apply); ok {
			if _, global := inner.Func.(*core.Global); global {
				// dictionaries and arguments in one application
				return &core.Apply{Func: inner.Func, Args: append(append([]core.Expr(nil), inner.Args...), args...)}
			}
		}
		return &core.Apply{Func: callee, Args: args}
	case *ir.Op:
		return d.lowerOp(v)
	case *ir.If:
		return &core.If{Cond: d.lowerExpr(v.Cond), Then: d.lowerExpr(v.Then), Else: d.lowerExpr(v.Else)}
	case *ir.Tuple:
		return &core.Tuple{Items: d.lowerExprs(v.Items)}
	case *ir.List:
		return &core.List{Items: d.lowerExprs(v.Items)}
	case *ir.Lambda:
		return d.lowerLambda(v)
	case *ir.Do:
		return d.lowerDo(v)
	case *ir.FieldAccess:
		choice := d.res.Fields[v.ID]
		return &core.FieldGet{Expr: d.lowerExpr(v.Expr), Index: choice.Index, Name: v.Field}
	case *ir.TupleField:
		return &core.TupleGet{Expr: d.lowerExpr(v.Expr), Index: v.Index}
	case *ir.Format:
		dicts := d.witnesses(v.ID)
		if len(dicts) != len(v.Args) {
			invariant("formatter in %s has %d arguments but %d Show witnesses", d.fn, len(v.Args), len(dicts))
		}
		return &core.Format{Parts: v.Parts, Args: d.lowerExprs(v.Args), Dicts: dicts}
	case *ir.Case:
		return d.lowerCase(v)
	case *ir.RecordInit:
		return d.lowerRecordInit(v)
	case *ir.RecordUpdate:
		return d.lowerRecordUpdate(v)
	}
	invariant("unexpected expression %T in %s", e, d.fn)
	return nil
}

func (d *desugarer) ctor(v *ir.CtorRef) core.Expr {
	dt := d.dataType(v.Type.String())
	variant := dt.Variant(v.Variant)
	if variant == nil {
		invariant("data type %s has no variant %s", v.Type, v.Variant)
	}
	out := &core.Ctor{Type: v.Type.String(), Variant: v.Variant, Tag: v.Tag, Arity: len(variant.Fields)}
	if dt.Record {
		out.FieldNames = dt.FieldNames
	}
	return out
}

func (d *desugarer) lowerOp(v *ir.Op) core.Expr {
	switch v.Op {
	case ast.OpAnd:
		return &core.If{Cond: d.lowerExpr(v.Args[0]), Then: d.lowerExpr(v.Args[1]), Else: &core.Lit{Value: false}}
	case ast.OpOr:
		return &core.If{Cond: d.lowerExpr(v.Args[0]), Then: &core.Lit{Value: true}, Else: d.lowerExpr(v.Args[1])}
	case ast.OpNot:
		return &core.If{Cond: d.lowerExpr(v.Args[0]), Then: &core.Lit{Value: false}, Else: &core.Lit{Value: true}}
	case ast.OpPipeForward:
		return &core.Apply{Func: d.lowerExpr(v.Args[1]), Args: []core.Expr{d.lowerExpr(v.Args[0])}}
	}
	m, ok := operatorMethods[v.Op]
	if !ok {
		invariant("operator %v has no class method", v.Op)
	}
	dicts := d.witnesses(v.ID)
	if len(dicts) == 0 {
		invariant("operator %s in %s has no %s witness", m.method, d.fn, m.class)
	}
	return &core.Apply{
		Func: &core.Method{Dict: dicts[0], Class: m.class, Name: m.method},
		Args: d.lowerExprs(v.Args),
	}
}

func (d *desugarer) lowerLambda(v *ir.Lambda) core.Expr {
	d.nextLambda++
	id := d.nextLambda
	params, body := d.lowerParams(v.Params, v.Body, v.Loc, "lambda arguments")
	return &core.Lambda{ID: id, Params: params, Free: core.FreeVars(body, params...), Body: body}
}

// lowerDo rewrites a block from its last statement backward: binds
// scope over the rest of the block, plain statements are sequenced.
func (d *desugarer) lowerDo(v *ir.Do) core.Expr {
	if len(v.Items) == 0 {
		return &core.Tuple{}
	}
	result := d.lowerExpr(v.Items[len(v.Items)-1])
	for i := len(v.Items) - 2; i >= 0; i-- {
		switch item := v.Items[i].(type) {
		case *ir.Bind:
			result = d.lowerBind(item, result)
		default:
			result = &core.Seq{First: d.lowerExpr(item), Then: result}
		}
	}
	return result
}

func (d *desugarer) lowerBind(b *ir.Bind, rest core.Expr) core.Expr {
	value := d.lowerExpr(b.Value)
	switch p := b.Pattern.(type) {
	case *ir.BindPattern:
		return &core.Let{Var: localVar(p.Var, p.Name), Value: value, Body: rest}
	case *ir.WildcardPattern:
		return &core.Seq{First: value, Then: rest}
	}
	v := d.fresh("bind")
	tree, _ := match.Compile([]core.Var{v}, []match.Row{{Patterns: []match.Pattern{d.pattern(b.Pattern)}}}, typeInfo{d.res}, d.fresh)
	d.fillFailures(tree, "do bind", b.Loc)
	return &core.Let{Var: v, Value: value, Body: &core.Match{Vars: []core.Var{v}, Tree: tree, Arms: []core.Arm{{Body: rest}}}}
}

func (d *desugarer) lowerRecordInit(v *ir.RecordInit) core.Expr {
	dt := d.dataType(v.Record.String())
	fields := make([]core.Expr, len(dt.FieldNames))
	var lets []*core.Let
	for _, f := range v.Fields {
		tmp := d.fresh(f.Name)
		lets = append(lets, &core.Let{Var: tmp, Value: d.lowerExpr(f.Value)})
		fields[fieldIndex(dt.FieldNames, f.Name)] = tmp
	}
	return wrapLets(lets, &core.RecordNew{Type: v.Record.String(), FieldNames: dt.FieldNames, Fields: fields})
}

// lowerRecordUpdate copies the record, replacing the given fields.
func (d *desugarer) lowerRecordUpdate(v *ir.RecordUpdate) core.Expr {
	ref := d.res.Updates[v.ID]
	dt := d.dataType(ref.String())
	rec := d.fresh("rec")
	lets := []*core.Let{{Var: rec, Value: d.lowerExpr(v.Expr)}}
	fields := make([]core.Expr, len(dt.FieldNames))
	for i, name := range dt.FieldNames {
		fields[i] = &core.FieldGet{Expr: rec, Index: i, Name: name}
	}
	for _, f := range v.Fields {
		tmp := d.fresh(f.Name)
		lets = append(lets, &core.Let{Var: tmp, Value: d.lowerExpr(f.Value)})
		fields[fieldIndex(dt.FieldNames, f.Name)] = tmp
	}
	return wrapLets(lets, &core.RecordNew{Type: ref.String(), FieldNames: dt.FieldNames, Fields: fields})
}

func wrapLets(lets []*core.Let, body core.Expr) core.Expr {
	for i := len(lets) - 1; i >= 0; i-- {
		lets[i].Body = body
		body = lets[i]
	}
	return body
}

func fieldIndex(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
