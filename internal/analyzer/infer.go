package analyzer

import (
	"strings"

	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/config"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	ts "github.com/funvibe/siko/internal/typesystem"
)

func (c *checker) inferExpr(e ir.Expr) ts.Type {
	return c.record(e, c.inferNode(e))
}

func (c *checker) inferNode(e ir.Expr) ts.Type {
	switch v := e.(type) {
	case *ir.IntLit:
		return ts.Int
	case *ir.FloatLit:
		return ts.Float
	case *ir.StringLit:
		return ts.String
	case *ir.BoolLit:
		return ts.Bool
	case *ir.LocalRef:
		t, ok := c.locals[v.Var]
		if !ok {
			c.fail(diagnostics.ErrA001, v.Loc, "variable %s used before its type is known", v.Name)
		}
		return t
	case *ir.GlobalRef:
		return c.inferGlobal(v)
	case *ir.CtorRef:
		d := c.dataType(v.Type)
		if d == nil || d.Variant(v.Variant) == nil {
			c.fail(diagnostics.ErrA001, v.Loc, "unknown constructor %s", v.Variant)
		}
		dt, sub := c.instantiateData(d)
		fields := d.Variant(v.Variant).Fields
		params := make([]ts.Type, len(fields))
		for i, f := range fields {
			params[i] = f.Apply(sub)
		}
		return ts.Func(params, dt)
	case *ir.Call:
		f := c.inferExpr(v.Callee)
		for i, a := range v.Args {
			f = c.applyArg(f, c.inferExpr(a), v, i, len(v.Args))
		}
		return f
	case *ir.Op:
		return c.inferOp(v)
	case *ir.If:
		c.unify(ts.Bool, c.inferExpr(v.Cond), v.Cond.Location(), "if condition")
		t := c.inferExpr(v.Then)
		c.unify(t, c.inferExpr(v.Else), v.Else.Location(), "else branch")
		return t
	case *ir.Tuple:
		elems := make([]ts.Type, len(v.Items))
		for i, it := range v.Items {
			elems[i] = c.inferExpr(it)
		}
		return ts.TTuple{Elements: elems}
	case *ir.List:
		elem := ts.Type(c.fresh())
		for _, it := range v.Items {
			c.unify(elem, c.inferExpr(it), it.Location(), "list element")
		}
		return ts.List(elem)
	case *ir.Lambda:
		params := make([]ts.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = c.inferPattern(p)
		}
		return ts.Func(params, c.inferExpr(v.Body))
	case *ir.Do:
		var last ts.Type = ts.Unit
		for _, it := range v.Items {
			last = c.inferExpr(it)
		}
		return last
	case *ir.Bind:
		vt := c.inferExpr(v.Value)
		c.unify(c.inferPattern(v.Pattern), vt, v.Loc, "bind")
		return ts.Unit
	case *ir.FieldAccess:
		t := c.inferExpr(v.Expr)
		d, inst, sub := c.chooseRecord(t, v.Field, v.Candidates, v)
		idx := fieldIndex(d, v.Field)
		c.result.Fields[v.ID] = FieldChoice{Record: d.Ref, Index: idx}
		c.unify(inst, t, v.Loc, "field access ."+v.Field)
		return d.Variants[0].Fields[idx].Apply(sub)
	case *ir.TupleField:
		t := c.apply(c.inferExpr(v.Expr))
		tup, ok := t.(ts.TTuple)
		if !ok {
			c.fail(diagnostics.ErrA006, v.Loc, "tuple field .%d needs a value of known tuple type, found %s", v.Index, t)
		}
		if v.Index >= len(tup.Elements) {
			c.fail(diagnostics.ErrA006, v.Loc, "tuple field .%d out of range for %s", v.Index, t)
		}
		return tup.Elements[v.Index]
	case *ir.Format:
		for i, a := range v.Args {
			c.want(config.ShowClass, c.inferExpr(a), v, i)
		}
		return ts.String
	case *ir.Case:
		scrutinee := c.inferExpr(v.Scrutinee)
		result := ts.Type(c.fresh())
		for _, alt := range v.Alts {
			c.unify(scrutinee, c.inferPattern(alt.Pattern), alt.Loc, "case pattern")
			if alt.Guard != nil {
				c.unify(ts.Bool, c.inferExpr(alt.Guard), alt.Guard.Location(), "guard")
			}
			c.unify(result, c.inferExpr(alt.Body), alt.Body.Location(), "case alternative")
		}
		return result
	case *ir.RecordInit:
		return c.inferRecordInit(v)
	case *ir.RecordUpdate:
		t := c.inferExpr(v.Expr)
		field := ""
		if len(v.Fields) > 0 {
			field = v.Fields[0].Name
		}
		d, inst, sub := c.chooseRecord(t, field, v.Candidates, v)
		c.result.Updates[v.ID] = d.Ref
		c.unify(inst, t, v.Loc, "record update")
		for _, f := range v.Fields {
			idx := fieldIndex(d, f.Name)
			if idx < 0 {
				c.fail(diagnostics.ErrA005, f.Loc, "record %s has no field %s", d.Ref.Name, f.Name)
			}
			c.unify(d.Variants[0].Fields[idx].Apply(sub), c.inferExpr(f.Value), f.Loc, "field "+f.Name)
		}
		return inst
	}
	c.fail(diagnostics.ErrA001, e.Location(), "unsupported expression")
	return nil
}

// inferGlobal instantiates a function's scheme and asks for its
// constraints at the reference. Members of the component being
// inferred are used at their monomorphic type.
func (c *checker) inferGlobal(g *ir.GlobalRef) ts.Type {
	name := g.Ref.String()
	if t, ok := c.mono[name]; ok {
		c.calls = append(c.calls, sccCall{site: g.ID, callee: name, caller: c.current, loc: g.Loc})
		c.owner[g.ID] = c.current
		return t
	}
	s := c.scheme(g.Ref)
	if s == nil {
		// the definition failed to check and was reported already
		panic(checkBailout{})
	}
	t, cs := s.Instantiate(c.fresh)
	for i, con := range cs {
		c.want(con.Class, con.Type, g, i)
	}
	return t
}

// applyArg applies a value of type f to one argument.
func (c *checker) applyArg(f, arg ts.Type, call *ir.Call, i, n int) ts.Type {
	switch ft := c.apply(f).(type) {
	case ts.TFunc:
		c.unify(ft.Param, arg, call.Args[i].Location(), "argument")
		return ft.Result
	case ts.TVar:
		result := c.fresh()
		c.unify(ft, ts.TFunc{Param: arg, Result: result}, call.Loc, "call")
		return result
	default:
		c.fail(diagnostics.ErrA004, call.Loc, "value of type %s is not a function but is applied to %d argument(s)", ft, n-i)
		return nil
	}
}

func (c *checker) inferOp(v *ir.Op) ts.Type {
	switch v.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		t := c.inferExpr(v.Args[0])
		c.unify(t, c.inferExpr(v.Args[1]), v.Args[1].Location(), "operand of "+string(v.Op))
		c.want(config.NumClass, t, v, 0)
		return t
	case ast.OpNegate:
		t := c.inferExpr(v.Args[0])
		c.want(config.NumClass, t, v, 0)
		return t
	case ast.OpEq, ast.OpNotEq, ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		t := c.inferExpr(v.Args[0])
		c.unify(t, c.inferExpr(v.Args[1]), v.Args[1].Location(), "operand of "+string(v.Op))
		class := config.OrdClass
		if v.Op == ast.OpEq || v.Op == ast.OpNotEq {
			class = config.EqClass
		}
		c.want(class, t, v, 0)
		return ts.Bool
	case ast.OpAnd, ast.OpOr, ast.OpNot:
		for _, a := range v.Args {
			c.unify(ts.Bool, c.inferExpr(a), a.Location(), "operand of "+string(v.Op))
		}
		return ts.Bool
	case ast.OpPipeForward:
		arg := c.inferExpr(v.Args[0])
		f := c.inferExpr(v.Args[1])
		result := c.fresh()
		c.unify(f, ts.TFunc{Param: arg, Result: result}, v.Loc, "|>")
		return result
	}
	c.fail(diagnostics.ErrA001, v.Loc, "unknown operator %s", v.Op)
	return nil
}

// chooseRecord picks the record type a field access or update refers
// to: the one the value is known to have, else the only candidate.
func (c *checker) chooseRecord(t ts.Type, field string, candidates []ir.Ref, at ir.Node) (*DataType, ts.TCon, ts.Subst) {
	var chosen *DataType
	switch ct := c.apply(t).(type) {
	case ts.TCon:
		for _, ref := range candidates {
			if ref.String() == ct.Name {
				chosen = c.dataType(ref)
			}
		}
		if chosen == nil {
			c.fail(diagnostics.ErrA005, at.Location(), "type %s has no field %s", ct, field)
		}
	default:
		if len(candidates) != 1 {
			names := make([]string, len(candidates))
			for i, ref := range candidates {
				names[i] = ref.Name
			}
			c.fail(diagnostics.ErrA005, at.Location(), "ambiguous field %s: could belong to %s; the record type must be known here", field, strings.Join(names, " or "))
		}
		chosen = c.dataType(candidates[0])
	}
	if chosen == nil || !chosen.Record || chosen.Extern || len(chosen.Variants) != 1 {
		c.fail(diagnostics.ErrA005, at.Location(), "field %s of a value that is not a record", field)
	}
	inst, sub := c.instantiateData(chosen)
	return chosen, inst, sub
}

func fieldIndex(d *DataType, name string) int {
	for i, f := range d.FieldNames {
		if f == name {
			return i
		}
	}
	return -1
}

func (c *checker) inferRecordInit(v *ir.RecordInit) ts.Type {
	d := c.dataType(v.Record)
	if d == nil || !d.Record || d.Extern {
		c.fail(diagnostics.ErrA007, v.Loc, "%s is not a record that can be initialized", v.Record.Name)
	}
	inst, sub := c.instantiateData(d)
	given := make(map[string]bool, len(v.Fields))
	for _, f := range v.Fields {
		idx := fieldIndex(d, f.Name)
		if idx < 0 {
			c.fail(diagnostics.ErrA007, f.Loc, "record %s has no field %s", d.Ref.Name, f.Name)
		}
		given[f.Name] = true
		c.unify(d.Variants[0].Fields[idx].Apply(sub), c.inferExpr(f.Value), f.Loc, "field "+f.Name)
	}
	var missing []string
	for _, name := range d.FieldNames {
		if !given[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		c.fail(diagnostics.ErrA007, v.Loc, "initialization of %s is missing field(s) %s", d.Ref.Name, strings.Join(missing, ", "))
	}
	return inst
}
