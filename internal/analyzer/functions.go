package analyzer

import (
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/location"
	ts "github.com/funvibe/siko/internal/typesystem"
)

func (c *checker) checkModule() {
	c.declareData()
	c.defineData()
	c.validateDerived()

	// declared signatures are known before any body is checked
	var annotated, inferred []*ir.Function
	for _, fn := range c.mod.Functions {
		if fn.Signature == nil {
			if fn.IsExtern() {
				c.errorf(diagnostics.ErrA001, fn.Loc, "extern function %s needs a type signature", fn.Name)
				continue
			}
			inferred = append(inferred, fn)
			continue
		}
		if s, ok := c.declaredScheme(fn); ok {
			c.result.Schemes[fn.Ref.String()] = s
			annotated = append(annotated, fn)
		}
	}

	for _, scc := range components(inferred, c.mod.Name) {
		c.inferComponent(scc)
	}
	for _, fn := range annotated {
		if !fn.IsExtern() {
			c.checkAnnotated(fn)
		}
	}
}

// declaredScheme converts a signature. Every constrained variable must
// occur in the type.
func (c *checker) declaredScheme(fn *ir.Function) (*ts.Scheme, bool) {
	var out *ts.Scheme
	ok := c.guard(func() {
		sig := fn.Signature
		t := c.convertType(sig.Type, func(name string, _ location.ID) ts.Type { return ts.TVar{Name: name} })
		s := &ts.Scheme{Type: t}
		for _, v := range t.FreeTypeVariables() {
			s.Vars = append(s.Vars, v.Name)
		}
		for _, con := range sig.Constraints {
			if !ts.Occurs(con.Var, t) {
				c.fail(diagnostics.ErrA003, con.Loc, "constraint %s %s of %s mentions a type variable that does not occur in its type", con.Class, con.Var, fn.Name)
			}
			s.Constraints = append(s.Constraints, ts.Constraint{Class: con.Class, Type: ts.TVar{Name: con.Var}})
		}
		params, _ := ts.SplitFunc(t, len(fn.Params))
		if len(params) < len(fn.Params) {
			c.fail(diagnostics.ErrA004, fn.Loc, "%s has %d parameter(s) but its signature %s allows %d", fn.Name, len(fn.Params), t, len(params))
		}
		out = s
	})
	return out, ok
}

// checkAnnotated checks a body against its declared scheme with the
// quantified variables held rigid.
func (c *checker) checkAnnotated(fn *ir.Function) {
	s := c.result.Schemes[fn.Ref.String()]
	skolems := make(ts.Subst, len(s.Vars))
	for _, v := range s.Vars {
		skolems[v] = ts.TParam{Name: v}
	}
	t := s.Type.Apply(skolems)
	given := make([]ts.Constraint, len(s.Constraints))
	for i, con := range s.Constraints {
		given[i] = con.Apply(skolems)
	}

	c.current = fn.Ref.String()
	c.wanted = nil
	c.mono = nil
	ok := c.guard(func() {
		c.inferFunction(fn, t)
	})
	if !ok {
		return
	}
	for _, w := range c.wanted {
		c.solve(w, paramLeaf(given), fn.Name)
	}
}

// inferFunction infers fn's parameters and body and unifies the result
// with expected.
func (c *checker) inferFunction(fn *ir.Function, expected ts.Type) {
	params := make([]ts.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = c.inferPattern(p)
	}
	body := c.inferExpr(fn.Body)
	c.unify(expected, ts.Func(params, body), fn.Loc, "definition of "+fn.Name)
}

// inferComponent infers a group of mutually recursive unannotated
// functions and generalizes each.
func (c *checker) inferComponent(scc []*ir.Function) {
	c.mono = make(map[string]ts.Type, len(scc))
	for _, fn := range scc {
		c.mono[fn.Ref.String()] = c.fresh()
	}
	c.wanted = nil
	c.calls = nil
	ok := true
	for _, fn := range scc {
		c.current = fn.Ref.String()
		fn := fn
		ok = c.guard(func() { c.inferFunction(fn, c.mono[fn.Ref.String()]) }) && ok
	}
	if !ok {
		c.mono = nil
		return
	}

	// constraints of each member are the unsolved ones over variables
	// of its own type
	memberTypes := make(map[string]ts.Type, len(scc))
	residuals := make(map[string][]ts.Constraint, len(scc))
	for _, fn := range scc {
		memberTypes[fn.Ref.String()] = c.apply(c.mono[fn.Ref.String()])
	}
	for _, w := range c.wanted {
		for _, r := range c.residual(w) {
			for _, fn := range scc {
				name := fn.Ref.String()
				if ts.Occurs(r.Type.(ts.TVar).Name, memberTypes[name]) && !hasConstraint(residuals[name], r) {
					residuals[name] = append(residuals[name], r)
				}
			}
		}
	}
	for _, fn := range scc {
		name := fn.Ref.String()
		c.result.Schemes[name] = ts.Generalize(memberTypes[name], residuals[name], nil)
	}

	for _, w := range c.wanted {
		given := residuals[c.owner[w.site]]
		c.solve(w, paramLeaf(given), c.owner[w.site])
	}
	for _, call := range c.calls {
		c.solveComponentCall(call, residuals)
	}
	c.mono = nil
}

func hasConstraint(cs []ts.Constraint, x ts.Constraint) bool {
	for _, con := range cs {
		if con.Class == x.Class && con.Type.String() == x.Type.String() {
			return true
		}
	}
	return false
}

// paramLeaf resolves variable constraints to the given dictionary
// parameters.
func paramLeaf(given []ts.Constraint) leafFunc {
	return func(class string, t ts.Type) (Witness, bool) {
		for i, g := range given {
			if g.Class == class && g.Type.String() == t.String() {
				return Param{Index: i}, true
			}
		}
		return nil, false
	}
}

// residual reduces a wanted constraint to the variable constraints it
// depends on. Unsatisfiable constraints are reported by solve.
func (c *checker) residual(w wanted) []ts.Constraint {
	var out []ts.Constraint
	leaf := func(class string, t ts.Type) (Witness, bool) {
		if _, ok := t.(ts.TVar); ok {
			out = append(out, ts.Constraint{Class: class, Type: t})
		}
		return Param{}, true
	}
	c.resolveWitness(w.c.Class, c.apply(w.c.Type), leaf)
	return out
}

// solve records the witness of one wanted constraint.
func (c *checker) solve(w wanted, leaf leafFunc, fnName string) {
	t := c.apply(w.c.Type)
	wit, miss := c.resolveWitness(w.c.Class, t, leaf)
	if miss == nil {
		c.setWitness(w.site, w.slot, wit)
		return
	}
	switch miss.t.(type) {
	case ts.TVar:
		c.errorf(diagnostics.ErrA003, w.loc, "ambiguous type variable: %s %s is required here but %s does not determine the type", miss.class, t, shortName(fnName))
	case ts.TParam:
		c.errorf(diagnostics.ErrA002, w.loc, "no instance for %s %s: add (%s %s) to the signature of %s", miss.class, miss.t, miss.class, miss.t, shortName(fnName))
	default:
		c.errorf(diagnostics.ErrA002, w.loc, "no instance for %s %s", miss.class, miss.t)
	}
}

// solveComponentCall fills the dictionaries passed to a member of the
// component from within it, now that the member's constraints are known.
func (c *checker) solveComponentCall(call sccCall, residuals map[string][]ts.Constraint) {
	given := residuals[call.caller]
	for slot, r := range residuals[call.callee] {
		c.solve(wanted{c: r, site: call.site, slot: slot, loc: call.loc}, paramLeaf(given), call.caller)
	}
}

func shortName(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[i+1:]
		}
	}
	return qualified
}
