package desugar

import (
	"strings"

	"github.com/funvibe/siko/internal/analyzer"
	"github.com/funvibe/siko/internal/core"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/match"
)

type typeInfo struct {
	res *analyzer.Result
}

func (t typeInfo) Variants(typ string) []core.Variant {
	dt := t.res.DataType(typ)
	if dt == nil {
		return nil
	}
	return variantsOf(dt)
}

func (d *desugarer) pattern(p ir.Pattern) match.Pattern {
	switch v := p.(type) {
	case *ir.BindPattern:
		bound := localVar(v.Var, v.Name)
		return match.Wild{Bind: &bound}
	case *ir.WildcardPattern:
		return match.Wild{}
	case *ir.IntPattern:
		return &match.Lit{Value: v.Value}
	case *ir.FloatPattern:
		return &match.Lit{Value: v.Value}
	case *ir.StringPattern:
		return &match.Lit{Value: v.Value}
	case *ir.BoolPattern:
		return &match.Lit{Value: v.Value}
	case *ir.TuplePattern:
		out := &match.Tuple{}
		for _, it := range v.Items {
			out.Items = append(out.Items, d.pattern(it))
		}
		return out
	case *ir.VariantPattern:
		out := &match.Con{Type: v.Type.String(), Variant: v.Variant, Tag: v.Tag, Record: v.Record}
		for _, a := range v.Args {
			out.Args = append(out.Args, d.pattern(a))
		}
		return out
	}
	invariant("unexpected pattern %T in %s", p, d.fn)
	return nil
}

// lowerCase binds the scrutinee and matches it. Missing and unreachable
// alternatives are errors.
func (d *desugarer) lowerCase(c *ir.Case) core.Expr {
	scrutinee := d.fresh("case")
	rows := make([]match.Row, len(c.Alts))
	arms := make([]core.Arm, len(c.Alts))
	for i, alt := range c.Alts {
		rows[i] = match.Row{Patterns: []match.Pattern{d.pattern(alt.Pattern)}, Arm: i, Guarded: alt.Guard != nil}
		if alt.Guard != nil {
			arms[i].Guard = d.lowerExpr(alt.Guard)
		}
		arms[i].Body = d.lowerExpr(alt.Body)
	}
	tree, rep := match.Compile([]core.Var{scrutinee}, rows, typeInfo{d.res}, d.fresh)
	if len(rep.Missing) > 0 {
		d.errorf(diagnostics.ErrM001, c.Loc, "non-exhaustive case in %s: %s not covered", d.fn, strings.Join(rep.Missing, ", "))
	}
	for _, arm := range rep.Unreached {
		d.errorf(diagnostics.ErrM002, c.Alts[arm].Loc, "unreachable case alternative %s in %s", match.String(rows[arm].Patterns[0]), d.fn)
	}
	d.fillFailures(tree, "case", c.Loc)
	return &core.Let{
		Var:   scrutinee,
		Value: d.lowerExpr(c.Scrutinee),
		Body:  &core.Match{Vars: []core.Var{scrutinee}, Tree: tree, Arms: arms},
	}
}

// fillFailures names the failing construct and its position in every
// failure of a tree.
func (d *desugarer) fillFailures(tree core.Decision, what string, loc location.ID) {
	message := d.position(loc) + ": no pattern matched in " + what
	var walk func(core.Decision)
	walk = func(n core.Decision) {
		switch v := n.(type) {
		case *core.Fail:
			v.Message = message
		case *core.Switch:
			for _, c := range v.Cases {
				walk(c.Next)
			}
			if v.Default != nil {
				walk(v.Default)
			}
		case *core.Destructure:
			walk(v.Next)
		case *core.LitSwitch:
			for _, c := range v.Cases {
				walk(c.Next)
			}
			if v.Default != nil {
				walk(v.Default)
			}
		case *core.Leaf:
			if v.Else != nil {
				walk(v.Else)
			}
		}
	}
	walk(tree)
}
