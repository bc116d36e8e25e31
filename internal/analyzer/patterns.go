package analyzer

import (
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	ts "github.com/funvibe/siko/internal/typesystem"
)

// inferPattern types a pattern and the variables it binds.
func (c *checker) inferPattern(p ir.Pattern) ts.Type {
	return c.record(p, c.inferPatternNode(p))
}

func (c *checker) inferPatternNode(p ir.Pattern) ts.Type {
	switch v := p.(type) {
	case *ir.BindPattern:
		t := c.fresh()
		c.locals[v.Var] = t
		return t
	case *ir.WildcardPattern:
		return c.fresh()
	case *ir.IntPattern:
		return ts.Int
	case *ir.FloatPattern:
		return ts.Float
	case *ir.StringPattern:
		return ts.String
	case *ir.BoolPattern:
		return ts.Bool
	case *ir.TuplePattern:
		elems := make([]ts.Type, len(v.Items))
		for i, it := range v.Items {
			elems[i] = c.inferPattern(it)
		}
		return ts.TTuple{Elements: elems}
	case *ir.VariantPattern:
		d := c.dataType(v.Type)
		if d == nil || d.Variant(v.Variant) == nil {
			c.fail(diagnostics.ErrA001, v.Loc, "unknown constructor %s", v.Variant)
		}
		variant := d.Variant(v.Variant)
		if len(v.Args) != len(variant.Fields) {
			c.fail(diagnostics.ErrA004, v.Loc, "constructor %s has %d field(s) but the pattern has %d", v.Variant, len(variant.Fields), len(v.Args))
		}
		dt, sub := c.instantiateData(d)
		for i, a := range v.Args {
			c.unify(variant.Fields[i].Apply(sub), c.inferPattern(a), a.Location(), "constructor pattern")
		}
		return dt
	}
	c.fail(diagnostics.ErrA001, p.Location(), "unsupported pattern")
	return nil
}
