package match

import (
	"sort"
	"strings"

	"github.com/funvibe/siko/internal/core"
)

type row struct {
	pats     []Pattern
	arm      int
	guarded  bool
	bindings []core.Binding
}

// shape is what the path to a node has learned about a variable, used
// to describe values that reach a failure.
type shape struct {
	pattern Pattern
	fields  []core.Var
}

type compiler struct {
	info     TypeInfo
	fresh    func(name string) core.Var
	top      []core.Var
	reached  map[int]bool
	missing  []string
	seenMiss map[string]bool
	failures int
}

// Compile builds the decision tree for rows over vars. Alternatives are
// tried in row order.
func Compile(vars []core.Var, rows []Row, info TypeInfo, fresh func(name string) core.Var) (core.Decision, Report) {
	c := &compiler{info: info, fresh: fresh, top: vars, reached: make(map[int]bool), seenMiss: make(map[string]bool)}
	rs := make([]row, len(rows))
	for i, r := range rows {
		rs[i] = row{pats: r.Patterns, arm: r.Arm, guarded: r.Guarded}
	}
	tree := c.compile(vars, rs, map[int]shape{})

	var rep Report
	rep.Missing = c.missing
	for _, r := range rows {
		if !c.reached[r.Arm] {
			rep.Unreached = append(rep.Unreached, r.Arm)
		}
	}
	sort.Ints(rep.Unreached)
	return tree, rep
}

func (c *compiler) compile(vars []core.Var, rows []row, shapes map[int]shape) core.Decision {
	if len(rows) == 0 {
		c.recordMissing(shapes)
		return &core.Fail{}
	}

	col := -1
	for i, p := range rows[0].pats {
		if _, ok := p.(Wild); !ok {
			col = i
			break
		}
	}
	if col < 0 {
		first := rows[0]
		bindings := append([]core.Binding(nil), first.bindings...)
		for i, p := range first.pats {
			if w := p.(Wild); w.Bind != nil {
				bindings = append(bindings, core.Binding{Var: *w.Bind, Source: vars[i]})
			}
		}
		c.reached[first.arm] = true
		leaf := &core.Leaf{Arm: first.arm, Bindings: bindings}
		if first.guarded {
			leaf.Else = c.compile(vars, rows[1:], shapes)
		}
		return leaf
	}

	switch p := rows[0].pats[col].(type) {
	case *Con:
		if p.Record {
			return c.destructure(vars, rows, col, len(p.Args), true, p, shapes)
		}
		return c.switchOn(vars, rows, col, p.Type, shapes)
	case *Tuple:
		return c.destructure(vars, rows, col, len(p.Items), false, &Tuple{Items: wilds(len(p.Items))}, shapes)
	case *Lit:
		return c.litSwitch(vars, rows, col, shapes)
	}
	panic("match: unknown pattern")
}

func wilds(n int) []Pattern {
	out := make([]Pattern, n)
	for i := range out {
		out[i] = Wild{}
	}
	return out
}

// specialize replaces column col by sub-patterns. expand returns the
// sub-patterns of a row's pattern, or false to drop the row.
func specialize(vars []core.Var, rows []row, col int, fields []core.Var, expand func(Pattern) ([]Pattern, bool)) ([]core.Var, []row) {
	nextVars := append(append(append([]core.Var(nil), vars[:col]...), fields...), vars[col+1:]...)
	var out []row
	for _, r := range rows {
		var sub []Pattern
		bindings := r.bindings
		if w, ok := r.pats[col].(Wild); ok {
			sub = wilds(len(fields))
			if w.Bind != nil {
				bindings = append(append([]core.Binding(nil), bindings...), core.Binding{Var: *w.Bind, Source: vars[col]})
			}
		} else {
			var keep bool
			sub, keep = expand(r.pats[col])
			if !keep {
				continue
			}
		}
		pats := append(append(append([]Pattern(nil), r.pats[:col]...), sub...), r.pats[col+1:]...)
		out = append(out, row{pats: pats, arm: r.arm, guarded: r.guarded, bindings: bindings})
	}
	return nextVars, out
}

func (c *compiler) destructure(vars []core.Var, rows []row, col, n int, record bool, pat Pattern, shapes map[int]shape) core.Decision {
	fields := make([]core.Var, n)
	for i := range fields {
		fields[i] = c.fresh("f")
	}
	nextVars, next := specialize(vars, rows, col, fields, func(p Pattern) ([]Pattern, bool) {
		switch v := p.(type) {
		case *Con:
			return v.Args, true
		case *Tuple:
			return v.Items, true
		}
		return nil, false
	})
	shapeOf := pat
	if con, ok := pat.(*Con); ok {
		shapeOf = &Con{Type: con.Type, Variant: con.Variant, Record: true, Args: wilds(n)}
	}
	return &core.Destructure{
		Var:    vars[col],
		Record: record,
		Fields: fields,
		Next:   c.compile(nextVars, next, with(shapes, vars[col], shape{pattern: shapeOf, fields: fields})),
	}
}

func (c *compiler) switchOn(vars []core.Var, rows []row, col int, typ string, shapes map[int]shape) core.Decision {
	variants := c.info.Variants(typ)
	present := make(map[int]bool)
	for _, r := range rows {
		if con, ok := r.pats[col].(*Con); ok {
			present[con.Tag] = true
		}
	}

	sw := &core.Switch{Var: vars[col], Type: typ}
	for _, v := range variants {
		if !present[v.Tag] {
			continue
		}
		fields := make([]core.Var, v.Arity)
		for i := range fields {
			fields[i] = c.fresh("f")
		}
		tag := v.Tag
		nextVars, next := specialize(vars, rows, col, fields, func(p Pattern) ([]Pattern, bool) {
			con := p.(*Con)
			return con.Args, con.Tag == tag
		})
		s := shape{pattern: &Con{Type: typ, Variant: v.Name, Tag: v.Tag, Args: wilds(v.Arity)}, fields: fields}
		sw.Cases = append(sw.Cases, core.SwitchCase{
			Tag:     v.Tag,
			Variant: v.Name,
			Fields:  fields,
			Next:    c.compile(nextVars, next, with(shapes, vars[col], s)),
		})
	}
	if len(sw.Cases) == len(variants) {
		return sw
	}
	// The default tree is the same for every absent variant. When it can
	// fail, each absent variant is a separate uncovered value, so the
	// default is compiled again per variant to report them all.
	before := c.failures
	for _, v := range variants {
		if present[v.Tag] {
			continue
		}
		s := shape{pattern: &Con{Type: typ, Variant: v.Name, Tag: v.Tag, Args: wilds(v.Arity)}}
		if sw.Default == nil {
			sw.Default = c.compileDefault(vars, rows, col, with(shapes, vars[col], s))
			if c.failures == before {
				break
			}
			continue
		}
		c.compileDefault(vars, rows, col, with(shapes, vars[col], s))
	}
	return sw
}

func (c *compiler) litSwitch(vars []core.Var, rows []row, col int, shapes map[int]shape) core.Decision {
	ls := &core.LitSwitch{Var: vars[col]}
	var seen []interface{}
	isBool := false
	for _, r := range rows {
		l, ok := r.pats[col].(*Lit)
		if !ok || containsLit(seen, l.Value) {
			continue
		}
		_, isBool = l.Value.(bool)
		seen = append(seen, l.Value)
	}
	for _, value := range seen {
		value := value
		nextVars, next := specialize(vars, rows, col, nil, func(p Pattern) ([]Pattern, bool) {
			return nil, p.(*Lit).Value == value
		})
		ls.Cases = append(ls.Cases, core.LitCase{
			Value: value,
			Next:  c.compile(nextVars, next, with(shapes, vars[col], shape{pattern: &Lit{Value: value}})),
		})
	}
	if isBool && len(seen) == 2 {
		return ls
	}
	var s shape
	switch {
	case isBool:
		s.pattern = &Lit{Value: !seen[0].(bool)}
	default:
		s.pattern = Wild{}
	}
	ls.Default = c.compileDefault(vars, rows, col, with(shapes, vars[col], s))
	return ls
}

// compileDefault continues with the rows that match anything in col.
func (c *compiler) compileDefault(vars []core.Var, rows []row, col int, shapes map[int]shape) core.Decision {
	nextVars, next := specialize(vars, rows, col, nil, func(Pattern) ([]Pattern, bool) { return nil, false })
	return c.compile(nextVars, next, shapes)
}

func containsLit(seen []interface{}, v interface{}) bool {
	for _, s := range seen {
		if s == v {
			return true
		}
	}
	return false
}

func with(shapes map[int]shape, v core.Var, s shape) map[int]shape {
	out := make(map[int]shape, len(shapes)+1)
	for k, x := range shapes {
		out[k] = x
	}
	out[v.ID] = s
	return out
}

// recordMissing describes the top level values that reach a failure.
func (c *compiler) recordMissing(shapes map[int]shape) {
	c.failures++
	parts := make([]string, len(c.top))
	for i, v := range c.top {
		parts[i] = render(c.witness(v, shapes), false)
	}
	w := strings.Join(parts, ", ")
	if !c.seenMiss[w] {
		c.seenMiss[w] = true
		c.missing = append(c.missing, w)
	}
}

func (c *compiler) witness(v core.Var, shapes map[int]shape) Pattern {
	s, ok := shapes[v.ID]
	if !ok {
		return Wild{}
	}
	switch p := s.pattern.(type) {
	case *Con:
		out := &Con{Type: p.Type, Variant: p.Variant, Tag: p.Tag, Record: p.Record, Args: wilds(len(p.Args))}
		for i, f := range s.fields {
			out.Args[i] = c.witness(f, shapes)
		}
		return out
	case *Tuple:
		out := &Tuple{Items: wilds(len(p.Items))}
		for i, f := range s.fields {
			out.Items[i] = c.witness(f, shapes)
		}
		return out
	}
	return s.pattern
}
