package analyzer

import (
	"fmt"

	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/location"
	ts "github.com/funvibe/siko/internal/typesystem"
)

// wanted is a class constraint arising at a use site. It fills slot
// Slot of the site's witness list.
type wanted struct {
	c    ts.Constraint
	site int
	slot int
	loc  location.ID
}

// sccCall is a reference to a function of the component being inferred;
// its witnesses are known only after generalization.
type sccCall struct {
	site   int
	callee string
	caller string
	loc    location.ID
}

type checker struct {
	mod    *ir.Module
	env    *Env
	table  *location.Table
	result *Result
	errors []*diagnostics.DiagnosticError

	subst  ts.Subst
	next   int
	locals map[ir.VarID]ts.Type

	// per function or component
	current string
	wanted  []wanted
	mono    map[string]ts.Type
	calls   []sccCall
	owner   map[int]string // site -> function it occurs in
}

type checkBailout struct{}

func newChecker(mod *ir.Module, env *Env, table *location.Table) *checker {
	return &checker{
		mod:   mod,
		env:   env,
		table: table,
		result: &Result{
			Module:    mod.Name,
			Types:     make(map[int]ts.Type),
			Schemes:   make(map[string]*ts.Scheme),
			Witnesses: make(map[int][]Witness),
			Data:      make(map[string]*DataType),
			Fields:    make(map[int]FieldChoice),
			Updates:   make(map[int]ir.Ref),
		},
		subst:  ts.Subst{},
		locals: make(map[ir.VarID]ts.Type),
		owner:  make(map[int]string),
	}
}

func (c *checker) fresh() ts.TVar {
	c.next++
	return ts.TVar{Name: fmt.Sprintf("t%d", c.next)}
}

// apply resolves t against the substitution so far. The substitution
// is kept idempotent, so one application suffices.
func (c *checker) apply(t ts.Type) ts.Type {
	return t.Apply(c.subst)
}

func (c *checker) errorf(code diagnostics.ErrorCode, loc location.ID, format string, args ...interface{}) {
	c.errors = append(c.errors, diagnostics.NewError(code, c.table, loc, format, args...))
}

// fail reports an error and abandons the current function.
func (c *checker) fail(code diagnostics.ErrorCode, loc location.ID, format string, args ...interface{}) {
	c.errorf(code, loc, format, args...)
	panic(checkBailout{})
}

// guard runs f, turning a bailout into a false result.
func (c *checker) guard(f func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(checkBailout); !isBailout {
				panic(r)
			}
			ok = false
		}
	}()
	f()
	return true
}

// unify equates expected and actual, failing the function on mismatch.
func (c *checker) unify(expected, actual ts.Type, loc location.ID, what string) {
	s, err := ts.Unify(c.apply(expected), c.apply(actual))
	if err != nil {
		if ue, ok := err.(*ts.UnifyError); ok && ue.Infinite {
			c.fail(diagnostics.ErrA009, loc, "%s: infinite type, %s occurs in %s", what, ue.Left, ue.Right)
		}
		c.fail(diagnostics.ErrA001, loc, "type mismatch in %s: expected %s, found %s", what, c.apply(expected), c.apply(actual))
	}
	c.subst = s.Compose(c.subst)
}

func (c *checker) record(n ir.Node, t ts.Type) ts.Type {
	c.result.Types[n.NodeID()] = t
	return t
}

func (c *checker) want(class string, t ts.Type, site ir.Node, slot int) {
	c.wanted = append(c.wanted, wanted{c: ts.Constraint{Class: class, Type: t}, site: site.NodeID(), slot: slot, loc: site.Location()})
	c.owner[site.NodeID()] = c.current
}

func (c *checker) setWitness(site, slot int, w Witness) {
	ws := c.result.Witnesses[site]
	for len(ws) <= slot {
		ws = append(ws, nil)
	}
	ws[slot] = w
	c.result.Witnesses[site] = ws
}

// dataType finds a data type of this module or an import.
func (c *checker) dataType(ref ir.Ref) *DataType {
	name := ref.String()
	if d, ok := c.result.Data[name]; ok {
		return d
	}
	return c.env.Data[name]
}

// scheme finds the scheme of a global function.
func (c *checker) scheme(ref ir.Ref) *ts.Scheme {
	name := ref.String()
	if s, ok := c.result.Schemes[name]; ok {
		return s
	}
	return c.env.Schemes[name]
}
