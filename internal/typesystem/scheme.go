package typesystem

import (
	"sort"
	"strings"
)

// Constraint requires Type to be an instance of Class.
type Constraint struct {
	Class string
	Type  Type
}

func (c Constraint) String() string {
	return c.Class + " " + c.Type.String()
}

func (c Constraint) Apply(s Subst) Constraint {
	return Constraint{Class: c.Class, Type: c.Type.Apply(s)}
}

// Scheme is a polymorphic type. Constraints are over the quantified
// variables, in dictionary parameter order.
type Scheme struct {
	Vars        []string
	Constraints []Constraint
	Type        Type
}

// Mono wraps a type without quantification.
func Mono(t Type) *Scheme {
	return &Scheme{Type: t}
}

func (s *Scheme) String() string {
	var b strings.Builder
	if len(s.Constraints) > 0 {
		parts := make([]string, len(s.Constraints))
		for i, c := range s.Constraints {
			parts[i] = c.String()
		}
		b.WriteString("(" + strings.Join(parts, ", ") + ") => ")
	}
	b.WriteString(s.Type.String())
	return b.String()
}

// Instantiate replaces the quantified variables with fresh ones and
// returns the instantiated type and constraints.
func (s *Scheme) Instantiate(fresh func() TVar) (Type, []Constraint) {
	sub := make(Subst, len(s.Vars))
	for _, v := range s.Vars {
		sub[v] = fresh()
	}
	cs := make([]Constraint, len(s.Constraints))
	for i, c := range s.Constraints {
		cs[i] = c.Apply(sub)
	}
	return s.Type.Apply(sub), cs
}

// Generalize quantifies the variables of t that are not in fixed and
// renames them a, b, c... in order of first occurrence. Constraints are
// kept in their given order.
func Generalize(t Type, cs []Constraint, fixed map[string]bool) *Scheme {
	var vars []string
	sub := make(Subst)
	for _, v := range t.FreeTypeVariables() {
		if fixed[v.Name] {
			continue
		}
		name := paramName(len(vars))
		vars = append(vars, name)
		sub[v.Name] = TVar{Name: name}
	}
	out := &Scheme{Vars: vars, Type: t.Apply(sub)}
	for _, c := range cs {
		out.Constraints = append(out.Constraints, c.Apply(sub))
	}
	return out
}

func paramName(i int) string {
	name := string(rune('a' + i%26))
	if i >= 26 {
		name += strings.Repeat("'", i/26)
	}
	return name
}

// SortedVars lists the variable names of a substitution, sorted, for
// deterministic iteration.
func SortedVars(s Subst) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
