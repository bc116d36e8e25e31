package typesystem

import (
	"strings"

	"github.com/funvibe/siko/internal/config"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// TVar is a unification variable.
type TVar struct {
	Name string
}

// TParam is a rigid type parameter of a declared signature. It unifies
// only with itself.
type TParam struct {
	Name string
}

// TCon is a named type applied to arguments: Int, Option a, List a.
type TCon struct {
	Name string
	Args []Type
}

type TFunc struct {
	Param  Type
	Result Type
}

// TTuple with no elements is the unit type.
type TTuple struct {
	Elements []Type
}

const ListName = config.ListTypeName

var (
	Int    = TCon{Name: config.Qualified(config.IntTypeName)}
	Float  = TCon{Name: config.Qualified(config.FloatTypeName)}
	String = TCon{Name: config.Qualified(config.StringTypeName)}
	Bool   = TCon{Name: config.Qualified(config.BoolTypeName)}
	Unit   = TTuple{}
)

func List(elem Type) TCon {
	return TCon{Name: ListName, Args: []Type{elem}}
}

// Func builds the curried function type params[0] -> ... -> result.
func Func(params []Type, result Type) Type {
	t := result
	for i := len(params) - 1; i >= 0; i-- {
		t = TFunc{Param: params[i], Result: t}
	}
	return t
}

// SplitFunc returns up to n parameter types of a curried function type
// and the remaining result.
func SplitFunc(t Type, n int) ([]Type, Type) {
	var params []Type
	for len(params) < n {
		f, ok := t.(TFunc)
		if !ok {
			break
		}
		params = append(params, f.Param)
		t = f.Result
	}
	return params, t
}

func (t TVar) String() string   { return t.Name }
func (t TParam) String() string { return t.Name }

func (t TCon) String() string {
	if t.Name == ListName && len(t.Args) == 1 {
		return "[" + t.Args[0].String() + "]"
	}
	name := shortName(t.Name)
	if len(t.Args) == 0 {
		return name
	}
	parts := []string{name}
	for _, a := range t.Args {
		s := a.String()
		if needsParens(a) {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func (t TFunc) String() string {
	param := t.Param.String()
	if _, ok := t.Param.(TFunc); ok {
		param = "(" + param + ")"
	}
	return param + " -> " + t.Result.String()
}

func (t TTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func shortName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func needsParens(t Type) bool {
	switch v := t.(type) {
	case TFunc:
		return true
	case TCon:
		return len(v.Args) > 0 && v.Name != ListName
	}
	return false
}

func (t TVar) Apply(s Subst) Type {
	if r, ok := s[t.Name]; ok {
		return r
	}
	return t
}

func (t TParam) Apply(Subst) Type { return t }

func (t TCon) Apply(s Subst) Type {
	if len(t.Args) == 0 {
		return t
	}
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Apply(s)
	}
	return TCon{Name: t.Name, Args: args}
}

func (t TFunc) Apply(s Subst) Type {
	return TFunc{Param: t.Param.Apply(s), Result: t.Result.Apply(s)}
}

func (t TTuple) Apply(s Subst) Type {
	elems := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.Apply(s)
	}
	return TTuple{Elements: elems}
}

func (t TVar) FreeTypeVariables() []TVar   { return []TVar{t} }
func (t TParam) FreeTypeVariables() []TVar { return nil }

func (t TCon) FreeTypeVariables() []TVar {
	return freeIn(t.Args...)
}

func (t TFunc) FreeTypeVariables() []TVar {
	return freeIn(t.Param, t.Result)
}

func (t TTuple) FreeTypeVariables() []TVar {
	return freeIn(t.Elements...)
}

// freeIn lists the variables of ts in order of first occurrence.
func freeIn(ts ...Type) []TVar {
	var out []TVar
	seen := make(map[string]bool)
	for _, t := range ts {
		for _, v := range t.FreeTypeVariables() {
			if !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// Occurs reports whether variable name appears in t.
func Occurs(name string, t Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if v.Name == name {
			return true
		}
	}
	return false
}

// Head returns the name identifying t's instances: the constructor
// name, "Tuple" or "->"; "" for variables.
func Head(t Type) string {
	switch v := t.(type) {
	case TCon:
		return v.Name
	case TTuple:
		return config.TupleTypeName
	case TFunc:
		return "->"
	}
	return ""
}
