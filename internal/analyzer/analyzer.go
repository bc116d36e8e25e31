// Package analyzer type checks resolved modules: Hindley-Milner
// inference per strongly connected component, checking of declared
// signatures, and resolution of class constraints to dictionary
// witnesses.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/location"
	ts "github.com/funvibe/siko/internal/typesystem"
)

// Witness says where the dictionary for one class constraint comes
// from.
type Witness interface {
	String() string
	witness()
}

// Instance is a concrete instance, built from the witnesses of the
// type's arguments (list element, tuple items, data type parameters).
type Instance struct {
	Class string
	Type  string
	Args  []Witness
}

// Param is the Index-th dictionary parameter of the enclosing function,
// or of the enclosing data type for derived field witnesses.
type Param struct {
	Index int
}

func (Instance) witness() {}
func (Param) witness()    {}

func (w Instance) String() string {
	if len(w.Args) == 0 {
		return w.Class + "[" + w.Type + "]"
	}
	args := make([]string, len(w.Args))
	for i, a := range w.Args {
		args[i] = a.String()
	}
	return w.Class + "[" + w.Type + "](" + strings.Join(args, ", ") + ")"
}

func (w Param) String() string { return fmt.Sprintf("$%d", w.Index) }

// VariantType is one constructor with field types over the data type's
// parameters (as TVars named after them).
type VariantType struct {
	Name   string
	Tag    int
	Fields []ts.Type
}

// DataType is the checked view of a data definition.
type DataType struct {
	Ref        ir.Ref
	Params     []string
	Record     bool
	Extern     bool
	Variants   []*VariantType
	FieldNames []string
	Derived    []string

	// FieldWitnesses[class][variant][field] gives the dictionary a
	// derived instance uses for each field.
	FieldWitnesses map[string][][]Witness
}

func (d *DataType) Derives(class string) bool {
	for _, c := range d.Derived {
		if c == class {
			return true
		}
	}
	return false
}

// Type returns the data type applied to args.
func (d *DataType) Type(args []ts.Type) ts.TCon {
	return ts.TCon{Name: d.Ref.String(), Args: args}
}

// Variant returns the variant called name.
func (d *DataType) Variant(name string) *VariantType {
	for _, v := range d.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Env holds what previously checked modules export. It is never edited
// after construction; With returns an extended copy.
type Env struct {
	Schemes map[string]*ts.Scheme
	Data    map[string]*DataType
}

func NewEnv() *Env {
	return &Env{Schemes: make(map[string]*ts.Scheme), Data: make(map[string]*DataType)}
}

// With returns a new Env that also contains results.
func (e *Env) With(results ...*Result) *Env {
	next := NewEnv()
	for k, v := range e.Schemes {
		next.Schemes[k] = v
	}
	for k, v := range e.Data {
		next.Data[k] = v
	}
	for _, r := range results {
		for k, v := range r.Schemes {
			next.Schemes[k] = v
		}
		for k, v := range r.Data {
			next.Data[k] = v
		}
	}
	return next
}

// FieldChoice is the record type and field position a field access or
// update was resolved to.
type FieldChoice struct {
	Record ir.Ref
	Index  int
}

// Result is everything later stages need from type checking.
type Result struct {
	Module    string
	Types     map[int]ts.Type
	Schemes   map[string]*ts.Scheme
	Witnesses map[int][]Witness
	Data      map[string]*DataType
	Fields    map[int]FieldChoice
	Updates   map[int]ir.Ref

	// Env is the environment the module was checked in plus the module
	// itself.
	Env *Env
}

// DataType finds a data type of this module or of its imports.
func (r *Result) DataType(name string) *DataType {
	if d, ok := r.Data[name]; ok {
		return d
	}
	return r.Env.Data[name]
}

// Scheme finds the scheme of a function of this module or its imports.
func (r *Result) Scheme(name string) *ts.Scheme {
	if s, ok := r.Schemes[name]; ok {
		return s
	}
	return r.Env.Schemes[name]
}

// Check type checks mod against the environment of its imports.
func Check(mod *ir.Module, env *Env, table *location.Table) (*Result, []*diagnostics.DiagnosticError) {
	if env == nil {
		env = NewEnv()
	}
	c := newChecker(mod, env, table)
	c.checkModule()
	res := c.result
	for id, t := range res.Types {
		res.Types[id] = c.apply(t)
	}
	res.Env = env.With(res)
	return res, c.errors
}
