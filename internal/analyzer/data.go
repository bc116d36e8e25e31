package analyzer

import (
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/ir"
	"github.com/funvibe/siko/internal/location"
	ts "github.com/funvibe/siko/internal/typesystem"
)

// declareData registers every data type of the module before any field
// type is converted, so definitions may refer to each other.
func (c *checker) declareData() {
	for _, d := range c.mod.Data {
		dt := &DataType{Ref: d.Ref, Params: d.Params, Record: d.Record, Extern: d.Extern}
		for _, der := range d.Derived {
			dt.Derived = append(dt.Derived, der.Class)
		}
		for _, f := range d.Fields {
			dt.FieldNames = append(dt.FieldNames, f.Name)
		}
		c.result.Data[d.Ref.String()] = dt
	}
}

// defineData converts field types. Records get one variant named after
// the record.
func (c *checker) defineData() {
	for _, d := range c.mod.Data {
		dt := c.result.Data[d.Ref.String()]
		vars := func(name string, loc location.ID) ts.Type { return ts.TVar{Name: name} }
		c.guard(func() {
			if d.Record {
				if d.Extern {
					return
				}
				v := &VariantType{Name: d.Ref.Name}
				for _, f := range d.Fields {
					v.Fields = append(v.Fields, c.convertType(f.Type, vars))
				}
				dt.Variants = []*VariantType{v}
				return
			}
			for _, variant := range d.Variants {
				v := &VariantType{Name: variant.Name, Tag: variant.Tag}
				for _, f := range variant.Fields {
					v.Fields = append(v.Fields, c.convertType(f, vars))
				}
				dt.Variants = append(dt.Variants, v)
			}
		})
	}
}

// validateDerived checks that every field of a type deriving a class
// has that class, assuming it of the type parameters, and records the
// field witnesses.
func (c *checker) validateDerived() {
	for _, d := range c.mod.Data {
		dt := c.result.Data[d.Ref.String()]
		for _, der := range d.Derived {
			paramIndex := make(map[string]int)
			for i, p := range dt.Params {
				paramIndex[p] = i
			}
			leaf := func(class string, t ts.Type) (Witness, bool) {
				if v, ok := t.(ts.TVar); ok {
					if i, ok := paramIndex[v.Name]; ok && class == der.Class {
						return Param{Index: i}, true
					}
				}
				return nil, false
			}
			perVariant := make([][]Witness, len(dt.Variants))
			valid := true
			for vi, v := range dt.Variants {
				for fi, ft := range v.Fields {
					w, miss := c.resolveWitness(der.Class, ft, leaf)
					if miss != nil {
						c.errorf(diagnostics.ErrA008, der.Loc, "cannot derive %s for %s: field %d of %s has type %s, which has no %s instance",
							der.Class, d.Ref.Name, fi+1, v.Name, ft, miss.class)
						valid = false
						continue
					}
					perVariant[vi] = append(perVariant[vi], w)
				}
			}
			if valid {
				if dt.FieldWitnesses == nil {
					dt.FieldWitnesses = make(map[string][][]Witness)
				}
				dt.FieldWitnesses[der.Class] = perVariant
			}
		}
	}
}

// convertType turns a resolved type expression into a type; vars maps
// type variable names.
func (c *checker) convertType(t ir.TypeExpr, vars func(string, location.ID) ts.Type) ts.Type {
	switch v := t.(type) {
	case *ir.TypeRef:
		d := c.dataType(v.Ref)
		if d == nil {
			c.fail(diagnostics.ErrA001, v.Loc, "unknown type %s", v.Ref)
		}
		if len(v.Args) != len(d.Params) {
			c.fail(diagnostics.ErrA001, v.Loc, "type %s expects %d argument(s), found %d", v.Ref.Name, len(d.Params), len(v.Args))
		}
		args := make([]ts.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = c.convertType(a, vars)
		}
		return d.Type(args)
	case *ir.TypeVar:
		return vars(v.Name, v.Loc)
	case *ir.ListType:
		return ts.List(c.convertType(v.Elem, vars))
	case *ir.TupleType:
		elems := make([]ts.Type, len(v.Items))
		for i, it := range v.Items {
			elems[i] = c.convertType(it, vars)
		}
		return ts.TTuple{Elements: elems}
	case *ir.FuncType:
		return ts.TFunc{Param: c.convertType(v.Param, vars), Result: c.convertType(v.Result, vars)}
	}
	c.fail(diagnostics.ErrA001, t.Location(), "unsupported type expression")
	return nil
}

// instantiateData returns the data type applied to fresh variables and
// the substitution from its parameters.
func (c *checker) instantiateData(d *DataType) (ts.TCon, ts.Subst) {
	sub := make(ts.Subst, len(d.Params))
	args := make([]ts.Type, len(d.Params))
	for i, p := range d.Params {
		v := c.fresh()
		sub[p] = v
		args[i] = v
	}
	return d.Type(args), sub
}
