package analyzer

import (
	"github.com/funvibe/siko/internal/config"
	ts "github.com/funvibe/siko/internal/typesystem"
)

// builtinInstances lists the classes of the primitive types.
var builtinInstances = map[string][]string{
	ts.Int.Name:    {config.EqClass, config.OrdClass, config.ShowClass, config.NumClass},
	ts.Float.Name:  {config.EqClass, config.OrdClass, config.ShowClass, config.NumClass},
	ts.String.Name: {config.EqClass, config.OrdClass, config.ShowClass},
	ts.Bool.Name:   {config.EqClass, config.OrdClass, config.ShowClass},
}

// structuralClasses are provided for lists and tuples whenever the
// element types have them.
var structuralClasses = []string{config.EqClass, config.OrdClass, config.ShowClass}

func hasClass(classes []string, class string) bool {
	for _, c := range classes {
		if c == class {
			return true
		}
	}
	return false
}

// leafFunc decides the witness of a constraint on a type variable or
// rigid parameter. It reports false when the constraint cannot be met
// there.
type leafFunc func(class string, t ts.Type) (Witness, bool)

// missingInstance is the innermost constraint no instance satisfies.
type missingInstance struct {
	class string
	t     ts.Type
}

// resolveWitness builds the witness for class at type t, which must
// already be substituted.
func (c *checker) resolveWitness(class string, t ts.Type, leaf leafFunc) (Witness, *missingInstance) {
	switch v := t.(type) {
	case ts.TVar, ts.TParam:
		if w, ok := leaf(class, t); ok {
			return w, nil
		}
		return nil, &missingInstance{class, t}
	case ts.TTuple:
		if !hasClass(structuralClasses, class) {
			return nil, &missingInstance{class, t}
		}
		args, miss := c.resolveAll(class, v.Elements, leaf)
		if miss != nil {
			return nil, miss
		}
		return Instance{Class: class, Type: config.TupleTypeName, Args: args}, nil
	case ts.TCon:
		if classes, ok := builtinInstances[v.Name]; ok {
			if !hasClass(classes, class) {
				return nil, &missingInstance{class, t}
			}
			return Instance{Class: class, Type: v.Name}, nil
		}
		if v.Name == ts.ListName {
			if !hasClass(structuralClasses, class) {
				return nil, &missingInstance{class, t}
			}
			args, miss := c.resolveAll(class, v.Args, leaf)
			if miss != nil {
				return nil, miss
			}
			return Instance{Class: class, Type: ts.ListName, Args: args}, nil
		}
		d := c.dataByName(v.Name)
		if d == nil || !d.Derives(class) {
			return nil, &missingInstance{class, t}
		}
		args, miss := c.resolveAll(class, v.Args, leaf)
		if miss != nil {
			return nil, miss
		}
		return Instance{Class: class, Type: v.Name, Args: args}, nil
	}
	return nil, &missingInstance{class, t}
}

func (c *checker) resolveAll(class string, types []ts.Type, leaf leafFunc) ([]Witness, *missingInstance) {
	var out []Witness
	for _, t := range types {
		w, miss := c.resolveWitness(class, t, leaf)
		if miss != nil {
			return nil, miss
		}
		out = append(out, w)
	}
	return out, nil
}

func (c *checker) dataByName(name string) *DataType {
	if d, ok := c.result.Data[name]; ok {
		return d
	}
	return c.env.Data[name]
}
