package rt

import "strings"

// FieldDicts returns the dictionaries for the fields of the variant
// with the given tag. It is called when a value is inspected, so the
// dictionaries of recursive types are built on demand.
type FieldDicts func(tag int) []*Dict

// DeriveEq is structural equality: same variant and equal fields.
func DeriveEq(typ string, fields FieldDicts) *Dict {
	return &Dict{Class: Eq, Type: typ, Eq: func(a, b Value) bool {
		x, y := a.(*Data), b.(*Data)
		if x.Tag != y.Tag {
			return false
		}
		ds := fields(x.Tag)
		for i := range x.Fields {
			if !ds[i].Eq(x.Fields[i], y.Fields[i]) {
				return false
			}
		}
		return true
	}}
}

// DeriveOrd orders by variant declaration order, then by fields left
// to right.
func DeriveOrd(typ string, fields FieldDicts) *Dict {
	return &Dict{Class: Ord, Type: typ, Compare: func(a, b Value) int {
		x, y := a.(*Data), b.(*Data)
		if x.Tag != y.Tag {
			return compareOrdered(int64(x.Tag), int64(y.Tag))
		}
		ds := fields(x.Tag)
		for i := range x.Fields {
			if c := ds[i].Compare(x.Fields[i], y.Fields[i]); c != 0 {
				return c
			}
		}
		return 0
	}}
}

// DeriveShow renders variants as `Name (field) (field)` and records as
// `Name { field: value, ... }`.
func DeriveShow(typ string, fields FieldDicts) *Dict {
	return &Dict{Class: Show, Type: typ, Show: func(v Value) string {
		x := v.(*Data)
		if len(x.Fields) == 0 {
			return x.Name
		}
		ds := fields(x.Tag)
		parts := make([]string, len(x.Fields))
		for i, f := range x.Fields {
			if x.FieldNames != nil {
				parts[i] = x.FieldNames[i] + ": " + ds[i].Show(f)
			} else {
				parts[i] = "(" + ds[i].Show(f) + ")"
			}
		}
		if x.FieldNames != nil {
			return x.Name + " { " + strings.Join(parts, ", ") + " }"
		}
		return x.Name + " " + strings.Join(parts, " ")
	}}
}

// Derive dispatches to the helper for class.
func Derive(class, typ string, fields FieldDicts) *Dict {
	switch class {
	case Eq:
		return DeriveEq(typ, fields)
	case Ord:
		return DeriveOrd(typ, fields)
	case Show:
		return DeriveShow(typ, fields)
	}
	panic(Errorf("class %s cannot be derived", class))
}

// Constructor returns the constructor of a variant: the value itself
// when it has no fields, otherwise a function of its fields.
func Constructor(typ string, tag int, name string, arity int) Value {
	if arity == 0 {
		return NewData(typ, tag, name)
	}
	return &Func{Name: name, N: arity, Fn: func(args []Value) Value {
		return NewData(typ, tag, name, append([]Value(nil), args...)...)
	}}
}

// RecordConstructor returns the positional constructor of a record.
func RecordConstructor(typ string, fieldNames []string) Value {
	if len(fieldNames) == 0 {
		return NewRecord(typ, fieldNames)
	}
	return &Func{Name: shortName(typ), N: len(fieldNames), Fn: func(args []Value) Value {
		return NewRecord(typ, fieldNames, append([]Value(nil), args...)...)
	}}
}
