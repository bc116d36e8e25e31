// Package rt is the runtime shared by the evaluator and generated Go
// programs: values, generalized application, class dictionaries and
// the foreign implementations of the prelude's externs.
package rt

import "fmt"

// Value is any runtime value: int64, float64, string, bool, Tuple, List,
// *Data or a Callable.
type Value = interface{}

type Tuple []Value

// Unit is the empty tuple.
var Unit = Tuple{}

// List is never modified after construction.
type List []Value

// Data is a variant or record value. FieldNames is set for records.
type Data struct {
	Type       string
	Tag        int
	Name       string
	Fields     []Value
	FieldNames []string
}

// NewData builds a variant value.
func NewData(typ string, tag int, name string, fields ...Value) *Data {
	return &Data{Type: typ, Tag: tag, Name: name, Fields: fields}
}

// NewRecord builds a record value.
func NewRecord(typ string, fieldNames []string, fields ...Value) *Data {
	return &Data{Type: typ, Name: shortName(typ), Fields: fields, FieldNames: fieldNames}
}

func shortName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

// Field returns the i-th field of a data value.
func Field(v Value, i int) Value {
	d, ok := v.(*Data)
	if !ok || i >= len(d.Fields) {
		panic(Errorf("field %d of non-record value %s", i, describe(v)))
	}
	return d.Fields[i]
}

// TupleGet returns the i-th item of a tuple.
func TupleGet(v Value, i int) Value {
	t, ok := v.(Tuple)
	if !ok || i >= len(t) {
		panic(Errorf("tuple item %d of %s", i, describe(v)))
	}
	return t[i]
}

// Tag returns the variant tag of a data value.
func Tag(v Value) int {
	d, ok := v.(*Data)
	if !ok {
		panic(Errorf("variant tag of %s", describe(v)))
	}
	return d.Tag
}

// Truth converts a Bool value.
func Truth(v Value) bool {
	b, ok := v.(bool)
	if !ok {
		panic(Errorf("expected Bool, found %s", describe(v)))
	}
	return b
}

func describe(v Value) string {
	switch x := v.(type) {
	case *Data:
		return x.Name
	case Callable:
		return fmt.Sprintf("function of %d argument(s)", x.Arity())
	case nil:
		return "nothing"
	}
	return fmt.Sprintf("%T", v)
}
