// Package symbols holds the name tables shared between modules: what
// each module defines, what it exports, and what a module sees once its
// imports are applied.
package symbols

import (
	"fmt"

	"github.com/funvibe/siko/internal/location"
)

type ItemKind int

const (
	FunctionItem ItemKind = iota
	TypeItem
	VariantItem // ADT variant or record constructor
	FieldItem
)

func (k ItemKind) String() string {
	switch k {
	case FunctionItem:
		return "function"
	case TypeItem:
		return "type"
	case VariantItem:
		return "constructor"
	case FieldItem:
		return "field"
	}
	return "item"
}

// Namespace separates names that may coincide: a record type and its
// constructor share a name, and so may a field and a function.
type Namespace int

const (
	ValueNamespace Namespace = iota
	TypeNamespace
	FieldNamespace
)

func (k ItemKind) Namespace() Namespace {
	switch k {
	case TypeItem:
		return TypeNamespace
	case FieldItem:
		return FieldNamespace
	}
	return ValueNamespace
}

// Item is one named definition.
type Item struct {
	Kind   ItemKind
	Module string
	Name   string
	Owner  string // defining type of a variant or field
	Index  int    // variant tag or field position
	Loc    location.ID
}

// Qualified returns Module.Name.
func (i Item) Qualified() string {
	return i.Module + "." + i.Name
}

func (i Item) String() string {
	return fmt.Sprintf("%s %s", i.Kind, i.Qualified())
}

// VariantInfo is the shape of one constructor.
type VariantInfo struct {
	Name  string
	Arity int
}

// DataInfo describes a data type to modules that import it.
type DataInfo struct {
	Module   string
	Name     string
	Params   []string
	Record   bool
	Extern   bool
	Variants []VariantInfo
	Fields   []string
	Derived  []string
}

func (d *DataInfo) Qualified() string {
	return d.Module + "." + d.Name
}

// Derives reports whether the type has a deriving clause for class.
func (d *DataInfo) Derives(class string) bool {
	for _, c := range d.Derived {
		if c == class {
			return true
		}
	}
	return false
}

// FieldIndex returns the position of a record field, or -1.
func (d *DataInfo) FieldIndex(name string) int {
	for i, f := range d.Fields {
		if f == name {
			return i
		}
	}
	return -1
}
