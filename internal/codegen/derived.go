package codegen

import (
	"fmt"
	"strings"

	"github.com/funvibe/siko/internal/config"
	"github.com/funvibe/siko/internal/core"
)

// derivedName is the constructor of a derived instance's dictionary.
func derivedName(typ, class string) string {
	return ident(typ) + "_" + class
}

// derived emits `func T_Class(params ...*rt.Dict) *rt.Dict` with a
// structural body per variant. Field dictionaries are built when a
// value is inspected, so recursive types terminate.
func (e *emitter) derived(d *core.DataDef, der core.Derived) {
	e.open("func %s(params ...*rt.Dict) *rt.Dict {", derivedName(d.Name, der.Class))
	switch der.Class {
	case config.EqClass:
		e.deriveEq(d, der)
	case config.OrdClass:
		e.deriveOrd(d, der)
	case config.ShowClass:
		e.deriveShow(d, der)
	default:
		invariant("class %s of %s cannot be derived", der.Class, d.Name)
	}
	e.close("}")
	e.line("")
}

func (e *emitter) fieldDict(der core.Derived, tag, field int) string {
	if tag >= len(der.FieldWitnesses) || field >= len(der.FieldWitnesses[tag]) {
		invariant("missing %s witness for field %d of variant %d", der.Class, field, tag)
	}
	return e.dict(der.FieldWitnesses[tag][field])
}

func (e *emitter) deriveEq(d *core.DataDef, der core.Derived) {
	e.open("return &rt.Dict{Class: %q, Type: %q, Eq: func(a, b rt.Value) bool {", der.Class, d.Name)
	e.line("x, y := a.(*rt.Data), b.(*rt.Data)")
	e.open("if x.Tag != y.Tag {")
	e.line("return false")
	e.close("}")
	e.cases(d, func(v core.Variant) {
		terms := make([]string, v.Arity)
		for i := range terms {
			terms[i] = fmt.Sprintf("%s.Eq(x.Fields[%d], y.Fields[%d])", e.fieldDict(der, v.Tag, i), i, i)
		}
		e.line("return %s", strings.Join(terms, " && "))
	})
	e.line("return true")
	e.close("}}")
}

func (e *emitter) deriveOrd(d *core.DataDef, der core.Derived) {
	e.open("return &rt.Dict{Class: %q, Type: %q, Compare: func(a, b rt.Value) int {", der.Class, d.Name)
	e.line("x, y := a.(*rt.Data), b.(*rt.Data)")
	e.open("if x.Tag != y.Tag {")
	e.open("if x.Tag < y.Tag {")
	e.line("return -1")
	e.close("}")
	e.line("return 1")
	e.close("}")
	e.cases(d, func(v core.Variant) {
		for i := 0; i < v.Arity-1; i++ {
			e.open("if c := %s.Compare(x.Fields[%d], y.Fields[%d]); c != 0 {", e.fieldDict(der, v.Tag, i), i, i)
			e.line("return c")
			e.close("}")
		}
		last := v.Arity - 1
		e.line("return %s.Compare(x.Fields[%d], y.Fields[%d])", e.fieldDict(der, v.Tag, last), last, last)
	})
	e.line("return 0")
	e.close("}}")
}

func (e *emitter) deriveShow(d *core.DataDef, der core.Derived) {
	e.open("return &rt.Dict{Class: %q, Type: %q, Show: func(v rt.Value) string {", der.Class, d.Name)
	e.line("x := v.(*rt.Data)")
	e.cases(d, func(v core.Variant) {
		var parts []string
		for i := 0; i < v.Arity; i++ {
			shown := fmt.Sprintf("%s.Show(x.Fields[%d])", e.fieldDict(der, v.Tag, i), i)
			if d.Record {
				sep := ", "
				if i == 0 {
					sep = shortName(d.Name) + " { "
				}
				parts = append(parts, fmt.Sprintf("%q", sep+v.FieldNames[i]+": "), shown)
			} else {
				sep := ") ("
				if i == 0 {
					sep = v.Name + " ("
				}
				parts = append(parts, fmt.Sprintf("%q", sep), shown)
			}
		}
		if d.Record {
			parts = append(parts, `" }"`)
		} else {
			parts = append(parts, `")"`)
		}
		e.line("return %s", strings.Join(parts, " + "))
	})
	e.line("return x.Name")
	e.close("}}")
}

// cases emits a switch over the variants with fields; body must end
// with a return.
func (e *emitter) cases(d *core.DataDef, body func(v core.Variant)) {
	var withFields []core.Variant
	for _, v := range d.Variants {
		if v.Arity > 0 {
			withFields = append(withFields, v)
		}
	}
	if len(withFields) == 0 {
		return
	}
	e.line("switch x.Tag {")
	for _, v := range withFields {
		e.line("case %s:", e.tagConst(d, v))
		e.indent++
		body(v)
		e.indent--
	}
	e.line("}")
}
