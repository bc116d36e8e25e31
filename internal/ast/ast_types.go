package ast

import (
	"github.com/funvibe/siko/internal/location"
)

// NamedType is a type constructor applied to arguments: Int, Option a,
// M.Map k v.
type NamedType struct {
	Loc  location.ID
	Name string
	Args []TypeExpr
}

func (t *NamedType) Accept(v Visitor)      { v.VisitNamedType(t) }
func (t *NamedType) Location() location.ID { return t.Loc }
func (t *NamedType) typeNode()             {}

type VarType struct {
	Loc  location.ID
	Name string
}

func (t *VarType) Accept(v Visitor)      { v.VisitVarType(t) }
func (t *VarType) Location() location.ID { return t.Loc }
func (t *VarType) typeNode()             {}

// ListType is [T].
type ListType struct {
	Loc  location.ID
	Elem TypeExpr
}

func (t *ListType) Accept(v Visitor)      { v.VisitListType(t) }
func (t *ListType) Location() location.ID { return t.Loc }
func (t *ListType) typeNode()             {}

// TupleType with no items is the unit type ().
type TupleType struct {
	Loc   location.ID
	Items []TypeExpr
}

func (t *TupleType) Accept(v Visitor)      { v.VisitTupleType(t) }
func (t *TupleType) Location() location.ID { return t.Loc }
func (t *TupleType) typeNode()             {}

type FuncType struct {
	Loc    location.ID
	Param  TypeExpr
	Result TypeExpr
}

func (t *FuncType) Accept(v Visitor)      { v.VisitFuncType(t) }
func (t *FuncType) Location() location.ID { return t.Loc }
func (t *FuncType) typeNode()             {}
