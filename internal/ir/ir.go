// Package ir is the resolved program: every name is a qualified
// reference or a module-unique local, and every node has an ID the
// type checker's side tables are keyed by.
package ir

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/symbols"
)

// Ref names a global definition.
type Ref struct {
	Module string
	Name   string
}

func (r Ref) String() string { return r.Module + "." + r.Name }

// VarID identifies a local variable within its module.
type VarID int

// Node is implemented by every expression and pattern.
type Node interface {
	NodeID() int
	Location() location.ID
}

// Base carries the common fields of every node.
type Base struct {
	ID  int
	Loc location.ID
}

func (b Base) NodeID() int           { return b.ID }
func (b Base) Location() location.ID { return b.Loc }

type Module struct {
	Name      string
	File      string
	Data      []*DataDef
	Functions []*Function
	Table     *symbols.ModuleTable

	// NodeCount and VarCount bound the IDs used in this module.
	NodeCount int
	VarCount  int
}

// Function returns the function called name, or nil.
func (m *Module) Function(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

type Derived struct {
	Class string
	Loc   location.ID
}

// DataDef is an ADT, a record or an extern (opaque) record.
type DataDef struct {
	Loc      location.ID
	Ref      Ref
	Params   []string
	Variants []*Variant
	Fields   []*Field
	Record   bool
	Extern   bool
	Derived  []Derived
}

func (d *DataDef) Derives(class string) bool {
	for _, c := range d.Derived {
		if c.Class == class {
			return true
		}
	}
	return false
}

type Variant struct {
	Loc    location.ID
	Name   string
	Tag    int
	Fields []TypeExpr
}

type Field struct {
	Loc   location.ID
	Name  string
	Index int
	Type  TypeExpr
}

type Constraint struct {
	Loc   location.ID
	Class string
	Var   string
}

type Signature struct {
	Loc         location.ID
	Constraints []Constraint
	Type        TypeExpr
}

type Function struct {
	Loc       location.ID
	Ref       Ref
	Name      string
	Params    []Pattern
	Body      Expr // nil for extern
	Signature *Signature
}

func (f *Function) IsExtern() bool { return f.Body == nil }

// --- types ---

type TypeExpr interface {
	Location() location.ID
	typeExpr()
}

// TypeRef is a named type applied to arguments.
type TypeRef struct {
	Loc  location.ID
	Ref  Ref
	Args []TypeExpr
}

type TypeVar struct {
	Loc  location.ID
	Name string
}

type ListType struct {
	Loc  location.ID
	Elem TypeExpr
}

type TupleType struct {
	Loc   location.ID
	Items []TypeExpr
}

type FuncType struct {
	Loc    location.ID
	Param  TypeExpr
	Result TypeExpr
}

func (t *TypeRef) Location() location.ID   { return t.Loc }
func (t *TypeVar) Location() location.ID   { return t.Loc }
func (t *ListType) Location() location.ID  { return t.Loc }
func (t *TupleType) Location() location.ID { return t.Loc }
func (t *FuncType) Location() location.ID  { return t.Loc }
func (*TypeRef) typeExpr()                 {}
func (*TypeVar) typeExpr()                 {}
func (*ListType) typeExpr()                {}
func (*TupleType) typeExpr()               {}
func (*FuncType) typeExpr()                {}

// --- expressions ---

type Expr interface {
	Node
	exprNode()
}

type LocalRef struct {
	Base
	Var  VarID
	Name string
}

type GlobalRef struct {
	Base
	Ref Ref
}

// CtorRef is a constructor used as a value.
type CtorRef struct {
	Base
	Type    Ref
	Variant string
	Tag     int
}

type IntLit struct {
	Base
	Value int64
}

type FloatLit struct {
	Base
	Value float64
}

type StringLit struct {
	Base
	Value string
}

type BoolLit struct {
	Base
	Value bool
}

type Call struct {
	Base
	Callee Expr
	Args   []Expr
}

// Op is a builtin operator application.
type Op struct {
	Base
	Op   ast.BuiltinOp
	Args []Expr
}

type If struct {
	Base
	Cond, Then, Else Expr
}

type Tuple struct {
	Base
	Items []Expr
}

type List struct {
	Base
	Items []Expr
}

// Lambda lists the locals it captures, in order of first use.
type Lambda struct {
	Base
	Params   []Pattern
	Body     Expr
	Captures []*LocalRef
}

type Do struct {
	Base
	Items []Expr
}

type Bind struct {
	Base
	Pattern Pattern
	Value   Expr
}

// FieldAccess lists every visible record type with the field; the type
// checker picks one.
type FieldAccess struct {
	Base
	Expr       Expr
	Field      string
	Candidates []Ref
}

type TupleField struct {
	Base
	Expr  Expr
	Index int
}

type Format struct {
	Base
	Parts []string
	Args  []Expr
}

type Case struct {
	Base
	Scrutinee Expr
	Alts      []*Alt
}

type Alt struct {
	Loc     location.ID
	Pattern Pattern
	Guard   Expr
	Body    Expr
}

type FieldValue struct {
	Loc   location.ID
	Name  string
	Value Expr
}

type RecordInit struct {
	Base
	Record Ref
	Fields []*FieldValue
}

type RecordUpdate struct {
	Base
	Expr       Expr
	Fields     []*FieldValue
	Candidates []Ref
}

func (*LocalRef) exprNode()     {}
func (*GlobalRef) exprNode()    {}
func (*CtorRef) exprNode()      {}
func (*IntLit) exprNode()       {}
func (*FloatLit) exprNode()     {}
func (*StringLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*Call) exprNode()         {}
func (*Op) exprNode()           {}
func (*If) exprNode()           {}
func (*Tuple) exprNode()        {}
func (*List) exprNode()         {}
func (*Lambda) exprNode()       {}
func (*Do) exprNode()           {}
func (*Bind) exprNode()         {}
func (*FieldAccess) exprNode()  {}
func (*TupleField) exprNode()   {}
func (*Format) exprNode()       {}
func (*Case) exprNode()         {}
func (*RecordInit) exprNode()   {}
func (*RecordUpdate) exprNode() {}

// --- patterns ---

type Pattern interface {
	Node
	patternNode()
}

// VariantPattern matches a constructor; record constructors match
// positionally.
type VariantPattern struct {
	Base
	Type    Ref
	Variant string
	Tag     int
	Record  bool
	Args    []Pattern
}

type TuplePattern struct {
	Base
	Items []Pattern
}

type IntPattern struct {
	Base
	Value int64
}

type FloatPattern struct {
	Base
	Value float64
}

type StringPattern struct {
	Base
	Value string
}

type BoolPattern struct {
	Base
	Value bool
}

type BindPattern struct {
	Base
	Var  VarID
	Name string
}

type WildcardPattern struct {
	Base
}

func (*VariantPattern) patternNode()  {}
func (*TuplePattern) patternNode()    {}
func (*IntPattern) patternNode()      {}
func (*FloatPattern) patternNode()    {}
func (*StringPattern) patternNode()   {}
func (*BoolPattern) patternNode()     {}
func (*BindPattern) patternNode()     {}
func (*WildcardPattern) patternNode() {}
