package ast

import (
	"github.com/funvibe/siko/internal/location"
)

// Node is the base interface for all AST nodes.
type Node interface {
	Accept(v Visitor)
	Location() location.ID
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Pattern is a Node that destructures a value.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is a type as written in a signature or data definition.
type TypeExpr interface {
	Node
	typeNode()
}

// DataDefinition is either an *AdtDef or a *RecordDef.
type DataDefinition interface {
	Node
	DataName() string
	Params() []string
	DerivedClasses() []DerivedClass
}

// Module is the root node of every AST the parser produces. Modules
// are immutable once parsed.
type Module struct {
	Loc        location.ID
	File       string
	Name       string
	Exports    []*ExportItem // nil when the header has no export list
	Imports    []*Import
	Data       []DataDefinition
	Signatures []*FunctionSignature
	Functions  []*Function
}

func (m *Module) Accept(v Visitor)        { v.VisitModule(m) }
func (m *Module) Location() location.ID   { return m.Loc }
func (m *Module) HasExportList() bool     { return m.Exports != nil }

// ExportItem names an exported entity. Members is set for T(..).
type ExportItem struct {
	Loc     location.ID
	Name    string
	Members bool
}

type ImportKind int

const (
	ImportAll ImportKind = iota
	ImportList
	ImportHiding
)

// Import is `import M`, `import M (a, T(..))`, `import M hiding (a)` or
// `import M as N`.
type Import struct {
	Loc      location.ID
	Module   string
	Alias    string
	Kind     ImportKind
	Items    []*ExportItem
}

func (i *Import) Accept(v Visitor)      { v.VisitImport(i) }
func (i *Import) Location() location.ID { return i.Loc }

// DerivedClass is one entry of a deriving clause.
type DerivedClass struct {
	Loc  location.ID
	Name string
}

// AdtDef is `data T a = V1 t1 | V2 ... deriving (...)`.
type AdtDef struct {
	Loc        location.ID
	Name       string
	TypeParams []string
	Variants   []*Variant
	Derived    []DerivedClass
}

func (d *AdtDef) Accept(v Visitor)                { v.VisitAdtDef(d) }
func (d *AdtDef) Location() location.ID           { return d.Loc }
func (d *AdtDef) DataName() string                { return d.Name }
func (d *AdtDef) Params() []string                { return d.TypeParams }
func (d *AdtDef) DerivedClasses() []DerivedClass { return d.Derived }

// Variant is one constructor of an AdtDef with its positional field types.
type Variant struct {
	Loc    location.ID
	Name   string
	Fields []TypeExpr
}

// RecordDef is `data R a = { f :: T, ... } deriving (...)` or the opaque
// `data R = extern`.
type RecordDef struct {
	Loc        location.ID
	Name       string
	TypeParams []string
	Fields     []*RecordField
	External   bool
	Derived    []DerivedClass
}

func (d *RecordDef) Accept(v Visitor)                { v.VisitRecordDef(d) }
func (d *RecordDef) Location() location.ID           { return d.Loc }
func (d *RecordDef) DataName() string                { return d.Name }
func (d *RecordDef) Params() []string                { return d.TypeParams }
func (d *RecordDef) DerivedClasses() []DerivedClass { return d.Derived }

type RecordField struct {
	Loc  location.ID
	Name string
	Type TypeExpr
}

// Constraint is `C a` in a signature context.
type Constraint struct {
	Loc   location.ID
	Class string
	Var   string
}

// FunctionSignature is `f :: (C a) => type`. It is a separate entity
// from the Function implementing it.
type FunctionSignature struct {
	Loc         location.ID
	Name        string
	Constraints []Constraint
	Type        TypeExpr
}

func (s *FunctionSignature) Accept(v Visitor)      { v.VisitFunctionSignature(s) }
func (s *FunctionSignature) Location() location.ID { return s.Loc }

// Function is `f p1 p2 = body`. A nil Body means `= extern`.
type Function struct {
	Loc  location.ID
	Name string
	Args []Pattern
	Body Expression
}

func (f *Function) Accept(v Visitor)      { v.VisitFunction(f) }
func (f *Function) Location() location.ID { return f.Loc }
func (f *Function) IsExtern() bool        { return f.Body == nil }
