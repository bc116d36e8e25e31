package ast

import (
	"github.com/funvibe/siko/internal/location"
)

// BuiltinOp is an operator the language defines.
type BuiltinOp string

const (
	OpAdd         BuiltinOp = "+"
	OpSub         BuiltinOp = "-"
	OpMul         BuiltinOp = "*"
	OpDiv         BuiltinOp = "/"
	OpEq          BuiltinOp = "=="
	OpNotEq       BuiltinOp = "!="
	OpLess        BuiltinOp = "<"
	OpLessEq      BuiltinOp = "<="
	OpGreater     BuiltinOp = ">"
	OpGreaterEq   BuiltinOp = ">="
	OpAnd         BuiltinOp = "&&"
	OpOr          BuiltinOp = "||"
	OpNot         BuiltinOp = "!"
	OpNegate      BuiltinOp = "neg"
	OpPipeForward BuiltinOp = "|>"
)

// IsUnary reports whether the operator takes one operand.
func (op BuiltinOp) IsUnary() bool {
	return op == OpNot || op == OpNegate
}

// Lambda is `\p1, p2 -> body`.
type Lambda struct {
	Loc    location.ID
	Params []Pattern
	Body   Expression
}

func (e *Lambda) Accept(v Visitor)      { v.VisitLambda(e) }
func (e *Lambda) Location() location.ID { return e.Loc }
func (e *Lambda) expressionNode()       {}

// FunctionCall holds every syntactically adjacent argument, whatever
// the callee's arity turns out to be.
type FunctionCall struct {
	Loc    location.ID
	Callee Expression
	Args   []Expression
}

func (e *FunctionCall) Accept(v Visitor)      { v.VisitFunctionCall(e) }
func (e *FunctionCall) Location() location.ID { return e.Loc }
func (e *FunctionCall) expressionNode()       {}

// Builtin is an operator application.
type Builtin struct {
	Loc  location.ID
	Op   BuiltinOp
	Args []Expression
}

func (e *Builtin) Accept(v Visitor)      { v.VisitBuiltin(e) }
func (e *Builtin) Location() location.ID { return e.Loc }
func (e *Builtin) expressionNode()       {}

type If struct {
	Loc  location.ID
	Cond Expression
	Then Expression
	Else Expression
}

func (e *If) Accept(v Visitor)      { v.VisitIf(e) }
func (e *If) Location() location.ID { return e.Loc }
func (e *If) expressionNode()       {}

// Tuple with zero items is the unit value ().
type Tuple struct {
	Loc   location.ID
	Items []Expression
}

func (e *Tuple) Accept(v Visitor)      { v.VisitTuple(e) }
func (e *Tuple) Location() location.ID { return e.Loc }
func (e *Tuple) expressionNode()       {}

type List struct {
	Loc   location.ID
	Items []Expression
}

func (e *List) Accept(v Visitor)      { v.VisitList(e) }
func (e *List) Location() location.ID { return e.Loc }
func (e *List) expressionNode()       {}

// Path is a possibly qualified name: x, length, M.insert, Some.
type Path struct {
	Loc  location.ID
	Name string
}

func (e *Path) Accept(v Visitor)      { v.VisitPath(e) }
func (e *Path) Location() location.ID { return e.Loc }
func (e *Path) expressionNode()       {}

type IntLit struct {
	Loc   location.ID
	Value int64
}

func (e *IntLit) Accept(v Visitor)      { v.VisitIntLit(e) }
func (e *IntLit) Location() location.ID { return e.Loc }
func (e *IntLit) expressionNode()       {}

type FloatLit struct {
	Loc   location.ID
	Value float64
}

func (e *FloatLit) Accept(v Visitor)      { v.VisitFloatLit(e) }
func (e *FloatLit) Location() location.ID { return e.Loc }
func (e *FloatLit) expressionNode()       {}

type StringLit struct {
	Loc   location.ID
	Value string
}

func (e *StringLit) Accept(v Visitor)      { v.VisitStringLit(e) }
func (e *StringLit) Location() location.ID { return e.Loc }
func (e *StringLit) expressionNode()       {}

type BoolLit struct {
	Loc   location.ID
	Value bool
}

func (e *BoolLit) Accept(v Visitor)      { v.VisitBoolLit(e) }
func (e *BoolLit) Location() location.ID { return e.Loc }
func (e *BoolLit) expressionNode()       {}

// Do is a sequence of statements; each is a Bind or a plain expression
// and the last one is the block's value.
type Do struct {
	Loc   location.ID
	Items []Expression
}

func (e *Do) Accept(v Visitor)      { v.VisitDo(e) }
func (e *Do) Location() location.ID { return e.Loc }
func (e *Do) expressionNode()       {}

// Bind is `pattern <- value`, only valid inside Do.
type Bind struct {
	Loc     location.ID
	Pattern Pattern
	Value   Expression
}

func (e *Bind) Accept(v Visitor)      { v.VisitBind(e) }
func (e *Bind) Location() location.ID { return e.Loc }
func (e *Bind) expressionNode()       {}

type FieldAccess struct {
	Loc   location.ID
	Expr  Expression
	Field string
}

func (e *FieldAccess) Accept(v Visitor)      { v.VisitFieldAccess(e) }
func (e *FieldAccess) Location() location.ID { return e.Loc }
func (e *FieldAccess) expressionNode()       {}

type TupleFieldAccess struct {
	Loc   location.ID
	Expr  Expression
	Index int
}

func (e *TupleFieldAccess) Accept(v Visitor)      { v.VisitTupleFieldAccess(e) }
func (e *TupleFieldAccess) Location() location.ID { return e.Loc }
func (e *TupleFieldAccess) expressionNode()       {}

// Formatter is `"a {} b {}" % (x, y)`. len(Parts) == len(Args)+1.
type Formatter struct {
	Loc   location.ID
	Parts []string
	Args  []Expression
}

func (e *Formatter) Accept(v Visitor)      { v.VisitFormatter(e) }
func (e *Formatter) Location() location.ID { return e.Loc }
func (e *Formatter) expressionNode()       {}

type CaseOf struct {
	Loc       location.ID
	Scrutinee Expression
	Cases     []*Case
}

func (e *CaseOf) Accept(v Visitor)      { v.VisitCaseOf(e) }
func (e *CaseOf) Location() location.ID { return e.Loc }
func (e *CaseOf) expressionNode()       {}

// Case is one alternative; Guard may be nil.
type Case struct {
	Loc     location.ID
	Pattern Pattern
	Guard   Expression
	Body    Expression
}

func (c *Case) Accept(v Visitor)      { v.VisitCase(c) }
func (c *Case) Location() location.ID { return c.Loc }

type FieldInit struct {
	Loc   location.ID
	Name  string
	Value Expression
}

// RecordInitialization is `R { f = e, ... }`.
type RecordInitialization struct {
	Loc    location.ID
	Name   string
	Fields []*FieldInit
}

func (e *RecordInitialization) Accept(v Visitor)      { v.VisitRecordInitialization(e) }
func (e *RecordInitialization) Location() location.ID { return e.Loc }
func (e *RecordInitialization) expressionNode()       {}

// RecordUpdate is `expr { f = e, ... }`.
type RecordUpdate struct {
	Loc    location.ID
	Expr   Expression
	Fields []*FieldInit
}

func (e *RecordUpdate) Accept(v Visitor)      { v.VisitRecordUpdate(e) }
func (e *RecordUpdate) Location() location.ID { return e.Loc }
func (e *RecordUpdate) expressionNode()       {}
