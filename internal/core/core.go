// Package core is the lowered program shared by the evaluator and the
// Go code generator: generalized application, explicit dictionaries and
// compiled decision trees.
package core

import "fmt"

// Expr is a core expression.
type Expr interface {
	coreExpr()
}

// Var is a local variable, unique within its module. It is both a
// binder and, used as an expression, a reference.
type Var struct {
	ID   int
	Name string
}

func (v Var) String() string { return fmt.Sprintf("%s_%d", v.Name, v.ID) }

// Global refers to a top level function by qualified name.
type Global struct {
	Name string
}

// Ctor is a constructor used as a value: a function of Arity
// arguments, or the value itself when Arity is zero.
type Ctor struct {
	Type       string
	Variant    string
	Tag        int
	Arity      int
	FieldNames []string
}

// Lit holds an int64, float64, string or bool.
type Lit struct {
	Value interface{}
}

// Apply applies Func to all Args at once; the runtime splits the
// arguments among the closures it meets.
type Apply struct {
	Func Expr
	Args []Expr
}

// Lambda is a closure. Free lists the variables it captures, in order
// of first use.
type Lambda struct {
	ID     int
	Params []Var
	Free   []Var
	Body   Expr
}

type Let struct {
	Var   Var
	Value Expr
	Body  Expr
}

// Seq evaluates First for its effect, then Then.
type Seq struct {
	First, Then Expr
}

type If struct {
	Cond, Then, Else Expr
}

type Tuple struct {
	Items []Expr
}

type List struct {
	Items []Expr
}

type TupleGet struct {
	Expr  Expr
	Index int
}

// FieldGet reads a record field by position.
type FieldGet struct {
	Expr  Expr
	Index int
	Name  string
}

// RecordNew builds a record value.
type RecordNew struct {
	Type       string
	FieldNames []string
	Fields     []Expr
}

// Method selects an operation from a class dictionary. The result is a
// callable value.
type Method struct {
	Dict  Expr
	Class string
	Name  string
}

// DictInstance builds the dictionary of Class for Type from the
// dictionaries of its arguments.
type DictInstance struct {
	Class string
	Type  string
	Args  []Expr
}

// DictParam is the Index-th dictionary parameter of a derived instance.
type DictParam struct {
	Index int
}

// Format renders Args with the Show dictionaries in Dicts and
// interleaves them with Parts.
type Format struct {
	Parts []string
	Args  []Expr
	Dicts []Expr
}

// Match runs a decision tree over Vars, which must already be bound.
type Match struct {
	Vars []Var
	Tree Decision
	Arms []Arm
}

// Arm is the code of one alternative; Guard is nil when absent.
type Arm struct {
	Guard Expr
	Body  Expr
}

// Fail aborts with a match failure.
type Fail struct {
	Message string
}

func (Var) coreExpr()           {}
func (*Global) coreExpr()       {}
func (*Ctor) coreExpr()         {}
func (*Lit) coreExpr()          {}
func (*Apply) coreExpr()        {}
func (*Lambda) coreExpr()       {}
func (*Let) coreExpr()          {}
func (*Seq) coreExpr()          {}
func (*If) coreExpr()           {}
func (*Tuple) coreExpr()        {}
func (*List) coreExpr()         {}
func (*TupleGet) coreExpr()     {}
func (*FieldGet) coreExpr()     {}
func (*RecordNew) coreExpr()    {}
func (*Method) coreExpr()       {}
func (*DictInstance) coreExpr() {}
func (*DictParam) coreExpr()    {}
func (*Format) coreExpr()       {}
func (*Match) coreExpr()        {}
func (*Fail) coreExpr()         {}

// --- decision trees ---

// Decision is a node of a compiled pattern match.
type Decision interface {
	decision()
}

// Switch branches on the variant tag of Var's value. Default is nil
// when the cases cover every variant.
type Switch struct {
	Var     Var
	Type    string
	Cases   []SwitchCase
	Default Decision
}

// SwitchCase binds the variant's fields to Fields.
type SwitchCase struct {
	Tag     int
	Variant string
	Fields  []Var
	Next    Decision
}

// Destructure splits a tuple or record, which have a single shape.
type Destructure struct {
	Var    Var
	Record bool
	Fields []Var
	Next   Decision
}

// LitSwitch compares Var's value with literals in order.
type LitSwitch struct {
	Var     Var
	Cases   []LitCase
	Default Decision
}

type LitCase struct {
	Value interface{}
	Next  Decision
}

// Leaf selects arm Arm after binding the pattern variables. Else is
// taken when the arm's guard fails.
type Leaf struct {
	Arm      int
	Bindings []Binding
	Else     Decision
}

// Binding binds a pattern variable to the value of Source.
type Binding struct {
	Var    Var
	Source Var
}

func (*Switch) decision()      {}
func (*Destructure) decision() {}
func (*LitSwitch) decision()   {}
func (*Leaf) decision()        {}
func (*Fail) decision()        {}

// --- definitions ---

type Variant struct {
	Name       string
	Tag        int
	FieldNames []string
	Arity      int
}

// Derived is a derived class instance. FieldWitnesses[variant][field]
// is the dictionary used for that field; DictParam refers to the
// instance's parameters, one per type parameter.
type Derived struct {
	Class          string
	FieldWitnesses [][]Expr
}

type DataDef struct {
	Name     string
	Params   []string
	Record   bool
	Extern   bool
	Variants []Variant
	Derived  []Derived
}

// Derives returns the derived instance for class, or nil.
func (d *DataDef) Derives(class string) *Derived {
	for i := range d.Derived {
		if d.Derived[i].Class == class {
			return &d.Derived[i]
		}
	}
	return nil
}

// Function takes its dictionary parameters before its ordinary ones.
// Body is nil for externs.
type Function struct {
	Name       string
	DictParams []Var
	Params     []Var
	Body       Expr
	Extern     bool
}

// Arity counts both kinds of parameters.
func (f *Function) Arity() int { return len(f.DictParams) + len(f.Params) }

type Module struct {
	Name      string
	Data      []*DataDef
	Functions []*Function
}

// Program is every module of a build in dependency order.
type Program struct {
	Modules   []*Module
	functions map[string]*Function
	data      map[string]*DataDef
}

func NewProgram(modules ...*Module) *Program {
	p := &Program{functions: make(map[string]*Function), data: make(map[string]*DataDef)}
	for _, m := range modules {
		p.Add(m)
	}
	return p
}

// Add appends a module.
func (p *Program) Add(m *Module) {
	p.Modules = append(p.Modules, m)
	for _, f := range m.Functions {
		p.functions[f.Name] = f
	}
	for _, d := range m.Data {
		p.data[d.Name] = d
	}
}

func (p *Program) Function(name string) *Function { return p.functions[name] }
func (p *Program) Data(name string) *DataDef      { return p.data[name] }
