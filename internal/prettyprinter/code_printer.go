package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/siko/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[ast.BuiltinOp]int{
	ast.OpPipeForward: 1,
	ast.OpOr:          2,
	ast.OpAnd:         3,
	ast.OpEq:          4,
	ast.OpNotEq:       4,
	ast.OpLess:        5,
	ast.OpLessEq:      5,
	ast.OpGreater:     5,
	ast.OpGreaterEq:   5,
	ast.OpAdd:         6,
	ast.OpSub:         6,
	ast.OpMul:         7,
	ast.OpDiv:         7,
}

const precLowest = 0

// Comparisons do not associate: a == b == c does not parse.
var nonAssoc = map[int]bool{4: true, 5: true}

// CodePrinter renders an AST back to source text that parses to the
// same tree.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders any node.
func Print(n ast.Node) string {
	p := NewCodePrinter()
	n.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) newline() {
	p.buf.WriteString("\n")
	p.buf.WriteString(strings.Repeat("    ", p.indent))
}

// isBlock reports whether e opens a layout block or extends to the
// right as far as possible.
func isBlock(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Do, *ast.CaseOf, *ast.Lambda, *ast.If:
		return true
	}
	return false
}

func isAtom(e ast.Expression) bool {
	switch v := e.(type) {
	case *ast.Path, *ast.StringLit, *ast.BoolLit, *ast.Tuple, *ast.List,
		*ast.FieldAccess, *ast.TupleFieldAccess, *ast.RecordInitialization, *ast.RecordUpdate:
		return true
	case *ast.IntLit:
		return v.Value >= 0
	case *ast.FloatLit:
		return v.Value >= 0
	}
	return false
}

// printTail prints an expression in a position where it may extend to
// the end of the enclosing construct.
func (p *CodePrinter) printTail(e ast.Expression) {
	if isBlock(e) {
		e.Accept(p)
		return
	}
	p.printExpr(e, precLowest, false)
}

// printAtom prints e so that it parses as a single argument.
func (p *CodePrinter) printAtom(e ast.Expression) {
	if isAtom(e) {
		e.Accept(p)
		return
	}
	p.write("(")
	p.printTail(e)
	p.write(")")
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(e ast.Expression, parentPrec int, isRight bool) {
	if isBlock(e) {
		p.write("(")
		e.Accept(p)
		p.write(")")
		return
	}
	b, ok := e.(*ast.Builtin)
	if !ok || b.Op.IsUnary() {
		e.Accept(p)
		return
	}
	prec := operatorPrecedence[b.Op]
	needParens := prec < parentPrec || (prec == parentPrec && (isRight || nonAssoc[prec]))
	if needParens {
		p.write("(")
	}
	p.printExpr(b.Args[0], prec, false)
	p.write(" " + string(b.Op) + " ")
	p.printExpr(b.Args[1], prec, true)
	if needParens {
		p.write(")")
	}
}

func (p *CodePrinter) VisitModule(n *ast.Module) {
	p.write("module " + n.Name)
	if n.HasExportList() {
		p.write(" ")
		p.printItems(n.Exports)
	}
	p.write(" where\n")
	for _, imp := range n.Imports {
		p.write("\n")
		imp.Accept(p)
	}
	if len(n.Imports) > 0 {
		p.write("\n")
	}
	for _, d := range n.Data {
		p.write("\n")
		d.Accept(p)
		p.write("\n")
	}
	sigs := make(map[string]*ast.FunctionSignature)
	for _, s := range n.Signatures {
		sigs[s.Name] = s
	}
	for _, f := range n.Functions {
		p.write("\n")
		if s, ok := sigs[f.Name]; ok {
			s.Accept(p)
			p.write("\n")
			delete(sigs, f.Name)
		}
		f.Accept(p)
		p.write("\n")
	}
	for _, s := range n.Signatures {
		if _, ok := sigs[s.Name]; ok {
			p.write("\n")
			s.Accept(p)
			p.write("\n")
		}
	}
}

func (p *CodePrinter) printItems(items []*ast.ExportItem) {
	p.write("(")
	for i, it := range items {
		if i > 0 {
			p.write(", ")
		}
		p.write(it.Name)
		if it.Members {
			p.write("(..)")
		}
	}
	p.write(")")
}

func (p *CodePrinter) VisitImport(n *ast.Import) {
	p.write("import " + n.Module)
	switch n.Kind {
	case ast.ImportList:
		p.write(" ")
		p.printItems(n.Items)
	case ast.ImportHiding:
		p.write(" hiding ")
		p.printItems(n.Items)
	}
	if n.Alias != "" {
		p.write(" as " + n.Alias)
	}
}

func (p *CodePrinter) printDataHead(name string, params []string) {
	p.write("data " + name)
	for _, tp := range params {
		p.write(" " + tp)
	}
	p.write(" = ")
}

func (p *CodePrinter) printDeriving(classes []ast.DerivedClass) {
	if len(classes) == 0 {
		return
	}
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name
	}
	p.write(" deriving (" + strings.Join(names, ", ") + ")")
}

func (p *CodePrinter) VisitAdtDef(n *ast.AdtDef) {
	p.printDataHead(n.Name, n.TypeParams)
	for i, v := range n.Variants {
		if i > 0 {
			p.write(" | ")
		}
		p.write(v.Name)
		for _, f := range v.Fields {
			p.write(" ")
			p.printTypeAtom(f)
		}
	}
	p.printDeriving(n.Derived)
}

func (p *CodePrinter) VisitRecordDef(n *ast.RecordDef) {
	p.printDataHead(n.Name, n.TypeParams)
	if n.External {
		p.write("extern")
		return
	}
	p.write("{ ")
	for i, f := range n.Fields {
		if i > 0 {
			p.write(", ")
		}
		p.write(f.Name + " :: ")
		f.Type.Accept(p)
	}
	p.write(" }")
	p.printDeriving(n.Derived)
}

func (p *CodePrinter) VisitFunctionSignature(n *ast.FunctionSignature) {
	p.write(n.Name + " :: ")
	if len(n.Constraints) > 0 {
		parts := make([]string, len(n.Constraints))
		for i, c := range n.Constraints {
			parts[i] = c.Class + " " + c.Var
		}
		p.write("(" + strings.Join(parts, ", ") + ") => ")
	}
	n.Type.Accept(p)
}

func (p *CodePrinter) VisitFunction(n *ast.Function) {
	p.write(n.Name)
	for _, a := range n.Args {
		p.write(" ")
		p.printPatternAtom(a)
	}
	p.write(" = ")
	if n.Body == nil {
		p.write("extern")
		return
	}
	p.printTail(n.Body)
}

// --- expressions ---

func (p *CodePrinter) VisitLambda(n *ast.Lambda) {
	p.write("\\")
	for i, param := range n.Params {
		if i > 0 {
			p.write(", ")
		}
		p.printPatternAtom(param)
	}
	p.write(" -> ")
	p.printTail(n.Body)
}

func (p *CodePrinter) VisitFunctionCall(n *ast.FunctionCall) {
	p.printAtom(n.Callee)
	for _, a := range n.Args {
		p.write(" ")
		p.printAtom(a)
	}
}

func (p *CodePrinter) VisitBuiltin(n *ast.Builtin) {
	if !n.Op.IsUnary() {
		p.printExpr(n, precLowest, false)
		return
	}
	if n.Op == ast.OpNot {
		p.write("!")
	} else {
		p.write("-")
	}
	arg := n.Args[0]
	if _, call := arg.(*ast.FunctionCall); call || isAtom(arg) {
		arg.Accept(p)
		return
	}
	p.write("(")
	p.printTail(arg)
	p.write(")")
}

func (p *CodePrinter) VisitIf(n *ast.If) {
	p.write("if ")
	p.printExpr(n.Cond, precLowest, false)
	p.write(" then ")
	p.printExpr(n.Then, precLowest, false)
	p.write(" else ")
	p.printTail(n.Else)
}

func (p *CodePrinter) VisitTuple(n *ast.Tuple) {
	p.write("(")
	for i, e := range n.Items {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(e, precLowest, false)
	}
	p.write(")")
}

func (p *CodePrinter) VisitList(n *ast.List) {
	p.write("[")
	for i, e := range n.Items {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(e, precLowest, false)
	}
	p.write("]")
}

func (p *CodePrinter) VisitPath(n *ast.Path)         { p.write(n.Name) }
func (p *CodePrinter) VisitIntLit(n *ast.IntLit)     { p.write(strconv.FormatInt(n.Value, 10)) }
func (p *CodePrinter) VisitFloatLit(n *ast.FloatLit) { p.write(formatFloat(n.Value)) }
func (p *CodePrinter) VisitStringLit(n *ast.StringLit) {
	p.write(quote(n.Value, false))
}

func (p *CodePrinter) VisitBoolLit(n *ast.BoolLit) {
	if n.Value {
		p.write("True")
	} else {
		p.write("False")
	}
}

func (p *CodePrinter) VisitDo(n *ast.Do) {
	p.write("do")
	p.indent++
	for _, item := range n.Items {
		p.newline()
		p.printTail(item)
	}
	p.indent--
}

func (p *CodePrinter) VisitBind(n *ast.Bind) {
	n.Pattern.Accept(p)
	p.write(" <- ")
	p.printTail(n.Value)
}

func (p *CodePrinter) VisitFieldAccess(n *ast.FieldAccess) {
	p.printAtom(n.Expr)
	p.write("." + n.Field)
}

func (p *CodePrinter) VisitTupleFieldAccess(n *ast.TupleFieldAccess) {
	p.printAtom(n.Expr)
	p.write("." + strconv.Itoa(n.Index))
}

func (p *CodePrinter) VisitFormatter(n *ast.Formatter) {
	escaped := make([]string, len(n.Parts))
	for i, part := range n.Parts {
		escaped[i] = quoteBody(part, true)
	}
	p.write("\"" + strings.Join(escaped, "{}") + "\" % ")
	if len(n.Args) == 1 {
		p.printAtom(n.Args[0])
		return
	}
	p.VisitTuple(&ast.Tuple{Items: n.Args})
}

func (p *CodePrinter) VisitCaseOf(n *ast.CaseOf) {
	p.write("case ")
	p.printExpr(n.Scrutinee, precLowest, false)
	p.write(" of")
	p.indent++
	for _, c := range n.Cases {
		p.newline()
		c.Accept(p)
	}
	p.indent--
}

func (p *CodePrinter) VisitCase(n *ast.Case) {
	n.Pattern.Accept(p)
	if n.Guard != nil {
		p.write(" if ")
		p.printExpr(n.Guard, precLowest, false)
	}
	p.write(" -> ")
	p.printTail(n.Body)
}

func (p *CodePrinter) printFieldInits(fields []*ast.FieldInit) {
	p.write(" { ")
	for i, f := range fields {
		if i > 0 {
			p.write(", ")
		}
		p.write(f.Name + " = ")
		p.printExpr(f.Value, precLowest, false)
	}
	p.write(" }")
}

func (p *CodePrinter) VisitRecordInitialization(n *ast.RecordInitialization) {
	p.write(n.Name)
	p.printFieldInits(n.Fields)
}

func (p *CodePrinter) VisitRecordUpdate(n *ast.RecordUpdate) {
	p.printAtom(n.Expr)
	p.printFieldInits(n.Fields)
}

// --- patterns ---

func (p *CodePrinter) printPatternAtom(pat ast.Pattern) {
	needParens := false
	switch v := pat.(type) {
	case *ast.VariantPattern:
		needParens = len(v.Args) > 0
	case *ast.IntPattern:
		needParens = v.Value < 0
	case *ast.FloatPattern:
		needParens = v.Value < 0
	}
	if needParens {
		p.write("(")
		pat.Accept(p)
		p.write(")")
		return
	}
	pat.Accept(p)
}

func (p *CodePrinter) VisitVariantPattern(n *ast.VariantPattern) {
	p.write(n.Name)
	for _, a := range n.Args {
		p.write(" ")
		p.printPatternAtom(a)
	}
}

func (p *CodePrinter) VisitTuplePattern(n *ast.TuplePattern) {
	p.write("(")
	for i, item := range n.Items {
		if i > 0 {
			p.write(", ")
		}
		item.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) VisitIntPattern(n *ast.IntPattern)     { p.write(strconv.FormatInt(n.Value, 10)) }
func (p *CodePrinter) VisitFloatPattern(n *ast.FloatPattern) { p.write(formatFloat(n.Value)) }
func (p *CodePrinter) VisitStringPattern(n *ast.StringPattern) {
	p.write(quote(n.Value, false))
}

func (p *CodePrinter) VisitBoolPattern(n *ast.BoolPattern) {
	if n.Value {
		p.write("True")
	} else {
		p.write("False")
	}
}

func (p *CodePrinter) VisitBindPattern(n *ast.BindPattern)         { p.write(n.Name) }
func (p *CodePrinter) VisitWildcardPattern(n *ast.WildcardPattern) { p.write("_") }

// --- types ---

func (p *CodePrinter) printTypeAtom(t ast.TypeExpr) {
	switch v := t.(type) {
	case *ast.FuncType:
		p.write("(")
		t.Accept(p)
		p.write(")")
		return
	case *ast.NamedType:
		if len(v.Args) > 0 {
			p.write("(")
			t.Accept(p)
			p.write(")")
			return
		}
	}
	t.Accept(p)
}

func (p *CodePrinter) VisitNamedType(n *ast.NamedType) {
	p.write(n.Name)
	for _, a := range n.Args {
		p.write(" ")
		p.printTypeAtom(a)
	}
}

func (p *CodePrinter) VisitVarType(n *ast.VarType) { p.write(n.Name) }

func (p *CodePrinter) VisitListType(n *ast.ListType) {
	p.write("[")
	n.Elem.Accept(p)
	p.write("]")
}

func (p *CodePrinter) VisitTupleType(n *ast.TupleType) {
	p.write("(")
	for i, item := range n.Items {
		if i > 0 {
			p.write(", ")
		}
		item.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) VisitFuncType(n *ast.FuncType) {
	if _, ok := n.Param.(*ast.FuncType); ok {
		p.write("(")
		n.Param.Accept(p)
		p.write(")")
	} else {
		n.Param.Accept(p)
	}
	p.write(" -> ")
	n.Result.Accept(p)
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func quote(s string, escapeBraces bool) string {
	return "\"" + quoteBody(s, escapeBraces) + "\""
}

func quoteBody(s string, escapeBraces bool) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		case '{':
			if escapeBraces {
				b.WriteString(`\{`)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
