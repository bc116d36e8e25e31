package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders an expression as a compact s-expression.
func Dump(e Expr) string {
	var b strings.Builder
	dumpExpr(&b, e)
	return b.String()
}

// DumpDecision renders a decision tree.
func DumpDecision(d Decision) string {
	var b strings.Builder
	dumpDecision(&b, d)
	return b.String()
}

// DumpFunction renders a function with its parameters.
func DumpFunction(f *Function) string {
	var b strings.Builder
	b.WriteString("(fn " + f.Name + " [")
	writeVars(&b, f.DictParams)
	b.WriteString("] [")
	writeVars(&b, f.Params)
	b.WriteString("] ")
	if f.Extern {
		b.WriteString("extern")
	} else {
		dumpExpr(&b, f.Body)
	}
	b.WriteString(")")
	return b.String()
}

func writeVars(b *strings.Builder, vs []Var) {
	for i, v := range vs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(v.String())
	}
}

func dumpList(b *strings.Builder, head string, es []Expr) {
	b.WriteString("(" + head)
	for _, e := range es {
		b.WriteByte(' ')
		dumpExpr(b, e)
	}
	b.WriteString(")")
}

func dumpExpr(b *strings.Builder, e Expr) {
	switch v := e.(type) {
	case Var:
		b.WriteString(v.String())
	case *Global:
		b.WriteString(v.Name)
	case *Ctor:
		b.WriteString(v.Variant)
	case *Lit:
		b.WriteString(LitString(v.Value))
	case *Apply:
		b.WriteString("(")
		dumpExpr(b, v.Func)
		for _, a := range v.Args {
			b.WriteByte(' ')
			dumpExpr(b, a)
		}
		b.WriteString(")")
	case *Lambda:
		b.WriteString("(lambda [")
		writeVars(b, v.Params)
		b.WriteString("] {")
		writeVars(b, v.Free)
		b.WriteString("} ")
		dumpExpr(b, v.Body)
		b.WriteString(")")
	case *Let:
		b.WriteString("(let " + v.Var.String() + " ")
		dumpExpr(b, v.Value)
		b.WriteByte(' ')
		dumpExpr(b, v.Body)
		b.WriteString(")")
	case *Seq:
		dumpList(b, "seq", []Expr{v.First, v.Then})
	case *If:
		dumpList(b, "if", []Expr{v.Cond, v.Then, v.Else})
	case *Tuple:
		dumpList(b, "tuple", v.Items)
	case *List:
		dumpList(b, "list", v.Items)
	case *TupleGet:
		dumpExpr(b, v.Expr)
		fmt.Fprintf(b, ".%d", v.Index)
	case *FieldGet:
		dumpExpr(b, v.Expr)
		b.WriteString("." + v.Name)
	case *RecordNew:
		b.WriteString("(new " + v.Type)
		for i, f := range v.Fields {
			b.WriteString(" " + v.FieldNames[i] + "=")
			dumpExpr(b, f)
		}
		b.WriteString(")")
	case *Method:
		b.WriteString("(method " + v.Class + "." + v.Name + " ")
		dumpExpr(b, v.Dict)
		b.WriteString(")")
	case *DictInstance:
		dumpList(b, "dict "+v.Class+"["+v.Type+"]", v.Args)
	case *DictParam:
		fmt.Fprintf(b, "$%d", v.Index)
	case *Format:
		b.WriteString("(format " + strconv.Quote(strings.Join(v.Parts, "{}")))
		for _, a := range v.Args {
			b.WriteByte(' ')
			dumpExpr(b, a)
		}
		b.WriteString(")")
	case *Match:
		b.WriteString("(match [")
		writeVars(b, v.Vars)
		b.WriteString("] ")
		dumpDecision(b, v.Tree)
		for i, arm := range v.Arms {
			fmt.Fprintf(b, " (arm %d ", i)
			if arm.Guard != nil {
				b.WriteString("if ")
				dumpExpr(b, arm.Guard)
				b.WriteByte(' ')
			}
			dumpExpr(b, arm.Body)
			b.WriteString(")")
		}
		b.WriteString(")")
	case *Fail:
		b.WriteString("(fail)")
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}

func dumpDecision(b *strings.Builder, d Decision) {
	switch v := d.(type) {
	case *Switch:
		b.WriteString("(switch " + v.Var.String())
		for _, c := range v.Cases {
			b.WriteString(" (" + c.Variant + " [")
			writeVars(b, c.Fields)
			b.WriteString("] ")
			dumpDecision(b, c.Next)
			b.WriteString(")")
		}
		if v.Default != nil {
			b.WriteString(" (_ ")
			dumpDecision(b, v.Default)
			b.WriteString(")")
		}
		b.WriteString(")")
	case *Destructure:
		b.WriteString("(split " + v.Var.String() + " [")
		writeVars(b, v.Fields)
		b.WriteString("] ")
		dumpDecision(b, v.Next)
		b.WriteString(")")
	case *LitSwitch:
		b.WriteString("(lits " + v.Var.String())
		for _, c := range v.Cases {
			b.WriteString(" (" + LitString(c.Value) + " ")
			dumpDecision(b, c.Next)
			b.WriteString(")")
		}
		if v.Default != nil {
			b.WriteString(" (_ ")
			dumpDecision(b, v.Default)
			b.WriteString(")")
		}
		b.WriteString(")")
	case *Leaf:
		fmt.Fprintf(b, "(leaf %d", v.Arm)
		for _, bind := range v.Bindings {
			b.WriteString(" " + bind.Var.String() + "=" + bind.Source.String())
		}
		if v.Else != nil {
			b.WriteString(" else ")
			dumpDecision(b, v.Else)
		}
		b.WriteString(")")
	case *Fail:
		b.WriteString("(fail)")
	case nil:
		b.WriteString("<nil>")
	}
}

// LitString renders a literal the way source code writes it.
func LitString(v interface{}) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case string:
		return strconv.Quote(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}
