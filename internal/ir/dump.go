package ir

import (
	"fmt"
	"strings"
)

// Dump renders a module as text. Equal modules dump identically, which
// is what resolution determinism is tested against.
func Dump(m *Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n", m.Name)
	for _, d := range m.Data {
		fmt.Fprintf(&b, "data %s %v record=%v extern=%v", d.Ref, d.Params, d.Record, d.Extern)
		for _, c := range d.Derived {
			fmt.Fprintf(&b, " derive:%s", c.Class)
		}
		b.WriteString("\n")
		for _, v := range d.Variants {
			fmt.Fprintf(&b, "  variant %d %s", v.Tag, v.Name)
			for _, f := range v.Fields {
				b.WriteString(" " + DumpType(f))
			}
			b.WriteString("\n")
		}
		for _, f := range d.Fields {
			fmt.Fprintf(&b, "  field %d %s %s\n", f.Index, f.Name, DumpType(f.Type))
		}
	}
	for _, f := range m.Functions {
		fmt.Fprintf(&b, "fn %s", f.Ref)
		if f.Signature != nil {
			b.WriteString(" ::")
			for _, c := range f.Signature.Constraints {
				fmt.Fprintf(&b, " %s %s,", c.Class, c.Var)
			}
			b.WriteString(" " + DumpType(f.Signature.Type))
		}
		b.WriteString("\n")
		for _, p := range f.Params {
			b.WriteString("  param ")
			dumpNode(&b, p, 2)
			b.WriteString("\n")
		}
		if f.Body != nil {
			b.WriteString("  = ")
			dumpNode(&b, f.Body, 2)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func DumpType(t TypeExpr) string {
	switch v := t.(type) {
	case *TypeRef:
		if len(v.Args) == 0 {
			return v.Ref.String()
		}
		parts := []string{v.Ref.String()}
		for _, a := range v.Args {
			parts = append(parts, DumpType(a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *TypeVar:
		return v.Name
	case *ListType:
		return "[" + DumpType(v.Elem) + "]"
	case *TupleType:
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			parts[i] = DumpType(it)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *FuncType:
		return "(" + DumpType(v.Param) + " -> " + DumpType(v.Result) + ")"
	}
	return "?"
}

func dumpNode(b *strings.Builder, n Node, depth int) {
	fmt.Fprintf(b, "#%d ", n.NodeID())
	switch v := n.(type) {
	case *LocalRef:
		fmt.Fprintf(b, "local %s/%d", v.Name, v.Var)
	case *GlobalRef:
		fmt.Fprintf(b, "global %s", v.Ref)
	case *CtorRef:
		fmt.Fprintf(b, "ctor %s.%s/%d", v.Type, v.Variant, v.Tag)
	case *IntLit:
		fmt.Fprintf(b, "%d", v.Value)
	case *FloatLit:
		fmt.Fprintf(b, "%g", v.Value)
	case *StringLit:
		fmt.Fprintf(b, "%q", v.Value)
	case *BoolLit:
		fmt.Fprintf(b, "%v", v.Value)
	case *Lambda:
		b.WriteString("lambda captures[")
		for i, c := range v.Captures {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(b, "%s/%d", c.Name, c.Var)
		}
		b.WriteString("]")
	case *Op:
		fmt.Fprintf(b, "op %s", v.Op)
	case *FieldAccess:
		fmt.Fprintf(b, "field .%s %v", v.Field, v.Candidates)
	case *TupleField:
		fmt.Fprintf(b, "tuple .%d", v.Index)
	case *Format:
		fmt.Fprintf(b, "format %q", v.Parts)
	case *RecordInit:
		b.WriteString("init " + v.Record.String())
		for _, f := range v.Fields {
			b.WriteString(" " + f.Name)
		}
	case *RecordUpdate:
		fmt.Fprintf(b, "update %v", v.Candidates)
		for _, f := range v.Fields {
			b.WriteString(" " + f.Name)
		}
	case *Case:
		b.WriteString("case")
		for _, alt := range v.Alts {
			if alt.Guard != nil {
				b.WriteString(" guarded")
			} else {
				b.WriteString(" alt")
			}
		}
	case *VariantPattern:
		fmt.Fprintf(b, "pvariant %s.%s/%d record=%v", v.Type, v.Variant, v.Tag, v.Record)
	case *IntPattern:
		fmt.Fprintf(b, "pint %d", v.Value)
	case *FloatPattern:
		fmt.Fprintf(b, "pfloat %g", v.Value)
	case *StringPattern:
		fmt.Fprintf(b, "pstring %q", v.Value)
	case *BoolPattern:
		fmt.Fprintf(b, "pbool %v", v.Value)
	case *BindPattern:
		fmt.Fprintf(b, "pbind %s/%d", v.Name, v.Var)
	default:
		fmt.Fprintf(b, "%T", n)
	}
	for _, c := range Children(n) {
		b.WriteString("\n" + strings.Repeat("  ", depth))
		dumpNode(b, c, depth+1)
	}
}
