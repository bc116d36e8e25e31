package ast

// Inspect traverses the tree rooted at node in depth-first source order.
// f is called for each node; if it returns false the node's children are
// skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// Children returns the direct children of node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, n := range ns {
			if n != nil {
				out = append(out, n)
			}
		}
	}
	switch n := node.(type) {
	case *Module:
		for _, i := range n.Imports {
			add(i)
		}
		for _, d := range n.Data {
			add(d)
		}
		for _, s := range n.Signatures {
			add(s)
		}
		for _, f := range n.Functions {
			add(f)
		}
	case *AdtDef:
		for _, v := range n.Variants {
			for _, t := range v.Fields {
				add(t)
			}
		}
	case *RecordDef:
		for _, f := range n.Fields {
			add(f.Type)
		}
	case *FunctionSignature:
		add(n.Type)
	case *Function:
		for _, a := range n.Args {
			add(a)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *Lambda:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *FunctionCall:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *Builtin:
		for _, a := range n.Args {
			add(a)
		}
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *Tuple:
		for _, e := range n.Items {
			add(e)
		}
	case *List:
		for _, e := range n.Items {
			add(e)
		}
	case *Do:
		for _, e := range n.Items {
			add(e)
		}
	case *Bind:
		add(n.Pattern, n.Value)
	case *FieldAccess:
		add(n.Expr)
	case *TupleFieldAccess:
		add(n.Expr)
	case *Formatter:
		for _, e := range n.Args {
			add(e)
		}
	case *CaseOf:
		add(n.Scrutinee)
		for _, c := range n.Cases {
			add(c)
		}
	case *Case:
		add(n.Pattern)
		if n.Guard != nil {
			add(n.Guard)
		}
		add(n.Body)
	case *RecordInitialization:
		for _, f := range n.Fields {
			add(f.Value)
		}
	case *RecordUpdate:
		add(n.Expr)
		for _, f := range n.Fields {
			add(f.Value)
		}
	case *VariantPattern:
		for _, p := range n.Args {
			add(p)
		}
	case *TuplePattern:
		for _, p := range n.Items {
			add(p)
		}
	case *NamedType:
		for _, t := range n.Args {
			add(t)
		}
	case *ListType:
		add(n.Elem)
	case *TupleType:
		for _, t := range n.Items {
			add(t)
		}
	case *FuncType:
		add(n.Param, n.Result)
	}
	return out
}

// PatternNames returns the names bound by p, in source order.
func PatternNames(p Pattern) []string {
	var names []string
	Inspect(p, func(n Node) bool {
		if b, ok := n.(*BindPattern); ok {
			names = append(names, b.Name)
		}
		return true
	})
	return names
}
