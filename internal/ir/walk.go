package ir

// Children returns the direct sub-nodes of n in evaluation order.
func Children(n Node) []Node {
	var out []Node
	addE := func(es ...Expr) {
		for _, e := range es {
			if e != nil {
				out = append(out, e)
			}
		}
	}
	addP := func(ps ...Pattern) {
		for _, p := range ps {
			out = append(out, p)
		}
	}
	switch v := n.(type) {
	case *Call:
		addE(v.Callee)
		addE(v.Args...)
	case *Op:
		addE(v.Args...)
	case *If:
		addE(v.Cond, v.Then, v.Else)
	case *Tuple:
		addE(v.Items...)
	case *List:
		addE(v.Items...)
	case *Lambda:
		addP(v.Params...)
		addE(v.Body)
	case *Do:
		addE(v.Items...)
	case *Bind:
		addE(v.Value)
		addP(v.Pattern)
	case *FieldAccess:
		addE(v.Expr)
	case *TupleField:
		addE(v.Expr)
	case *Format:
		addE(v.Args...)
	case *Case:
		addE(v.Scrutinee)
		for _, alt := range v.Alts {
			addP(alt.Pattern)
			addE(alt.Guard, alt.Body)
		}
	case *RecordInit:
		for _, f := range v.Fields {
			addE(f.Value)
		}
	case *RecordUpdate:
		addE(v.Expr)
		for _, f := range v.Fields {
			addE(f.Value)
		}
	case *VariantPattern:
		addP(v.Args...)
	case *TuplePattern:
		addP(v.Items...)
	}
	return out
}

// Inspect walks n depth-first; f returning false skips the children.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// PatternVars returns the variables a pattern binds, left to right.
func PatternVars(p Pattern) []*BindPattern {
	var out []*BindPattern
	Inspect(p, func(n Node) bool {
		if b, ok := n.(*BindPattern); ok {
			out = append(out, b)
		}
		return true
	})
	return out
}
