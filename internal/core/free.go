package core

// FreeVars returns the variables e uses but does not bind, in order of
// first use. Variables are unique within a module, so no binder
// shadows another.
func FreeVars(e Expr, bound ...Var) []Var {
	f := &freeFinder{bound: make(map[int]bool), seen: make(map[int]bool)}
	for _, v := range bound {
		f.bound[v.ID] = true
	}
	f.expr(e)
	var out []Var
	for _, v := range f.used {
		if !f.bound[v.ID] {
			out = append(out, v)
		}
	}
	return out
}

type freeFinder struct {
	bound map[int]bool
	seen  map[int]bool
	used  []Var
}

func (f *freeFinder) use(v Var) {
	if !f.seen[v.ID] {
		f.seen[v.ID] = true
		f.used = append(f.used, v)
	}
}

func (f *freeFinder) bind(vs ...Var) {
	for _, v := range vs {
		f.bound[v.ID] = true
	}
}

func (f *freeFinder) exprs(es []Expr) {
	for _, e := range es {
		f.expr(e)
	}
}

func (f *freeFinder) expr(e Expr) {
	switch v := e.(type) {
	case Var:
		f.use(v)
	case *Apply:
		f.expr(v.Func)
		f.exprs(v.Args)
	case *Lambda:
		f.bind(v.Params...)
		f.expr(v.Body)
	case *Let:
		f.expr(v.Value)
		f.bind(v.Var)
		f.expr(v.Body)
	case *Seq:
		f.expr(v.First)
		f.expr(v.Then)
	case *If:
		f.exprs([]Expr{v.Cond, v.Then, v.Else})
	case *Tuple:
		f.exprs(v.Items)
	case *List:
		f.exprs(v.Items)
	case *TupleGet:
		f.expr(v.Expr)
	case *FieldGet:
		f.expr(v.Expr)
	case *RecordNew:
		f.exprs(v.Fields)
	case *Method:
		f.expr(v.Dict)
	case *DictInstance:
		f.exprs(v.Args)
	case *Format:
		f.exprs(v.Args)
		f.exprs(v.Dicts)
	case *Match:
		for _, mv := range v.Vars {
			f.use(mv)
		}
		f.decision(v.Tree)
		for _, arm := range v.Arms {
			if arm.Guard != nil {
				f.expr(arm.Guard)
			}
			f.expr(arm.Body)
		}
	}
}

func (f *freeFinder) decision(d Decision) {
	switch v := d.(type) {
	case *Switch:
		f.use(v.Var)
		for _, c := range v.Cases {
			f.bind(c.Fields...)
			f.decision(c.Next)
		}
		if v.Default != nil {
			f.decision(v.Default)
		}
	case *Destructure:
		f.use(v.Var)
		f.bind(v.Fields...)
		f.decision(v.Next)
	case *LitSwitch:
		f.use(v.Var)
		for _, c := range v.Cases {
			f.decision(c.Next)
		}
		if v.Default != nil {
			f.decision(v.Default)
		}
	case *Leaf:
		for _, b := range v.Bindings {
			f.bind(b.Var)
		}
		if v.Else != nil {
			f.decision(v.Else)
		}
	}
}
