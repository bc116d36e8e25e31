package typesystem

import "fmt"

// UnifyError describes why two types do not unify.
type UnifyError struct {
	Left, Right Type
	Infinite    bool
}

func (e *UnifyError) Error() string {
	if e.Infinite {
		return fmt.Sprintf("infinite type: %s occurs in %s", e.Left, e.Right)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.Left, e.Right)
}

// Unify finds the most general substitution making t1 and t2 equal.
func Unify(t1, t2 Type) (Subst, error) {
	switch a := t1.(type) {
	case TVar:
		return bind(a, t2)
	case TParam:
		switch b := t2.(type) {
		case TVar:
			return bind(b, a)
		case TParam:
			if a.Name == b.Name {
				return Subst{}, nil
			}
		}
	case TCon:
		switch b := t2.(type) {
		case TVar:
			return bind(b, a)
		case TCon:
			if a.Name != b.Name || len(a.Args) != len(b.Args) {
				break
			}
			return unifyAll(a.Args, b.Args, t1, t2)
		}
	case TFunc:
		switch b := t2.(type) {
		case TVar:
			return bind(b, a)
		case TFunc:
			return unifyAll([]Type{a.Param, a.Result}, []Type{b.Param, b.Result}, t1, t2)
		}
	case TTuple:
		switch b := t2.(type) {
		case TVar:
			return bind(b, a)
		case TTuple:
			if len(a.Elements) != len(b.Elements) {
				break
			}
			return unifyAll(a.Elements, b.Elements, t1, t2)
		}
	}
	return nil, &UnifyError{Left: t1, Right: t2}
}

func unifyAll(as, bs []Type, t1, t2 Type) (Subst, error) {
	s := Subst{}
	for i := range as {
		s2, err := Unify(as[i].Apply(s), bs[i].Apply(s))
		if err != nil {
			if ue, ok := err.(*UnifyError); ok && ue.Infinite {
				return nil, err
			}
			return nil, &UnifyError{Left: t1.Apply(s), Right: t2.Apply(s)}
		}
		s = s2.Compose(s)
	}
	return s, nil
}

func bind(v TVar, t Type) (Subst, error) {
	if tv, ok := t.(TVar); ok && tv.Name == v.Name {
		return Subst{}, nil
	}
	if Occurs(v.Name, t) {
		return nil, &UnifyError{Left: v, Right: t, Infinite: true}
	}
	return Subst{v.Name: t}, nil
}
