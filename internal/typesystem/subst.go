package typesystem

// Subst maps type variable names to types.
type Subst map[string]Type

// Compose returns the substitution applying s2 first, then s.
func (s Subst) Compose(s2 Subst) Subst {
	out := make(Subst, len(s)+len(s2))
	for k, v := range s2 {
		out[k] = v.Apply(s)
	}
	for k, v := range s {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}
