package ast

import (
	"github.com/funvibe/siko/internal/location"
)

// VariantPattern matches a variant or, positionally, a record.
type VariantPattern struct {
	Loc  location.ID
	Name string
	Args []Pattern
}

func (p *VariantPattern) Accept(v Visitor)      { v.VisitVariantPattern(p) }
func (p *VariantPattern) Location() location.ID { return p.Loc }
func (p *VariantPattern) patternNode()          {}

type TuplePattern struct {
	Loc   location.ID
	Items []Pattern
}

func (p *TuplePattern) Accept(v Visitor)      { v.VisitTuplePattern(p) }
func (p *TuplePattern) Location() location.ID { return p.Loc }
func (p *TuplePattern) patternNode()          {}

type IntPattern struct {
	Loc   location.ID
	Value int64
}

func (p *IntPattern) Accept(v Visitor)      { v.VisitIntPattern(p) }
func (p *IntPattern) Location() location.ID { return p.Loc }
func (p *IntPattern) patternNode()          {}

type FloatPattern struct {
	Loc   location.ID
	Value float64
}

func (p *FloatPattern) Accept(v Visitor)      { v.VisitFloatPattern(p) }
func (p *FloatPattern) Location() location.ID { return p.Loc }
func (p *FloatPattern) patternNode()          {}

type StringPattern struct {
	Loc   location.ID
	Value string
}

func (p *StringPattern) Accept(v Visitor)      { v.VisitStringPattern(p) }
func (p *StringPattern) Location() location.ID { return p.Loc }
func (p *StringPattern) patternNode()          {}

type BoolPattern struct {
	Loc   location.ID
	Value bool
}

func (p *BoolPattern) Accept(v Visitor)      { v.VisitBoolPattern(p) }
func (p *BoolPattern) Location() location.ID { return p.Loc }
func (p *BoolPattern) patternNode()          {}

// BindPattern binds the matched value to Name.
type BindPattern struct {
	Loc  location.ID
	Name string
}

func (p *BindPattern) Accept(v Visitor)      { v.VisitBindPattern(p) }
func (p *BindPattern) Location() location.ID { return p.Loc }
func (p *BindPattern) patternNode()          {}

type WildcardPattern struct {
	Loc location.ID
}

func (p *WildcardPattern) Accept(v Visitor)      { v.VisitWildcardPattern(p) }
func (p *WildcardPattern) Location() location.ID { return p.Loc }
func (p *WildcardPattern) patternNode()          {}
