package parser

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/token"
)

// parsePattern parses a constructor pattern with arguments or an atom.
func (p *Parser) parsePattern() ast.Pattern {
	if p.curIs(token.TYPE_IDENT) {
		name := p.next()
		vp := &ast.VariantPattern{Loc: name.Loc, Name: name.Lexeme}
		for p.startsPatternAtom() {
			vp.Args = append(vp.Args, p.parsePatternAtom())
		}
		return vp
	}
	return p.parsePatternAtom()
}

func (p *Parser) startsPatternAtom() bool {
	return p.curIs(token.IDENT, token.TYPE_IDENT, token.UNDERSCORE, token.INT, token.FLOAT,
		token.STRING, token.TRUE, token.FALSE, token.LPAREN, token.MINUS)
}

func (p *Parser) parsePatternAtom() ast.Pattern {
	tok := p.cur()
	switch tok.Type {
	case token.IDENT:
		p.next()
		return &ast.BindPattern{Loc: tok.Loc, Name: tok.Lexeme}
	case token.UNDERSCORE:
		p.next()
		return &ast.WildcardPattern{Loc: tok.Loc}
	case token.TYPE_IDENT:
		p.next()
		return &ast.VariantPattern{Loc: tok.Loc, Name: tok.Lexeme}
	case token.INT:
		p.next()
		return &ast.IntPattern{Loc: tok.Loc, Value: tok.Literal.(int64)}
	case token.FLOAT:
		p.next()
		return &ast.FloatPattern{Loc: tok.Loc, Value: tok.Literal.(float64)}
	case token.MINUS:
		p.next()
		switch lit := p.cur(); lit.Type {
		case token.INT:
			p.next()
			return &ast.IntPattern{Loc: tok.Loc, Value: -lit.Literal.(int64)}
		case token.FLOAT:
			p.next()
			return &ast.FloatPattern{Loc: tok.Loc, Value: -lit.Literal.(float64)}
		}
		p.fail(diagnostics.ErrP005, p.cur(), "expected numeric literal after '-' in pattern")
	case token.STRING:
		p.next()
		sv := tok.Literal.(token.StringValue)
		return &ast.StringPattern{Loc: tok.Loc, Value: sv.Value}
	case token.TRUE, token.FALSE:
		p.next()
		return &ast.BoolPattern{Loc: tok.Loc, Value: tok.Type == token.TRUE}
	case token.LPAREN:
		p.next()
		if p.accept(token.RPAREN) {
			return &ast.TuplePattern{Loc: tok.Loc}
		}
		first := p.parsePattern()
		if p.accept(token.RPAREN) {
			return first
		}
		items := []ast.Pattern{first}
		for p.accept(token.COMMA) {
			items = append(items, p.parsePattern())
		}
		p.expect(token.RPAREN)
		return &ast.TuplePattern{Loc: tok.Loc, Items: items}
	}
	p.fail(diagnostics.ErrP005, tok, "expected pattern, found %s", tok.Describe())
	return nil
}
