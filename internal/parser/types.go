package parser

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/token"
)

// parseType parses `btype (-> type)?`; arrows associate to the right.
func (p *Parser) parseType() ast.TypeExpr {
	left := p.parseTypeApp()
	if p.curIs(token.ARROW) {
		arrow := p.next()
		return &ast.FuncType{Loc: arrow.Loc, Param: left, Result: p.parseType()}
	}
	return left
}

func (p *Parser) parseTypeApp() ast.TypeExpr {
	if p.curIs(token.TYPE_IDENT) {
		name := p.next()
		t := &ast.NamedType{Loc: name.Loc, Name: name.Lexeme}
		for p.startsTypeAtom() {
			t.Args = append(t.Args, p.parseTypeAtom())
		}
		return t
	}
	return p.parseTypeAtom()
}

func (p *Parser) startsTypeAtom() bool {
	return p.curIs(token.IDENT, token.TYPE_IDENT, token.LPAREN, token.LBRACKET)
}

func (p *Parser) parseTypeAtom() ast.TypeExpr {
	tok := p.cur()
	switch tok.Type {
	case token.IDENT:
		p.next()
		return &ast.VarType{Loc: tok.Loc, Name: tok.Lexeme}
	case token.TYPE_IDENT:
		p.next()
		return &ast.NamedType{Loc: tok.Loc, Name: tok.Lexeme}
	case token.LBRACKET:
		p.next()
		elem := p.parseType()
		p.expect(token.RBRACKET)
		return &ast.ListType{Loc: tok.Loc, Elem: elem}
	case token.LPAREN:
		p.next()
		if p.accept(token.RPAREN) {
			return &ast.TupleType{Loc: tok.Loc}
		}
		first := p.parseType()
		if p.accept(token.RPAREN) {
			return first
		}
		items := []ast.TypeExpr{first}
		for p.accept(token.COMMA) {
			items = append(items, p.parseType())
		}
		p.expect(token.RPAREN)
		return &ast.TupleType{Loc: tok.Loc, Items: items}
	}
	p.failExpected(token.IDENT, token.TYPE_IDENT, token.LPAREN, token.LBRACKET)
	return nil
}
