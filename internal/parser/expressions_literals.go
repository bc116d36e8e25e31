package parser

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/token"
)

// parseStringOrFormatter parses a string literal, or a formatter when
// the literal is followed by `%`.
func (p *Parser) parseStringOrFormatter() ast.Expression {
	tok := p.next()
	sv := tok.Literal.(token.StringValue)
	if !p.curIs(token.PERCENT) {
		return &ast.StringLit{Loc: tok.Loc, Value: sv.Value}
	}
	p.next()
	var args []ast.Expression
	arg := p.parsePostfix(p.parseAtom())
	if tuple, ok := arg.(*ast.Tuple); ok {
		args = tuple.Items
	} else {
		args = []ast.Expression{arg}
	}
	if len(args) != sv.Markers() {
		p.fail(diagnostics.ErrP004, tok, "formatter has %d {} markers but %d arguments", sv.Markers(), len(args))
	}
	return &ast.Formatter{Loc: tok.Loc, Parts: sv.Parts, Args: args}
}

// parseParenthesized parses (), (e) and (e1, e2, ...).
func (p *Parser) parseParenthesized() ast.Expression {
	open := p.next()
	if p.accept(token.RPAREN) {
		return &ast.Tuple{Loc: open.Loc}
	}
	first := p.parseExpression(LOWEST)
	if p.accept(token.RPAREN) {
		return first
	}
	items := []ast.Expression{first}
	for p.accept(token.COMMA) {
		items = append(items, p.parseExpression(LOWEST))
	}
	p.expect(token.RPAREN)
	return &ast.Tuple{Loc: open.Loc, Items: items}
}

func (p *Parser) parseList() ast.Expression {
	open := p.next()
	list := &ast.List{Loc: open.Loc}
	for !p.curIs(token.RBRACKET) {
		list.Items = append(list.Items, p.parseExpression(LOWEST))
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	return list
}

// parseFieldInits parses `{ f = e, g = e }`.
func (p *Parser) parseFieldInits() []*ast.FieldInit {
	p.expect(token.LBRACE)
	var fields []*ast.FieldInit
	for !p.curIs(token.RBRACE) {
		name := p.expect(token.IDENT)
		p.expect(token.ASSIGN)
		fields = append(fields, &ast.FieldInit{Loc: name.Loc, Name: name.Lexeme, Value: p.parseExpression(LOWEST)})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return fields
}
