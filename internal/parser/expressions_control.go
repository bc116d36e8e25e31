package parser

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/token"
)

// parseLambda parses `\p1, p2 -> body`.
func (p *Parser) parseLambda() ast.Expression {
	start := p.next()
	lam := &ast.Lambda{Loc: start.Loc}
	for {
		if !p.startsPatternAtom() {
			p.failExpected(token.IDENT, token.UNDERSCORE, token.LPAREN)
		}
		lam.Params = append(lam.Params, p.parsePatternAtom())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.ARROW)
	lam.Body = p.parseExpression(LOWEST)
	return lam
}

// parseIf tolerates `then` and `else` starting a new item of an
// enclosing do block.
func (p *Parser) parseIf() ast.Expression {
	start := p.next()
	e := &ast.If{Loc: start.Loc, Cond: p.parseExpression(LOWEST)}
	p.skipItemSeparatorBefore(token.THEN)
	p.expect(token.THEN)
	e.Then = p.parseExpression(LOWEST)
	p.skipItemSeparatorBefore(token.ELSE)
	p.expect(token.ELSE)
	e.Else = p.parseExpression(LOWEST)
	return e
}

func (p *Parser) skipItemSeparatorBefore(t token.TokenType) {
	if p.curIs(token.V_SEMI) && p.peekIs(t) {
		p.next()
	}
}

// parseCase parses `case e of { alt ; alt }`.
func (p *Parser) parseCase() ast.Expression {
	start := p.next()
	c := &ast.CaseOf{Loc: start.Loc, Scrutinee: p.parseExpression(LOWEST)}
	p.expect(token.OF)
	p.expect(token.V_LBRACE)
	for {
		alt := &ast.Case{Loc: p.loc(), Pattern: p.parsePattern()}
		if p.accept(token.IF) {
			alt.Guard = p.parseExpression(LOWEST)
		}
		p.expect(token.ARROW)
		alt.Body = p.parseExpression(LOWEST)
		c.Cases = append(c.Cases, alt)
		if !p.accept(token.V_SEMI) {
			break
		}
	}
	p.expect(token.V_RBRACE)
	return c
}

// parseDo parses a do block. Each item is `pattern <- expr` or an
// expression; the last item must be an expression.
func (p *Parser) parseDo() ast.Expression {
	start := p.next()
	d := &ast.Do{Loc: start.Loc}
	p.expect(token.V_LBRACE)
	for {
		if p.scanForBind() {
			at := p.cur()
			pat := p.parsePattern()
			p.expect(token.L_ARROW)
			d.Items = append(d.Items, &ast.Bind{Loc: at.Loc, Pattern: pat, Value: p.parseExpression(LOWEST)})
		} else {
			d.Items = append(d.Items, p.parseExpression(LOWEST))
		}
		if !p.accept(token.V_SEMI) {
			break
		}
	}
	if last, ok := d.Items[len(d.Items)-1].(*ast.Bind); ok {
		p.fail(diagnostics.ErrP003, p.tokenAt(last.Loc), "the last statement of a do block must be an expression")
	}
	p.expect(token.V_RBRACE)
	return d
}

// tokenAt finds the token carrying loc, for errors reported after the
// fact.
func (p *Parser) tokenAt(loc location.ID) token.Token {
	for i := p.pos; i >= 0; i-- {
		if p.tokens[i].Loc == loc {
			return p.tokens[i]
		}
	}
	return p.cur()
}
