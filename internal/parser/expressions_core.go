package parser

import (
	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.fail(diagnostics.ErrP001, p.cur(), "expression too complex: recursion depth limit exceeded")
	}

	left := p.parsePrefix()
	for {
		prec, ok := precedences[p.cur().Type]
		if !ok || precedence >= prec {
			return left
		}
		opTok := p.next()
		right := p.parseExpression(prec)
		left = &ast.Builtin{Loc: opTok.Loc, Op: infixOps[opTok.Type], Args: []ast.Expression{left, right}}
		if prec == EQUALS || prec == COMPARE {
			if next, ok := precedences[p.cur().Type]; ok && next == prec {
				p.fail(diagnostics.ErrP001, p.cur(), "comparison operators cannot be chained; use parentheses")
			}
		}
	}
}

// parsePrefix parses unary operators and application.
func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.BANG:
		p.next()
		return &ast.Builtin{Loc: tok.Loc, Op: ast.OpNot, Args: []ast.Expression{p.parseExpression(PREFIX)}}
	case token.MINUS:
		p.next()
		// literal negation is folded
		switch lit := p.cur(); lit.Type {
		case token.INT:
			p.next()
			return p.parsePostfix(&ast.IntLit{Loc: tok.Loc, Value: -lit.Literal.(int64)})
		case token.FLOAT:
			p.next()
			return p.parsePostfix(&ast.FloatLit{Loc: tok.Loc, Value: -lit.Literal.(float64)})
		}
		return &ast.Builtin{Loc: tok.Loc, Op: ast.OpNegate, Args: []ast.Expression{p.parseExpression(PREFIX)}}
	}
	return p.parseApplication()
}

// parseApplication gathers every adjacent argument into one FunctionCall.
func (p *Parser) parseApplication() ast.Expression {
	callee := p.parsePostfix(p.parseAtom())
	var args []ast.Expression
	for p.startsAtom() {
		args = append(args, p.parsePostfix(p.parseAtom()))
	}
	if len(args) == 0 {
		return callee
	}
	return &ast.FunctionCall{Loc: callee.Location(), Callee: callee, Args: args}
}

// parsePostfix parses `.field`, `.0` and record update braces.
func (p *Parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		switch {
		case p.curIs(token.DOT) && p.peekIs(token.IDENT):
			dot := p.next()
			field := p.next()
			expr = &ast.FieldAccess{Loc: dot.Loc, Expr: expr, Field: field.Lexeme}
		case p.curIs(token.DOT) && p.peekIs(token.INT):
			dot := p.next()
			idx := p.next()
			expr = &ast.TupleFieldAccess{Loc: dot.Loc, Expr: expr, Index: int(idx.Literal.(int64))}
		case p.curIs(token.LBRACE):
			brace := p.cur()
			expr = &ast.RecordUpdate{Loc: brace.Loc, Expr: expr, Fields: p.parseFieldInits()}
		default:
			return expr
		}
	}
}

func (p *Parser) startsAtom() bool {
	return p.curIs(token.IDENT, token.TYPE_IDENT, token.INT, token.FLOAT, token.STRING,
		token.TRUE, token.FALSE, token.LPAREN, token.LBRACKET, token.BACKSLASH,
		token.IF, token.CASE, token.DO)
}

func (p *Parser) parseAtom() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.IDENT:
		p.next()
		return &ast.Path{Loc: tok.Loc, Name: tok.Lexeme}
	case token.TYPE_IDENT:
		p.next()
		if p.curIs(token.LBRACE) {
			return &ast.RecordInitialization{Loc: tok.Loc, Name: tok.Lexeme, Fields: p.parseFieldInits()}
		}
		return &ast.Path{Loc: tok.Loc, Name: tok.Lexeme}
	case token.INT:
		p.next()
		return &ast.IntLit{Loc: tok.Loc, Value: tok.Literal.(int64)}
	case token.FLOAT:
		p.next()
		return &ast.FloatLit{Loc: tok.Loc, Value: tok.Literal.(float64)}
	case token.TRUE, token.FALSE:
		p.next()
		return &ast.BoolLit{Loc: tok.Loc, Value: tok.Type == token.TRUE}
	case token.STRING:
		return p.parseStringOrFormatter()
	case token.LPAREN:
		return p.parseParenthesized()
	case token.LBRACKET:
		return p.parseList()
	case token.BACKSLASH:
		return p.parseLambda()
	case token.IF:
		return p.parseIf()
	case token.CASE:
		return p.parseCase()
	case token.DO:
		return p.parseDo()
	}
	p.fail(diagnostics.ErrP001, tok, "expected expression, found %s", tok.Describe())
	return nil
}
