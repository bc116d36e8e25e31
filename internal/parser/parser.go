package parser

import (
	"fmt"
	"strings"

	"github.com/funvibe/siko/internal/ast"
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/token"
)

// MaxRecursionDepth bounds expression nesting.
const MaxRecursionDepth = 500

// Operator precedences, lowest first.
const (
	_ int = iota
	LOWEST
	PIPE_FORWARD // |>
	LOGIC_OR     // ||
	LOGIC_AND    // &&
	EQUALS       // == !=
	COMPARE      // < <= > >=
	SUM          // + -
	PRODUCT      // * /
	PREFIX       // !x -x
)

var precedences = map[token.TokenType]int{
	token.PIPE_GT:  PIPE_FORWARD,
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARE,
	token.LTE:      COMPARE,
	token.GT:       COMPARE,
	token.GTE:      COMPARE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
}

var infixOps = map[token.TokenType]ast.BuiltinOp{
	token.PIPE_GT:  ast.OpPipeForward,
	token.OR:       ast.OpOr,
	token.AND:      ast.OpAnd,
	token.EQ:       ast.OpEq,
	token.NOT_EQ:   ast.OpNotEq,
	token.LT:       ast.OpLess,
	token.LTE:      ast.OpLessEq,
	token.GT:       ast.OpGreater,
	token.GTE:      ast.OpGreaterEq,
	token.PLUS:     ast.OpAdd,
	token.MINUS:    ast.OpSub,
	token.ASTERISK: ast.OpMul,
	token.SLASH:    ast.OpDiv,
}

// bailout unwinds the parser after the first error.
type bailout struct{}

// Parser is a recursive descent parser over the layout-delimited token
// stream. It stops at the first error.
type Parser struct {
	file   string
	table  *location.Table
	tokens []token.Token
	pos    int
	depth  int
	err    *diagnostics.DiagnosticError
}

func New(file string, tokens []token.Token, table *location.Table) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF})
	}
	return &Parser{file: file, table: table, tokens: tokens}
}

// ParseModule parses one compilation unit.
func (p *Parser) ParseModule() (mod *ast.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			mod, err = nil, p.err
		}
	}()
	return p.parseModule(), nil
}

// ParseExpression parses a standalone expression, used by tests and
// the REPL-style `siko eval` mode.
func (p *Parser) ParseExpression() (expr ast.Expression, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			expr, err = nil, p.err
		}
	}()
	expr = p.parseExpression(LOWEST)
	p.expect(token.EOF)
	return expr, nil
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) curIs(types ...token.TokenType) bool {
	t := p.cur().Type
	for _, typ := range types {
		if t == typ {
			return true
		}
	}
	return false
}

func (p *Parser) peekIs(t token.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) next() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// accept consumes the current token if it has type t.
func (p *Parser) accept(t token.TokenType) bool {
	if p.curIs(t) {
		p.next()
		return true
	}
	return false
}

// expect consumes a token of one of the given types or fails listing them.
func (p *Parser) expect(types ...token.TokenType) token.Token {
	if p.curIs(types...) {
		return p.next()
	}
	p.failExpected(types...)
	return token.Token{}
}

func (p *Parser) failExpected(types ...token.TokenType) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = describeType(t)
	}
	expected := names[0]
	if len(names) > 1 {
		expected = "one of " + strings.Join(names, ", ")
	}
	p.fail(diagnostics.ErrP001, p.cur(), "expected %s, found %s", expected, p.cur().Describe())
}

func (p *Parser) fail(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	if tok.Loc != location.None {
		p.err = diagnostics.NewError(code, p.table, tok.Loc, format, args...)
	} else {
		p.err = diagnostics.AtToken(code, tok, format, args...)
		p.err.Pos.File = p.file
	}
	panic(bailout{})
}

func describeType(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.TYPE_IDENT:
		return "type name"
	case token.EOF:
		return "end of input"
	case token.V_SEMI:
		return "end of item"
	case token.V_RBRACE:
		return "end of block"
	case token.V_LBRACE:
		return "start of block"
	case token.INT:
		return "integer"
	case token.STRING:
		return "string"
	}
	return fmt.Sprintf("'%s'", strings.ToLower(string(t)))
}

// loc returns the location of the current token.
func (p *Parser) loc() location.ID {
	return p.cur().Loc
}

// scanForBind reports whether the statement starting at the current
// token contains `<-` before its end.
func (p *Parser) scanForBind() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE, token.V_LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
		case token.V_RBRACE:
			if depth == 0 {
				return false
			}
			depth--
		case token.V_SEMI:
			if depth == 0 {
				return false
			}
		case token.L_ARROW:
			if depth == 0 {
				return true
			}
		case token.EOF:
			return false
		}
		if depth < 0 {
			return false
		}
	}
	return false
}

// scanForFatArrow reports whether the signature at the current token has
// a constraint context.
func (p *Parser) scanForFatArrow() bool {
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.FAT_ARROW:
			return true
		case token.V_SEMI, token.V_RBRACE, token.EOF, token.ARROW:
			return false
		}
	}
	return false
}
