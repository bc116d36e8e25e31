// Package layout implements the offside rule: it turns indentation
// into explicit virtual block delimiters.
//
// A block opens after `where`, `do` and `of`. Its anchor is the column
// of the first token that follows the opener. A line starting at the
// anchor begins a new item (a virtual `;` is inserted), a line starting
// further right continues the current item, and a line starting further
// left closes blocks until it is no longer left of the innermost anchor.
// A closing bracket closes every block opened inside the bracket pair.
package layout

import (
	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/token"
)

type block struct {
	anchor int
	depth  int // bracket depth when the block was opened
	opener token.Token
}

type resolver struct {
	table    *location.Table
	blocks   []block
	brackets []token.Token
	out      []token.Token
}

// Resolve inserts V_LBRACE, V_SEMI and V_RBRACE tokens into toks. The
// input must end with EOF, as produced by the lexer.
func Resolve(toks []token.Token, table *location.Table) ([]token.Token, error) {
	r := &resolver{table: table, out: make([]token.Token, 0, len(toks)+len(toks)/4)}
	var pending *token.Token

	for i, tok := range toks {
		if tok.Type == token.EOF {
			if pending != nil {
				return nil, r.errorf(diagnostics.ErrY002, *pending, "unterminated block: '%s' is not followed by a body", pending.Lexeme)
			}
			if len(r.brackets) > 0 {
				open := r.brackets[len(r.brackets)-1]
				return nil, r.errorf(diagnostics.ErrY003, open, "unclosed '%s'", open.Lexeme)
			}
			for len(r.blocks) > 0 {
				r.closeBlock(tok)
			}
			r.out = append(r.out, tok)
			return r.out, nil
		}

		firstOnLine := i == 0 || tok.Line != toks[i-1].Line
		switch {
		case pending != nil:
			if enclosing := r.anchor(); tok.Column <= enclosing {
				return nil, r.errorf(diagnostics.ErrY004, tok,
					"block opened by '%s' must be indented past column %d", pending.Lexeme, enclosing)
			}
			r.blocks = append(r.blocks, block{anchor: tok.Column, depth: len(r.brackets), opener: *pending})
			r.out = append(r.out, virtual(token.V_LBRACE, tok))
			pending = nil
		case firstOnLine:
			closed := false
			for len(r.blocks) > 0 && tok.Column < r.anchor() && r.top().depth == len(r.brackets) {
				r.closeBlock(tok)
				closed = true
			}
			if closed && len(r.blocks) == 0 {
				return nil, r.errorf(diagnostics.ErrY001, tok, "'%s' at column %d is left of every enclosing block", tok.Lexeme, tok.Column)
			}
			if len(r.blocks) > 0 && tok.Column == r.anchor() && r.top().depth == len(r.brackets) {
				r.out = append(r.out, virtual(token.V_SEMI, tok))
			}
		}

		switch tok.Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			r.brackets = append(r.brackets, tok)
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if len(r.brackets) == 0 || !matches(r.brackets[len(r.brackets)-1].Type, tok.Type) {
				return nil, r.errorf(diagnostics.ErrY003, tok, "unbalanced '%s'", tok.Lexeme)
			}
			for len(r.blocks) > 0 && r.top().depth >= len(r.brackets) {
				r.closeBlock(tok)
			}
			r.brackets = r.brackets[:len(r.brackets)-1]
		}

		r.out = append(r.out, tok)
		if tok.Type.IsBlockOpener() {
			opener := tok
			pending = &opener
		}
	}
	return nil, r.errorf(diagnostics.ErrY002, token.Token{}, "token stream is missing EOF")
}

func (r *resolver) top() block {
	return r.blocks[len(r.blocks)-1]
}

// anchor returns the innermost anchor, 0 outside every block.
func (r *resolver) anchor() int {
	if len(r.blocks) == 0 {
		return 0
	}
	return r.top().anchor
}

func (r *resolver) closeBlock(at token.Token) {
	r.blocks = r.blocks[:len(r.blocks)-1]
	r.out = append(r.out, virtual(token.V_RBRACE, at))
}

func (r *resolver) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) error {
	if tok.Loc != location.None {
		return diagnostics.NewError(code, r.table, tok.Loc, format, args...)
	}
	return diagnostics.AtToken(code, tok, format, args...)
}

func virtual(t token.TokenType, at token.Token) token.Token {
	return token.Token{Type: t, Lexeme: string(t), Line: at.Line, Column: at.Column, Loc: at.Loc}
}

func matches(open, close token.TokenType) bool {
	switch open {
	case token.LPAREN:
		return close == token.RPAREN
	case token.LBRACKET:
		return close == token.RBRACKET
	case token.LBRACE:
		return close == token.RBRACE
	}
	return false
}
