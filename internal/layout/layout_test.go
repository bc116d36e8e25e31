package layout

import (
	"strings"
	"testing"

	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/lexer"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/token"
)

// render joins lexemes with spaces, virtual tokens shown as { ; }.
func render(toks []token.Token) string {
	var parts []string
	for _, tok := range toks {
		switch tok.Type {
		case token.V_LBRACE:
			parts = append(parts, "{")
		case token.V_SEMI:
			parts = append(parts, ";")
		case token.V_RBRACE:
			parts = append(parts, "}")
		case token.EOF:
		default:
			parts = append(parts, tok.Lexeme)
		}
	}
	return strings.Join(parts, " ")
}

func resolve(t *testing.T, input string) ([]token.Token, error) {
	t.Helper()
	tbl := location.NewTable()
	toks, err := lexer.New("layout.sk", input, tbl).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	return Resolve(toks, tbl)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"module items",
			"module Main where\nf = 1\ng = 2\n",
			"module Main where { f = 1 ; g = 2 }",
		},
		{
			"do block with trailing lambda",
			"module Main where\nlambdaCreate = do\n    a <- 1\n    \\x, y -> x + y + a\nmain = 0\n",
			"module Main where { lambdaCreate = do { a <- 1 ; \\ x , y -> x + y + a } ; main = 0 }",
		},
		{
			"continuation lines",
			"module Main where\nf = do\n    g 1\n      2\n    h\n",
			"module Main where { f = do { g 1 2 ; h } }",
		},
		{
			"multi-line lambda body",
			"module Main where\nf a = do\n    \\x, y ->\n        \\z -> x + y + a + z\n",
			"module Main where { f a = do { \\ x , y -> \\ z -> x + y + a + z } }",
		},
		{
			"block closed by bracket",
			"module Main where\nr = (do lambdaCreate) 2 3\n",
			"module Main where { r = ( do { lambdaCreate } ) 2 3 }",
		},
		{
			"case alternatives",
			"module Main where\nf x = case x of\n    Some v -> v\n    None -> 0\ng = 1\n",
			"module Main where { f x = case x of { Some v -> v ; None -> 0 } ; g = 1 }",
		},
		{
			"nested blocks close together",
			"module Main where\nf = do\n    case x of\n        A -> do\n            b\n    c\nd = 1\n",
			"module Main where { f = do { case x of { A -> do { b } } ; c } ; d = 1 }",
		},
		{
			"offside ignored inside brackets",
			"module Main where\nf = do\n      g (a,\n  b)\n      h\n",
			"module Main where { f = do { g ( a , b ) ; h } }",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := resolve(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := render(toks); got != tt.want {
				t.Errorf("got\n  %s\nwant\n  %s", got, tt.want)
			}
			if toks[len(toks)-1].Type != token.EOF {
				t.Errorf("stream must end with EOF")
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
	}{
		{"left of every block", "module Main where\n  f = 1\n g = 2\n", diagnostics.ErrY001},
		{"opener at end of input", "module Main where\nf = do", diagnostics.ErrY002},
		{"unclosed paren", "module Main where\nf = (1\n", diagnostics.ErrY003},
		{"stray close", "module Main where\nf = 1)\n", diagnostics.ErrY003},
		{"mismatched bracket", "module Main where\nf = [1)\n", diagnostics.ErrY003},
		{"block not indented", "module Main where\nf = do\ng\n", diagnostics.ErrY004},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolve(t, tt.input)
			if err == nil {
				t.Fatalf("expected %s", tt.code)
			}
			de, ok := err.(*diagnostics.DiagnosticError)
			if !ok {
				t.Fatalf("error is %T: %v", err, err)
			}
			if de.Code != tt.code || de.Kind != diagnostics.LayoutError {
				t.Errorf("got %s %s, want %s", de.Code, de.Kind, tt.code)
			}
			if de.Pos.File != "layout.sk" || de.Pos.Line == 0 {
				t.Errorf("layout error without location: %+v", de.Pos)
			}
		})
	}
}
