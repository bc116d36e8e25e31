package token

import "github.com/funvibe/siko/internal/location"

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string      // The exact text from the source
	Literal interface{} // Parsed value for literals (int64, float64, string, bool)
	Line    int
	Column  int
	Loc     location.ID
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT      TokenType = "IDENT"      // x, length, M.insert
	TYPE_IDENT TokenType = "TYPE_IDENT" // Int, Option, Data.Map
	INT        TokenType = "INT"
	FLOAT      TokenType = "FLOAT"
	STRING     TokenType = "STRING"
	TRUE       TokenType = "TRUE"
	FALSE      TokenType = "FALSE"
	UNDERSCORE TokenType = "_"

	// Operators
	ASSIGN    TokenType = "="
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	ASTERISK  TokenType = "*"
	SLASH     TokenType = "/"
	PERCENT   TokenType = "%"
	BANG      TokenType = "!"
	EQ        TokenType = "=="
	NOT_EQ    TokenType = "!="
	LT        TokenType = "<"
	LTE       TokenType = "<="
	GT        TokenType = ">"
	GTE       TokenType = ">="
	AND       TokenType = "&&"
	OR        TokenType = "||"
	PIPE_GT   TokenType = "|>"
	PIPE      TokenType = "|"
	BACKSLASH TokenType = "\\"
	L_ARROW   TokenType = "<-"
	ARROW     TokenType = "->"
	FAT_ARROW TokenType = "=>"
	DCOLON    TokenType = "::"
	COLON     TokenType = ":"
	DOT       TokenType = "."
	DOTDOT    TokenType = ".."

	// Delimiters
	COMMA    TokenType = ","
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Virtual tokens inserted by the layout resolver
	V_LBRACE TokenType = "<{>"
	V_SEMI   TokenType = "<;>"
	V_RBRACE TokenType = "<}>"

	// Keywords
	MODULE   TokenType = "MODULE"
	IMPORT   TokenType = "IMPORT"
	DATA     TokenType = "DATA"
	CASE     TokenType = "CASE"
	OF       TokenType = "OF"
	DO       TokenType = "DO"
	IF       TokenType = "IF"
	THEN     TokenType = "THEN"
	ELSE     TokenType = "ELSE"
	DERIVING TokenType = "DERIVING"
	EXTERN   TokenType = "EXTERN"
	WHERE    TokenType = "WHERE"
	HIDING   TokenType = "HIDING"
	AS       TokenType = "AS"
)

var keywords = map[string]TokenType{
	"module":   MODULE,
	"import":   IMPORT,
	"data":     DATA,
	"case":     CASE,
	"of":       OF,
	"do":       DO,
	"if":       IF,
	"then":     THEN,
	"else":     ELSE,
	"deriving": DERIVING,
	"extern":   EXTERN,
	"where":    WHERE,
	"hiding":   HIDING,
	"as":       AS,
	"True":     TRUE,
	"False":    FALSE,
}

// LookupIdent returns the keyword type for ident, or IDENT/TYPE_IDENT
// depending on the case of its last dotted segment.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	last := ident
	for i := len(ident) - 1; i >= 0; i-- {
		if ident[i] == '.' {
			last = ident[i+1:]
			break
		}
	}
	if last != "" && last[0] >= 'A' && last[0] <= 'Z' {
		return TYPE_IDENT
	}
	return IDENT
}

// IsBlockOpener reports whether a layout block starts after this token.
func (t TokenType) IsBlockOpener() bool {
	return t == WHERE || t == DO || t == OF
}

// IsVirtual reports whether the token was inserted by the layout resolver.
func (t TokenType) IsVirtual() bool {
	return t == V_LBRACE || t == V_SEMI || t == V_RBRACE
}

// Describe renders a token for "expected X, found Y" messages.
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case V_SEMI:
		return "end of item"
	case V_RBRACE:
		return "end of block"
	case V_LBRACE:
		return "start of block"
	case IDENT, TYPE_IDENT, INT, FLOAT:
		return string(t.Type) + " " + t.Lexeme
	case STRING:
		return "string literal"
	}
	return "'" + t.Lexeme + "'"
}

// StringValue is the Literal of a STRING token. Parts holds the text
// split at unescaped "{}" formatter markers, so a plain string has one
// part and a template with n markers has n+1.
type StringValue struct {
	Value string
	Parts []string
}

// Markers returns the number of formatter markers in the literal.
func (s StringValue) Markers() int {
	return len(s.Parts) - 1
}
