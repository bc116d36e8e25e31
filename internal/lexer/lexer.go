package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/siko/internal/diagnostics"
	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/token"
)

const tabWidth = 8

type Lexer struct {
	file         string
	input        string
	table        *location.Table
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
	badByte      bool // ch replaces a byte that is not valid UTF-8
	prev         token.TokenType
	err          *diagnostics.DiagnosticError
}

func New(file, input string, table *location.Table) *Lexer {
	if table == nil {
		table = location.NewTable()
	}
	l := &Lexer{file: file, input: input, table: table, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	switch l.ch {
	case '\n':
		l.line++
		l.column = 1
	case '\t':
		l.column = ((l.column-1)/tabWidth+1)*tabWidth + 1
	default:
		l.column++
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.badByte = r == utf8.RuneError && w == 1
	l.position = l.readPosition
	l.readPosition += w
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekChar2() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	if l.readPosition+w >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition+w:])
	return r
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// Tokenize scans the whole input. The last token is always EOF. The
// first malformed token stops scanning with a LexError.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			return toks, l.err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	if !l.skipWhitespaceAndComments() {
		return l.illegal(diagnostics.ErrL003, l.line, l.column, "unterminated block comment")
	}

	line, col := l.line, l.column
	mk := func(t token.TokenType, lexeme string) token.Token {
		return l.emit(token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col})
	}
	two := func(t token.TokenType) token.Token {
		lexeme := string(l.ch) + string(l.peekChar())
		l.readChar()
		l.readChar()
		return mk(t, lexeme)
	}
	one := func(t token.TokenType) token.Token {
		lexeme := string(l.ch)
		l.readChar()
		return mk(t, lexeme)
	}

	if l.atEnd() {
		return mk(token.EOF, "")
	}

	switch l.ch {
	case '=':
		switch l.peekChar() {
		case '=':
			return two(token.EQ)
		case '>':
			return two(token.FAT_ARROW)
		}
		return one(token.ASSIGN)
	case '+':
		return one(token.PLUS)
	case '-':
		if l.peekChar() == '>' {
			return two(token.ARROW)
		}
		return one(token.MINUS)
	case '*':
		return one(token.ASTERISK)
	case '/':
		return one(token.SLASH)
	case '%':
		return one(token.PERCENT)
	case '!':
		if l.peekChar() == '=' {
			return two(token.NOT_EQ)
		}
		return one(token.BANG)
	case '<':
		switch l.peekChar() {
		case '=':
			return two(token.LTE)
		case '-':
			return two(token.L_ARROW)
		}
		return one(token.LT)
	case '>':
		if l.peekChar() == '=' {
			return two(token.GTE)
		}
		return one(token.GT)
	case '&':
		if l.peekChar() == '&' {
			return two(token.AND)
		}
		return l.illegal(diagnostics.ErrL001, line, col, "invalid character '&', did you mean '&&'?")
	case '|':
		switch l.peekChar() {
		case '|':
			return two(token.OR)
		case '>':
			return two(token.PIPE_GT)
		}
		return one(token.PIPE)
	case '\\':
		return one(token.BACKSLASH)
	case ':':
		if l.peekChar() == ':' {
			return two(token.DCOLON)
		}
		return one(token.COLON)
	case '.':
		if l.peekChar() == '.' {
			return two(token.DOTDOT)
		}
		return one(token.DOT)
	case ',':
		return one(token.COMMA)
	case '(':
		return one(token.LPAREN)
	case ')':
		return one(token.RPAREN)
	case '{':
		return one(token.LBRACE)
	case '}':
		return one(token.RBRACE)
	case '[':
		return one(token.LBRACKET)
	case ']':
		return one(token.RBRACKET)
	case '"':
		return l.readString(line, col)
	}

	if isLetter(l.ch) {
		ident := l.readIdentifier()
		if ident == "_" {
			return mk(token.UNDERSCORE, ident)
		}
		tok := mk(token.LookupIdent(ident), ident)
		switch tok.Type {
		case token.TRUE:
			tok.Literal = true
		case token.FALSE:
			tok.Literal = false
		}
		return tok
	}
	if isDigit(l.ch) {
		return l.readNumber(line, col)
	}
	return l.illegal(diagnostics.ErrL001, line, col, "invalid character %q", l.ch)
}

// emit attaches a location to tok and remembers its type.
func (l *Lexer) emit(tok token.Token) token.Token {
	tok.Loc = l.table.Add(location.Position{File: l.file, Line: tok.Line, Column: tok.Column})
	l.prev = tok.Type
	return tok
}

func (l *Lexer) illegal(code diagnostics.ErrorCode, line, col int, format string, args ...interface{}) token.Token {
	tok := l.emit(token.Token{Type: token.ILLEGAL, Lexeme: string(l.ch), Line: line, Column: col})
	l.err = diagnostics.NewError(code, l.table, tok.Loc, format, args...)
	return tok
}

// skipWhitespaceAndComments returns false on an unterminated block comment.
func (l *Lexer) skipWhitespaceAndComments() bool {
	for !l.atEnd() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-', l.ch == '/' && l.peekChar() == '/':
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		case l.ch == '{' && l.peekChar() == '-':
			if !l.skipNested('{', '-', '-', '}') {
				return false
			}
		case l.ch == '/' && l.peekChar() == '*':
			if !l.skipNested('/', '*', '*', '/') {
				return false
			}
		default:
			return true
		}
	}
	return true
}

// skipNested skips a block comment that may nest.
func (l *Lexer) skipNested(o1, o2, c1, c2 rune) bool {
	depth := 0
	for !l.atEnd() {
		switch {
		case l.ch == o1 && l.peekChar() == o2:
			depth++
			l.readChar()
			l.readChar()
		case l.ch == c1 && l.peekChar() == c2:
			depth--
			l.readChar()
			l.readChar()
			if depth == 0 {
				return true
			}
		default:
			l.readChar()
		}
	}
	return false
}

// readIdentifier reads a possibly qualified identifier. An upper-case
// segment immediately followed by '.' and a letter continues the name.
func (l *Lexer) readIdentifier() string {
	start := l.position
	for {
		segStart := l.position
		for isLetter(l.ch) || isDigit(l.ch) || l.ch == '\'' {
			l.readChar()
		}
		first, _ := utf8.DecodeRuneInString(l.input[segStart:])
		if !unicode.IsUpper(first) || l.ch != '.' || !isLetter(l.peekChar()) || l.peekChar() == '_' {
			break
		}
		l.readChar() // '.'
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber(line, col int) token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	isFloat := false
	// t.0.1 is two tuple accesses, not a float
	if l.ch == '.' && isDigit(l.peekChar()) && l.prev != token.DOT {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if isLetter(l.ch) {
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		return l.illegal(diagnostics.ErrL005, line, col, "malformed number %q", l.input[start:l.position])
	}
	text := l.input[start:l.position]
	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.illegal(diagnostics.ErrL005, line, col, "malformed number %q", text)
		}
		return l.emit(token.Token{Type: token.FLOAT, Lexeme: text, Literal: v, Line: line, Column: col})
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return l.illegal(diagnostics.ErrL005, line, col, "integer literal %s out of range", text)
	}
	return l.emit(token.Token{Type: token.INT, Lexeme: text, Literal: v, Line: line, Column: col})
}

// readString reads a string literal and splits it at unescaped "{}".
func (l *Lexer) readString(line, col int) token.Token {
	start := l.position
	var value, part strings.Builder
	var parts []string
	l.readChar() // opening quote
	for {
		switch {
		case l.atEnd() || l.ch == '\n':
			return l.illegal(diagnostics.ErrL002, line, col, "unterminated string literal")
		case l.ch == '"':
			l.readChar()
			parts = append(parts, part.String())
			lexeme := l.input[start:l.position]
			return l.emit(token.Token{
				Type:    token.STRING,
				Lexeme:  lexeme,
				Literal: token.StringValue{Value: value.String(), Parts: parts},
				Line:    line,
				Column:  col,
			})
		case l.ch == '{' && l.peekChar() == '}':
			value.WriteString("{}")
			parts = append(parts, part.String())
			part.Reset()
			l.readChar()
			l.readChar()
		case l.ch == '\\':
			escLine, escCol := l.line, l.column
			l.readChar()
			var r rune
			switch l.ch {
			case 'n':
				r = '\n'
			case 't':
				r = '\t'
			case 'r':
				r = '\r'
			case '"':
				r = '"'
			case '\\':
				r = '\\'
			case '{':
				r = '{'
			case '}':
				r = '}'
			case '0':
				r = 0
			default:
				return l.illegal(diagnostics.ErrL004, escLine, escCol, "invalid escape sequence %s", fmt.Sprintf("\\%c", l.ch))
			}
			value.WriteRune(r)
			part.WriteRune(r)
			l.readChar()
		case l.badByte:
			return l.illegal(diagnostics.ErrL001, l.line, l.column, "invalid UTF-8 byte %#02x in string literal", l.input[l.position])
		default:
			value.WriteRune(l.ch)
			part.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
