// Package diagnostics defines the error taxonomy shared by every stage.
package diagnostics

import (
	"fmt"

	"github.com/funvibe/siko/internal/location"
	"github.com/funvibe/siko/internal/token"
)

// Kind is the stable error-kind tag reported with every diagnostic.
type Kind string

const (
	LexError               Kind = "LexError"
	LayoutError            Kind = "LayoutError"
	SyntaxError            Kind = "SyntaxError"
	ResolutionError        Kind = "ResolutionError"
	TypeError              Kind = "TypeError"
	ExhaustivenessError    Kind = "ExhaustivenessError"
	RedundancyError        Kind = "RedundancyError"
	InternalInvariantError Kind = "InternalInvariantError"
	ConfigError            Kind = "ConfigError"
	RuntimeError           Kind = "RuntimeError"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // invalid character
	ErrL002 ErrorCode = "L002" // unterminated string literal
	ErrL003 ErrorCode = "L003" // unterminated block comment
	ErrL004 ErrorCode = "L004" // invalid escape sequence
	ErrL005 ErrorCode = "L005" // malformed number

	// Layout
	ErrY001 ErrorCode = "Y001" // token left of every enclosing block
	ErrY002 ErrorCode = "Y002" // unterminated block
	ErrY003 ErrorCode = "Y003" // unbalanced bracket
	ErrY004 ErrorCode = "Y004" // block not indented past its parent

	// Parser
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // missing module header
	ErrP003 ErrorCode = "P003" // do block must end with an expression
	ErrP004 ErrorCode = "P004" // formatter marker/argument count mismatch
	ErrP005 ErrorCode = "P005" // invalid pattern
	ErrP006 ErrorCode = "P006" // invalid declaration

	// Resolver
	ErrN001 ErrorCode = "N001" // unknown name
	ErrN002 ErrorCode = "N002" // ambiguous name
	ErrN003 ErrorCode = "N003" // unknown module
	ErrN004 ErrorCode = "N004" // unknown imported or exported item
	ErrN005 ErrorCode = "N005" // duplicate definition
	ErrN006 ErrorCode = "N006" // unsupported derived class
	ErrN007 ErrorCode = "N007" // unknown class in constraint
	ErrN008 ErrorCode = "N008" // unknown record field
	ErrN009 ErrorCode = "N009" // signature without function
	ErrN010 ErrorCode = "N010" // unused import (warning)

	// Type checker
	ErrA001 ErrorCode = "A001" // type mismatch
	ErrA002 ErrorCode = "A002" // missing instance
	ErrA003 ErrorCode = "A003" // ambiguous type variable
	ErrA004 ErrorCode = "A004" // arity mismatch
	ErrA005 ErrorCode = "A005" // ambiguous or invalid field access
	ErrA006 ErrorCode = "A006" // invalid tuple field access
	ErrA007 ErrorCode = "A007" // record initialization fields
	ErrA008 ErrorCode = "A008" // derived class not satisfiable
	ErrA009 ErrorCode = "A009" // infinite type

	// Pattern matching
	ErrM001 ErrorCode = "M001" // non-exhaustive case
	ErrM002 ErrorCode = "M002" // unreachable case

	// Modules and configuration
	ErrC001 ErrorCode = "C001" // import cycle
	ErrC002 ErrorCode = "C002" // duplicate module
	ErrC003 ErrorCode = "C003" // entry function not found

	// Code generation
	ErrG001 ErrorCode = "G001" // extern without foreign implementation (warning)

	// Runtime
	ErrR001 ErrorCode = "R001"

	// Internal
	ErrI001 ErrorCode = "I001"
)

var kinds = map[byte]Kind{
	'L': LexError,
	'Y': LayoutError,
	'P': SyntaxError,
	'N': ResolutionError,
	'A': TypeError,
	'C': ConfigError,
	'G': ConfigError,
	'R': RuntimeError,
	'I': InternalInvariantError,
}

// Kind returns the taxonomy tag of a code.
func (c ErrorCode) Kind() Kind {
	switch c {
	case ErrM001:
		return ExhaustivenessError
	case ErrM002:
		return RedundancyError
	}
	if len(c) > 0 {
		if k, ok := kinds[c[0]]; ok {
			return k
		}
	}
	return InternalInvariantError
}

type DiagnosticError struct {
	Code     ErrorCode
	Kind     Kind
	Severity Severity
	Loc      location.ID
	Pos      location.Position
	Message  string
}

func (e *DiagnosticError) Error() string {
	prefix := ""
	if e.Pos.IsValid() {
		prefix = e.Pos.String() + ": "
	}
	return fmt.Sprintf("%s%s [%s %s]: %s", prefix, e.Severity, e.Kind, e.Code, e.Message)
}

// IsWarning reports whether the diagnostic is an obligation rather than
// a compilation failure.
func (e *DiagnosticError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// NewError creates a diagnostic anchored at loc.
func NewError(code ErrorCode, table *location.Table, loc location.ID, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:     code,
		Kind:     code.Kind(),
		Severity: SeverityError,
		Loc:      loc,
		Pos:      table.Lookup(loc),
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewWarning creates an obligation diagnostic anchored at loc.
func NewWarning(code ErrorCode, table *location.Table, loc location.ID, format string, args ...interface{}) *DiagnosticError {
	e := NewError(code, table, loc, format, args...)
	e.Severity = SeverityWarning
	return e
}

// AtToken creates a diagnostic anchored at a token.
func AtToken(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:     code,
		Kind:     code.Kind(),
		Severity: SeverityError,
		Loc:      tok.Loc,
		Pos:      location.Position{Line: tok.Line, Column: tok.Column},
		Message:  fmt.Sprintf(format, args...),
	}
}

// HasErrors reports whether errs contains anything but warnings.
func HasErrors(errs []*DiagnosticError) bool {
	for _, e := range errs {
		if !e.IsWarning() {
			return true
		}
	}
	return false
}
