package diagnostics

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvariantError reports IR that violates a guarantee of an earlier
// stage. It aborts the whole run and carries the stack of the stage
// that detected it.
type InvariantError struct {
	Stage string
	err   error
}

// Invariant builds an InvariantError with a stack trace.
func Invariant(stage, format string, args ...interface{}) *InvariantError {
	return &InvariantError{Stage: stage, err: errors.Errorf(format, args...)}
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated in %s: %v", e.Stage, e.err)
}

func (e *InvariantError) Unwrap() error { return e.err }

// Format prints the stack with %+v.
func (e *InvariantError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "internal invariant violated in %s: %+v", e.Stage, e.err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Diagnostic converts the invariant failure to a reportable diagnostic.
func (e *InvariantError) Diagnostic() *DiagnosticError {
	return &DiagnosticError{
		Code:     ErrI001,
		Kind:     InternalInvariantError,
		Severity: SeverityError,
		Message:  e.Error(),
	}
}

// AsInvariant extracts an InvariantError from err, following wrapping.
func AsInvariant(err error) (*InvariantError, bool) {
	var inv *InvariantError
	if errors.As(err, &inv) {
		return inv, true
	}
	return nil, false
}
