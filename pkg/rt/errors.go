package rt

import "fmt"

// RuntimeError is raised by panicking with it; the driver turns it into
// a diagnostic.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func Errorf(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// MatchFailure is raised when no pattern of a do bind, a parameter list
// or a case matches.
type MatchFailure struct {
	Message string
}

func (e *MatchFailure) Error() string { return "pattern match failure: " + e.Message }

// Fail raises a match failure.
func Fail(message string) Value {
	panic(&MatchFailure{Message: message})
}

// Recover converts a runtime panic into an error. Other panics are
// re-raised.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	switch e := r.(type) {
	case *RuntimeError:
		*err = e
	case *MatchFailure:
		*err = e
	default:
		panic(r)
	}
}
