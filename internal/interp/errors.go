package interp

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error wraps exactly one of these so callers can use
// errors.Is to classify a failure.
var (
	ErrLex               = errors.New("lex error")
	ErrParse             = errors.New("parse error")
	ErrEval              = errors.New("eval error")
	ErrRange             = errors.New("range error")
	ErrImmutable         = errors.New("immutable variable")
	ErrUndefined         = errors.New("undefined variable")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrCancelled         = errors.New("cancelled")
)

// Error is a failure tied to one statement. Its message is what ends up in
// the diagnostic log.
type Error struct {
	// Kind is one of the Err* sentinels above
	Kind error

	// Statement is the source text of the failing statement, if any
	Statement string

	// Msg is the human-readable diagnostic
	Msg string

	// Err is an optional underlying cause
	Err error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, stmt string, format string, args ...any) *Error {
	return &Error{
		Kind:      kind,
		Statement: stmt,
		Msg:       fmt.Sprintf(format, args...),
	}
}

// isFatal reports whether err ends the whole run rather than one statement.
func isFatal(err error) bool {
	return errors.Is(err, ErrResourceExhausted) || errors.Is(err, ErrCancelled)
}
