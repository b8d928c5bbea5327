package interp

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies a SchemeError the way the evaluator's callers need
// to distinguish them: by what went wrong, not by which component raised it.
type ErrorKind uint8

const (
	// SyntaxErrorKind marks a malformed special form (wrong shape, not
	// arity) discovered while reading an Expression.
	SyntaxErrorKind ErrorKind = iota
	// ValidationErrorKind marks a structurally valid but semantically
	// invalid form, e.g. a duplicate parameter name or a letrec slot
	// referenced before it is filled.
	ValidationErrorKind
	// UnboundIdentifierKind marks a symbol lookup that found no binding
	// anywhere in the environment chain.
	UnboundIdentifierKind
	// ArityErrorKind marks a procedure call with the wrong argument count.
	ArityErrorKind
	// TypeErrorKind marks a builtin applied to a value of the wrong type.
	TypeErrorKind
	// RuntimeErrorKind covers everything else raised during evaluation.
	RuntimeErrorKind
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxErrorKind:
		return "SyntaxError"
	case ValidationErrorKind:
		return "ValidationError"
	case UnboundIdentifierKind:
		return "UnboundIdentifier"
	case ArityErrorKind:
		return "ArityError"
	case TypeErrorKind:
		return "TypeError"
	case RuntimeErrorKind:
		return "RuntimeError"
	default:
		return "UnknownError"
	}
}

// SchemeError is the structured error type every evaluator-facing failure
// is reported as. Suggestions holds up to three "did you mean" candidates
// for UnboundIdentifierKind errors.
type SchemeError struct {
	Kind        ErrorKind
	Message     string
	Pos         Position
	Suggestions []string
}

func (e *SchemeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Suggestions) > 0 {
		b.WriteString(". Did you mean one of: ")
		for i, s := range e.Suggestions {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("'")
			b.WriteString(s)
			b.WriteString("'")
		}
		b.WriteString("?")
	}
	return b.String()
}

// NewSyntaxError reports a malformed special form.
func NewSyntaxError(pos Position, format string, args ...interface{}) *SchemeError {
	return &SchemeError{Kind: SyntaxErrorKind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// NewValidationError reports a semantically invalid but syntactically well-formed form.
func NewValidationError(pos Position, format string, args ...interface{}) *SchemeError {
	return &SchemeError{Kind: ValidationErrorKind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// NewUnboundIdentifier reports a failed symbol lookup, with optional suggestions.
func NewUnboundIdentifier(pos Position, name string, suggestions []string) *SchemeError {
	return &SchemeError{
		Kind:        UnboundIdentifierKind,
		Message:     fmt.Sprintf("Unbound identifier: '%s'", name),
		Pos:         pos,
		Suggestions: suggestions,
	}
}

// NewArityError reports a procedure call with the wrong number of arguments.
func NewArityError(pos Position, procName string, want, got int) *SchemeError {
	return &SchemeError{
		Kind:    ArityErrorKind,
		Message: fmt.Sprintf("%s: expected %d argument(s), got %d", procName, want, got),
		Pos:     pos,
	}
}

// NewArityErrorRange reports a procedure call whose argument count falls
// outside an inclusive [min, max] range (max < 0 means unbounded).
func NewArityErrorRange(pos Position, procName string, min, max, got int) *SchemeError {
	var want string
	switch {
	case max < 0:
		want = fmt.Sprintf("at least %d argument(s)", min)
	case min == max:
		want = fmt.Sprintf("%d argument(s)", min)
	default:
		want = fmt.Sprintf("between %d and %d arguments", min, max)
	}
	return &SchemeError{
		Kind:    ArityErrorKind,
		Message: fmt.Sprintf("%s: expected %s, got %d", procName, want, got),
		Pos:     pos,
	}
}

// NewTypeError reports a value of the wrong type reaching a builtin.
func NewTypeError(procName, expected string, got Value) *SchemeError {
	return &SchemeError{
		Kind:    TypeErrorKind,
		Message: fmt.Sprintf("%s: expected %s, got %s", procName, expected, got.TypeName()),
	}
}

// NewRuntimeError reports a generic evaluation failure.
func NewRuntimeError(format string, args ...interface{}) *SchemeError {
	return &SchemeError{Kind: RuntimeErrorKind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a stack trace and a contextual note to err, for failures
// crossing the scheduler/async boundary where the originating evaluation
// frame is no longer on the call stack by the time the error surfaces.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}
