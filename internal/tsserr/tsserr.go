// Package tsserr defines the typed error taxonomy shared by every component
// of the signing core, generalizing the teacher's per-party Blame error into
// a classifiable failure kind that the service facade maps onto HTTP status
// codes.
package tsserr

import "fmt"

// Kind classifies a failure so callers (and the HTTP facade) can react
// without string-matching error messages.
type Kind int

const (
	// KindInternal marks an invariant breach that should be unreachable in
	// well-formed code.
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindConflict
	KindCryptoFailure
	KindIOError
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindCryptoFailure:
		return "CryptoFailure"
	case KindIOError:
		return "IOError"
	default:
		return "Internal"
	}
}

// Error is the concrete error type returned by every core component.
// Op names the failing operation (e.g. "coordinator.Sign"); Kind classifies
// the failure; Err, if present, is the wrapped cause. Secrets must never be
// placed in Op or in a wrapped error's message.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, letting callers
// write errors.Is(err, &tsserr.Error{Kind: tsserr.KindNotFound}) style checks.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newErr(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func InvalidInput(op string, err error) *Error   { return newErr(op, KindInvalidInput, err) }
func NotFound(op string, err error) *Error       { return newErr(op, KindNotFound, err) }
func Conflict(op string, err error) *Error       { return newErr(op, KindConflict, err) }
func CryptoFailure(op string, err error) *Error  { return newErr(op, KindCryptoFailure, err) }
func IOError(op string, err error) *Error        { return newErr(op, KindIOError, err) }
func Internal(op string, err error) *Error       { return newErr(op, KindInternal, err) }

// Is reports whether the first *Error in err's Unwrap chain carries the
// given Kind. Errors wrapped inside that *Error are not consulted, so the
// outermost classification wins.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
