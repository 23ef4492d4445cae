package domain

import (
	"errors"
	"fmt"
)

// Kind classifies every failure a caller-facing operation can return.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindInvalidRange
	KindOutOfBounds
	KindCapacity
	KindNotEligible
	KindSubmission
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidRange:
		return "invalid_range"
	case KindOutOfBounds:
		return "out_of_bounds"
	case KindCapacity:
		return "capacity"
	case KindNotEligible:
		return "not_eligible"
	case KindSubmission:
		return "submission"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by the core. Op names the operation,
// Err carries the remote cause for submission failures.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels below, so errors.Is(err, ErrNotFound) works
// for any *Error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidRange = &Error{Kind: KindInvalidRange}
	ErrOutOfBounds  = &Error{Kind: KindOutOfBounds}
	ErrCapacity     = &Error{Kind: KindCapacity}
	ErrNotEligible  = &Error{Kind: KindNotEligible}
	ErrSubmission   = &Error{Kind: KindSubmission}

	// ErrOverlap is returned by the store when a reservation would overlap
	// another reservation carved from the same availability window.
	ErrOverlap = errors.New("reservation overlaps an existing reservation")
)

func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Submission wraps a remote failure. Typed errors coming back from the store
// (not found, validation) keep their kind.
func Submission(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) && de.Kind != KindUnknown {
		return err
	}
	return &Error{Kind: KindSubmission, Op: op, Msg: "remote call failed", Err: err}
}

func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
