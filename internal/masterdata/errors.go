package masterdata

import (
	"errors"
	"fmt"
)

// ErrAccessFailure marks an error raised by a record store when the
// underlying storage could not be read or written. Stores wrap their
// driver errors with it:
//
//	return nil, fmt.Errorf("%w: querying machines: %w", masterdata.ErrAccessFailure, err)
var ErrAccessFailure = errors.New("masterdata: storage access failure")

// Kind sentinels. A *Error matches the sentinel of its kind with errors.Is:
//
//	if errors.Is(err, masterdata.ErrNotFound) {
//	    // zero active rows for the predicate
//	}
var (
	// ErrFetchFailure matches errors raised when a read failed.
	ErrFetchFailure = errors.New("masterdata: fetch failure")

	// ErrNotFound matches errors raised when a read returned no active rows.
	ErrNotFound = errors.New("masterdata: not found")

	// ErrInsertFailure matches errors raised when a creation write failed.
	ErrInsertFailure = errors.New("masterdata: insert failure")

	// ErrInvalidInput matches errors raised when a caller value is malformed.
	ErrInvalidInput = errors.New("masterdata: invalid input")
)

// Kind classifies a service error.
type Kind int

// Error kinds.
const (
	KindFetchFailure Kind = iota + 1
	KindNotFound
	KindInsertFailure
	KindInvalidInput
)

// String returns the kind name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindFetchFailure:
		return "fetch_failure"
	case KindNotFound:
		return "not_found"
	case KindInsertFailure:
		return "insert_failure"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindFetchFailure:
		return ErrFetchFailure
	case KindNotFound:
		return ErrNotFound
	case KindInsertFailure:
		return ErrInsertFailure
	case KindInvalidInput:
		return ErrInvalidInput
	default:
		return nil
	}
}

// ErrorCode is a stable code and its default message.
type ErrorCode struct {
	Code    string
	Message string
}

// Codes holds the per-entity codes for each error kind an entity raises.
type Codes struct {
	Fetch    ErrorCode
	NotFound ErrorCode
	Insert   ErrorCode
}

// Error is the typed error returned by master-data services.
//
// Its text is built only from the code, the message and the cause, so the
// same storage failure always produces the same message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Cause != nil {
		msg += "  " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewFetchFailure wraps a failed read.
func NewFetchFailure(code ErrorCode, cause error) *Error {
	return &Error{Kind: KindFetchFailure, Code: code.Code, Message: code.Message, Cause: cause}
}

// NewNotFound reports a successful read with no active rows.
func NewNotFound(code ErrorCode) *Error {
	return &Error{Kind: KindNotFound, Code: code.Code, Message: code.Message}
}

// NewInsertFailure wraps a failed creation write.
func NewInsertFailure(code ErrorCode, cause error) *Error {
	return &Error{Kind: KindInsertFailure, Code: code.Code, Message: code.Message, Cause: cause}
}

// NewInvalidInput reports a caller value that failed validation.
// The message replaces the code's default message.
func NewInvalidInput(code ErrorCode, message string) *Error {
	if message == "" {
		message = code.Message
	}
	return &Error{Kind: KindInvalidInput, Code: code.Code, Message: message}
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Outcome returns a short label for err: "ok" for nil, the kind name for a
// *Error and "error" for anything else.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if e, ok := AsError(err); ok {
		return e.Kind.String()
	}
	return "error"
}
