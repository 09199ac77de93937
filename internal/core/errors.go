package core

import (
	"errors"
	"fmt"
)

// Kind classifies a ledger failure so callers can react without parsing messages.
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindNotFound     Kind = "not_found_error"
	KindForbidden    Kind = "forbidden_error"
	KindDuplicateKey Kind = "duplicate_key_error"
	KindStorage      Kind = "storage_error"
)

// Sentinels matched with errors.Is against any *Error of the same kind.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrStorage      = errors.New("storage error")
)

// Error is the only error shape the ledger service returns.
// Message is meant for the end user; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindForbidden:
		return ErrForbidden
	case KindDuplicateKey:
		return ErrDuplicateKey
	default:
		return ErrStorage
	}
}

// KindOf returns the kind of err, or KindStorage for errors that were never classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

func Validation(err error) *Error {
	return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func DuplicateKey(format string, args ...any) *Error {
	return &Error{Kind: KindDuplicateKey, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps an unexpected persistence failure. The message shown to the
// user names the operation; the driver error stays reachable through Unwrap.
func Storage(err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}
