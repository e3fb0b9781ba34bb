package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers. Transports map it to a status code.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindAlreadyExists   Kind = "already_exists"
	KindValidation      Kind = "validation"
	KindRateLimited     Kind = "rate_limited"
	KindDependency      Kind = "dependency_failure"
	KindInternal        Kind = "internal"
)

// Common errors
var (
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Message: "authentication required"}
	ErrForbidden       = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrAlreadyExists   = &Error{Kind: KindAlreadyExists, Message: "already exists"}
	ErrInternal        = &Error{Kind: KindInternal, Message: "internal server error"}
)

// Error carries a kind, a message that is safe to show to users and the
// underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to err. A nil err stays nil.
func Wrap(err error, kind Kind, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) error        { return New(KindNotFound, message) }
func Forbidden(message string) error       { return New(KindForbidden, message) }
func AlreadyExists(message string) error   { return New(KindAlreadyExists, message) }
func Validation(message string) error      { return New(KindValidation, message) }
func Unauthenticated(message string) error { return New(KindUnauthenticated, message) }

func Dependency(err error, message string) error {
	return &Error{Kind: KindDependency, Message: message, Err: err}
}

func Internal(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindInternal, Message: ErrInternal.Message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal
// for any other non-nil error and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message. Internal errors never leak
// their cause.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindInternal {
			return ErrInternal.Message
		}
		return e.Message
	}
	return ErrInternal.Message
}

func IsNotFound(err error) bool      { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool     { return KindOf(err) == KindForbidden }
func IsAlreadyExists(err error) bool { return KindOf(err) == KindAlreadyExists }
func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
