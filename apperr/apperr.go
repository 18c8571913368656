package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindUnauthenticated
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Error is the single error type crossing the service boundary. Fields holds
// per-field messages for validation and conflict failures.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func Field(field, message string) *Error {
	return Validation(map[string][]string{field: {message}})
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", entity)}
}

func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "user not authenticated"}
}

func Conflict(fields map[string][]string) *Error {
	return &Error{Kind: KindConflict, Message: "conflict", Fields: fields}
}

func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Err: err}
}

// KindOf reports the kind of err; errors outside this package are Unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

func IsNotFound(err error) bool        { return err != nil && KindOf(err) == KindNotFound }
func IsUnauthenticated(err error) bool { return err != nil && KindOf(err) == KindUnauthenticated }
func IsValidation(err error) bool      { return err != nil && KindOf(err) == KindValidation }
func IsConflict(err error) bool        { return err != nil && KindOf(err) == KindConflict }
