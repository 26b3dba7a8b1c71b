package apperror

import (
	"errors"
	"fmt"
)

type Error string

func (e Error) Error() string { return string(e) }

// kinds, matched with errors.Is
const (
	ErrNotFound     = Error("no records found")
	ErrForbidden    = Error("not allowed") // eg. upd/del not allowed
	ErrValidation   = Error("invalid input")
	ErrConflict     = Error("already exists")
	ErrUnauthorized = Error("unauthorized")
)

// older names, still used by list operations
const (
	ErrNoData        = ErrNotFound
	ErrDenied        = ErrForbidden
	ErrRecordChanged = Error("write conflict")
)

// AppError carries the kind of a failure plus the entity it refers to.
// The HTTP boundary maps the kind to a status, the core never does.
type AppError struct {
	Kind    Error
	Entity  string
	ID      string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s with id %s wasn't found", e.Entity, e.ID)
	}
	return e.Kind.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, apperror.ErrNotFound) match on the kind
func (e *AppError) Is(target error) bool {
	k, ok := target.(Error)
	return ok && k == e.Kind
}

// NotFound reports a missing entity of the given kind
func NotFound(entity string, id string) *AppError {
	return &AppError{Kind: ErrNotFound, Entity: entity, ID: id}
}

func Forbidden(msg string) *AppError {
	return &AppError{Kind: ErrForbidden, Message: msg}
}

func Validation(msg string) *AppError {
	return &AppError{Kind: ErrValidation, Message: msg}
}

// Validationf wraps a validator error (eg. ozzo validation.Errors) as a validation failure
func Validationf(err error) *AppError {
	return &AppError{Kind: ErrValidation, Message: err.Error(), Err: err}
}

func Conflict(msg string) *AppError {
	return &AppError{Kind: ErrConflict, Message: msg}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Kind: ErrUnauthorized, Message: msg}
}

// KindOf returns the kind of err or "" for technical errors
func KindOf(err error) Error {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	for _, k := range []Error{ErrNotFound, ErrForbidden, ErrValidation, ErrConflict, ErrUnauthorized, ErrRecordChanged} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ""
}
