package domain

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindNotFound              ErrorKind = "not_found"
	KindInvalidRequest        ErrorKind = "invalid_request"
	KindValidationFailed      ErrorKind = "validation_failed"
	KindInsufficientInventory ErrorKind = "insufficient_inventory"
	KindForbidden             ErrorKind = "forbidden"
	KindAlreadyCancelled      ErrorKind = "already_cancelled"
	KindInternal              ErrorKind = "internal_error"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrInvalidRequest        = &Error{Kind: KindInvalidRequest}
	ErrValidationFailed      = &Error{Kind: KindValidationFailed}
	ErrInsufficientInventory = &Error{Kind: KindInsufficientInventory}
	ErrForbidden             = &Error{Kind: KindForbidden}
	ErrAlreadyCancelled      = &Error{Kind: KindAlreadyCancelled}
	ErrInternal              = &Error{Kind: KindInternal}
)

// FieldError is one passenger field violation. Index is 1-based.
type FieldError struct {
	Index   int    `json:"passenger"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return fmt.Sprintf("passenger %d: %s %s", f.Index, f.Field, f.Message)
}

type Error struct {
	Kind      ErrorKind
	Message   string
	Available int
	Fields    []FieldError
	Err       error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ReplaceAll(string(e.Kind), "_", " ")
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.String())
		}
		msg += ": " + strings.Join(parts, "; ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidRequest(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func ValidationFailed(fields []FieldError) *Error {
	return &Error{Kind: KindValidationFailed, Message: "passenger validation failed", Fields: fields}
}

func InsufficientInventory(available int) *Error {
	return &Error{
		Kind:      KindInsufficientInventory,
		Message:   fmt.Sprintf("only %d seats available", available),
		Available: available,
	}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func AlreadyCancelled(reference string) *Error {
	return &Error{Kind: KindAlreadyCancelled, Message: fmt.Sprintf("booking %s already cancelled", reference)}
}

func Internal(err error, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind of err; anything that is not an *Error is internal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
