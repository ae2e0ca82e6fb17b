package service

import (
	"errors"
	"fmt"

	"github.com/fptthinhgreenwich/qlkhohang/internal/validation"
)

// Kind classifies a service failure
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Client-facing messages
const (
	MsgValidationFailed = "Validation failed"
	MsgDuplicateSKU     = "Duplicate SKU"
	MsgSKUExists        = "This SKU already exists"
	MsgItemNotFound     = "Item not found"
	MsgInternal         = "Internal server error"
)

// Error is the tagged outcome of a failed item operation.
// Fields is set for validation and conflict failures.
type Error struct {
	Kind    Kind
	Message string
	Fields  validation.Errors
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, treating untagged errors as internal
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

func validationError(errs validation.Errors) *Error {
	return &Error{Kind: KindValidation, Message: MsgValidationFailed, Fields: errs}
}

func conflictError(err error) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: MsgDuplicateSKU,
		Fields:  validation.Errors{validation.FieldSKU: MsgSKUExists},
		Err:     err,
	}
}

func notFoundError(err error) *Error {
	return &Error{Kind: KindNotFound, Message: MsgItemNotFound, Err: err}
}

func internalError(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: fmt.Errorf("failed to %s: %w", op, err)}
}
