// Package errors defines the application error type and the mapping from
// domain errors to stable error codes. HTTP status mapping lives in the API
// layer, not here.
package errors

import (
	"errors"

	"marketbill/domain/bill"
)

// ErrorCode is a stable, user-visible error classification.
type ErrorCode string

const (
	// Generic codes
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"

	// Business codes
	CodeBillNotFound      ErrorCode = "BILL_NOT_FOUND"
	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	CodeStoreNotFound     ErrorCode = "STORE_NOT_FOUND"
	CodeProductNotFound   ErrorCode = "PRODUCT_NOT_FOUND"
	CodeInvalidBillState  ErrorCode = "INVALID_BILL_STATE"
	CodeSettlementFailure ErrorCode = "SETTLEMENT_FAILURE"
)

// AppError carries a code, a user-visible message and the wrapped cause.
// The cause is for logs only and never crosses the API boundary.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return string(e.Code) + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates an AppError keeping the cause in the chain.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError { return New(CodeBadRequest, message) }

func NotFound(message string) *AppError { return New(CodeNotFound, message) }

func Conflict(message string) *AppError { return New(CodeConflict, message) }

func Validation(message string) *AppError { return New(CodeValidation, message) }

func Internal(err error) *AppError {
	return Wrap(err, CodeInternal, "internal server error")
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError classifies a domain error into an AppError. Storage
// faults collapse to one opaque internal error; expected absences keep
// their specific not-found code so callers can branch.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, bill.ErrBillNotFound):
		return Wrap(err, CodeBillNotFound, "bill not found")
	case errors.Is(err, bill.ErrUserNotFound):
		return Wrap(err, CodeUserNotFound, "user not found")
	case errors.Is(err, bill.ErrStoreNotFound):
		return Wrap(err, CodeStoreNotFound, "store not found")
	case errors.Is(err, bill.ErrProductNotFound):
		return Wrap(err, CodeProductNotFound, "product not found")
	case errors.Is(err, bill.ErrUnknownStatus):
		// An unrecognized transition target surfaces as not found: the
		// status does not exist in the enumerated vocabulary.
		return Wrap(err, CodeNotFound, "unknown bill status")
	case errors.Is(err, bill.ErrInvalidStateTransition):
		return Wrap(err, CodeInvalidBillState, err.Error())
	case errors.Is(err, bill.ErrEmptyItems),
		errors.Is(err, bill.ErrInvalidQuantity),
		errors.Is(err, bill.ErrInvalidPrice),
		errors.Is(err, bill.ErrPromotionExceedsTotal),
		errors.Is(err, bill.ErrMixedStores):
		return Wrap(err, CodeValidation, err.Error())
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}
