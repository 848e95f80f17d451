// Package apperr holds the error taxonomy shared by services and the HTTP layer.
// Every failure a service returns on purpose is an *Error with a Kind (which
// decides the HTTP status) and a stable Code the client can switch on.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTransactionFailed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransactionFailed:
		return "transaction_failed"
	default:
		return "internal"
	}
}

// Status is the HTTP status code a Kind maps to.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Code string

const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeInvalidDates       Code = "INVALID_DATES"
	CodeNotAvailable       Code = "NOT_AVAILABLE"
	CodeCarNotFound        Code = "CAR_NOT_FOUND"
	CodeRentalNotFound     Code = "RENTAL_NOT_FOUND"
	CodeRentalNotActive    Code = "RENTAL_NOT_ACTIVE"
	CodeRentalNotPending   Code = "RENTAL_NOT_PENDING"
	CodeInvalidTransition  Code = "INVALID_TRANSITION"
	CodeInvalidRating      Code = "INVALID_RATING"
	CodeCommentTooShort    Code = "COMMENT_TOO_SHORT"
	CodeCommentTooLong     Code = "COMMENT_TOO_LONG"
	CodeRentalNotCompleted Code = "RENTAL_NOT_COMPLETED"
	CodeDuplicateReview    Code = "DUPLICATE_REVIEW"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeUserExists         Code = "USER_EXISTS"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeAccountLocked      Code = "ACCOUNT_LOCKED"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeForbidden          Code = "FORBIDDEN"
	CodeTransactionFailed  Code = "TRANSACTION_FAILED"
	CodeInternal           Code = "INTERNAL"
)

type Error struct {
	Kind Kind
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Code, so callers can compare against the
// package-level sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func New(kind Kind, code Code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

// Wrap attaches cause to a copy of e.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// WithMsg returns a copy of e with a different message.
func (e *Error) WithMsg(msg string) *Error {
	c := *e
	c.Msg = msg
	return &c
}

func Validation(msg string) *Error { return New(KindValidation, CodeInvalidInput, msg) }

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Msg: "internal error", Err: err}
}

// TxFailed wraps a persistence failure that aborted a transaction.
func TxFailed(err error) *Error { return ErrTransactionFailed.Wrap(err) }

var (
	ErrInvalidDates       = New(KindValidation, CodeInvalidDates, "Invalid rental dates")
	ErrNotAvailable       = New(KindConflict, CodeNotAvailable, "Car not available")
	ErrCarNotFound        = New(KindNotFound, CodeCarNotFound, "Car not found")
	ErrRentalNotFound     = New(KindNotFound, CodeRentalNotFound, "Rental not found")
	ErrRentalNotActive    = New(KindNotFound, CodeRentalNotActive, "Active rental not found")
	ErrRentalNotPending   = New(KindConflict, CodeRentalNotPending, "Rental is not pending")
	ErrInvalidTransition  = New(KindConflict, CodeInvalidTransition, "Rental status cannot change that way")
	ErrInvalidRating      = New(KindValidation, CodeInvalidRating, "Rating must be between 1 and 5")
	ErrCommentTooShort    = New(KindValidation, CodeCommentTooShort, "Comment must be at least 10 characters")
	ErrCommentTooLong     = New(KindValidation, CodeCommentTooLong, "Comment cannot exceed 500 characters")
	ErrRentalNotCompleted = New(KindForbidden, CodeRentalNotCompleted, "You must complete a rental before reviewing this car")
	ErrDuplicateReview    = New(KindConflict, CodeDuplicateReview, "You've already reviewed this car")
	ErrUserNotFound       = New(KindNotFound, CodeUserNotFound, "User not found")
	ErrUserExists         = New(KindConflict, CodeUserExists, "User already exists")
	ErrInvalidCredentials = New(KindUnauthorized, CodeInvalidCredentials, "Invalid credentials")
	ErrAccountLocked      = New(KindForbidden, CodeAccountLocked, "Account is locked")
	ErrInvalidToken       = New(KindUnauthorized, CodeInvalidToken, "Invalid token")
	ErrForbidden          = New(KindForbidden, CodeForbidden, "Unauthorized access")
	ErrTransactionFailed  = New(KindTransactionFailed, CodeTransactionFailed, "Transaction failed")
)

// From returns err as an *Error, treating anything unknown as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// KindOf returns the Kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind { return From(err).Kind }
