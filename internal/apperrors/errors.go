// Package apperrors classifies failures of the recipe service so that the
// HTTP layer can map them onto status codes without inspecting driver errors.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine readable error classification.
type Code string

const (
	// CodeNotFound indicates the requested recipe does not exist.
	CodeNotFound Code = "NOT_FOUND"
	// CodeValidation indicates malformed input rejected at the boundary.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodePersistence indicates the storage engine failed; the unit-of-work was rolled back.
	CodePersistence Code = "PERSISTENCE_ERROR"
	// CodeRateLimited indicates the client exceeded the create quota.
	CodeRateLimited Code = "RATE_LIMIT_EXCEEDED"
	// CodeInternal covers everything else.
	CodeInternal Code = "INTERNAL"
)

// Error carries a code, a human readable message, the underlying cause and
// optional details (for example field -> failed rule for validation errors).
type Error struct {
	Code    Code
	Message string
	Cause   error
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap wraps cause with a code and message.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithDetails creates an Error carrying structured details.
func WithDetails(code Code, message string, details map[string]any) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func Validation(message string, details map[string]any) *Error {
	return WithDetails(CodeValidation, message, details)
}

func Persistence(message string, cause error) *Error {
	return Wrap(CodePersistence, message, cause)
}

func RateLimited(message string, details map[string]any) *Error {
	return WithDetails(CodeRateLimited, message, details)
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// HTTPStatus maps err onto the response status code.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to return to clients. Internal causes
// are never exposed.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// DetailsOf returns the details attached to err, if any.
func DetailsOf(err error) map[string]any {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
