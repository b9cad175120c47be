package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the class of an application error
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a malformed identifier or request body
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypePayloadTooLarge indicates a request body over the size limit
	ErrorTypePayloadTooLarge ErrorType = "PAYLOAD_TOO_LARGE"

	// ErrorTypeInternal indicates a store or server fault
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError carries a client-safe Message and the underlying cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewPayloadTooLargeError creates a new payload too large error
func NewPayloadTooLargeError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypePayloadTooLarge,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// As returns the first AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err carries an AppError of type t.
func IsType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}
