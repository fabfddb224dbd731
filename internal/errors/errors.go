package errors

import "fmt"

// ErrorType represents the category of error
type ErrorType int

const (
	// Validation errors - malformed input data (bad references, bad ids)
	ErrorTypeValidation ErrorType = iota
	// Store errors - database connection, query, or constraint failures
	ErrorTypeStore
	// Query errors - path-query precondition violations
	ErrorTypeQuery
	// FileSystem errors - file I/O failures
	ErrorTypeFileSystem
	// Config errors - missing or invalid configuration
	ErrorTypeConfig
)

// Error represents a structured error with a category and optional cause
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Wrap wraps an existing error with a type and message
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Type: errType, Message: message, Cause: err}
}

// Convenience constructors for common error types

// ValidationError creates a validation error
func ValidationError(message string) *Error {
	return New(ErrorTypeValidation, message)
}

// ValidationErrorf creates a validation error with formatting
func ValidationErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeValidation, fmt.Sprintf(format, args...))
}

// StoreError wraps a storage error
func StoreError(err error, message string) *Error {
	return Wrap(err, ErrorTypeStore, message)
}

// StoreErrorf wraps a storage error with formatting
func StoreErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeStore, fmt.Sprintf(format, args...))
}

// QueryError creates a query error
func QueryError(message string) *Error {
	return New(ErrorTypeQuery, message)
}

// FileSystemError wraps a filesystem error
func FileSystemError(err error, message string) *Error {
	return Wrap(err, ErrorTypeFileSystem, message)
}

// ConfigErrorf creates a configuration error with formatting
func ConfigErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeConfig, fmt.Sprintf(format, args...))
}

// IsStore reports whether err is a storage-layer failure
func IsStore(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Type == ErrorTypeStore
}
