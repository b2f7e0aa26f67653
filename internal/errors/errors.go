// Package errors defines the typed error taxonomy used across the pipeline.
// Every failure surfaces as an AppError carrying a type, a message, an
// optional cause and optional context, so the top level can log one
// structured record and exit.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an AppError.
type ErrorType string

const (
	// ErrTypeSchema indicates a required input column is absent. Raised
	// before any row is processed; there is never partial output.
	ErrTypeSchema ErrorType = "SCHEMA"
	// ErrTypeConfig indicates a meat-type/SE mapping entry or another
	// configuration value is missing or unrecognized.
	ErrTypeConfig ErrorType = "CONFIG"
	// ErrTypeEmptyResult indicates an aggregation or plot was requested
	// over zero observations.
	ErrTypeEmptyResult ErrorType = "EMPTY_RESULT"
	// ErrTypeParsing indicates a malformed cell or row in the input table.
	ErrTypeParsing ErrorType = "PARSING"
	// ErrTypeStorage indicates a filesystem failure while reading input or
	// persisting an artifact.
	ErrTypeStorage ErrorType = "STORAGE"
)

// AppError is the application-specific error carried through the pipeline.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error and returns it for chaining.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error.
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewSchemaError creates an input-schema error.
func NewSchemaError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchema, message, cause)
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewEmptyResultError creates an empty-result error.
func NewEmptyResultError(message string) *AppError {
	return NewAppError(ErrTypeEmptyResult, message, nil)
}

// NewParsingError creates a parsing error.
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage error.
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// IsType reports whether err or any error it wraps is an AppError of the
// given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsSchemaError reports whether err is a schema error.
func IsSchemaError(err error) bool { return IsType(err, ErrTypeSchema) }

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool { return IsType(err, ErrTypeConfig) }

// IsEmptyResultError reports whether err is an empty-result error.
func IsEmptyResultError(err error) bool { return IsType(err, ErrTypeEmptyResult) }
