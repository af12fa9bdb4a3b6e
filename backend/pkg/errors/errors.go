package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNaming represents name suggestion errors
	ErrorTypeNaming ErrorType = "naming"
	// ErrorTypeGraph represents graph export errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Kind returns the error category; promoted to every typed wrapper below
func (e *BaseError) Kind() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Naming Errors

// ErrNamingRequestPending is returned when a suggestion is requested while another is in flight
var ErrNamingRequestPending = NewBaseError(ErrorTypeNaming, "name suggestion already in flight", nil)

// ErrNamingNoChoice is returned when the model answers without any choice
var ErrNamingNoChoice = NewBaseError(ErrorTypeNaming, "model returned no choice", nil)

// ErrNamingSessionDiscarded is returned when a response arrives for a discarded session
var ErrNamingSessionDiscarded = NewBaseError(ErrorTypeNaming, "naming session discarded", nil)

// ErrNamingRequestFailed is returned when the naming service cannot produce a suggestion
type ErrNamingRequestFailed struct {
	*BaseError
	StatusCode int
	Attempts   int
}

func NewNamingRequestFailed(statusCode, attempts int, err error) *ErrNamingRequestFailed {
	return &ErrNamingRequestFailed{
		BaseError:  NewBaseError(ErrorTypeNaming, fmt.Sprintf("name request failed after %d attempts", attempts), err),
		StatusCode: statusCode,
		Attempts:   attempts,
	}
}

// Graph Errors

// ErrGraphExportDisabled is returned when export is requested without a Neo4j target
var ErrGraphExportDisabled = NewBaseError(ErrorTypeGraph, "graph export is not configured", nil)

// ErrGraphExportFailed is returned when writing a chapter to Neo4j fails
type ErrGraphExportFailed struct {
	*BaseError
	Chapter int
}

func NewGraphExportFailed(chapter int, err error) *ErrGraphExportFailed {
	return &ErrGraphExportFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to export chapter %d", chapter), err),
		Chapter:   chapter,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// ErrConfigInvalid is returned when a config value is set but unusable
type ErrConfigInvalid struct {
	*BaseError
	Field string
}

func NewConfigInvalid(field, reason string) *ErrConfigInvalid {
	return &ErrConfigInvalid{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("invalid config %s: %s", field, reason), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error, or anything it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var typed interface{ Kind() ErrorType }
	if errors.As(err, &typed) {
		return typed.Kind() == errType
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	var reqErr *ErrNamingRequestFailed
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == 0 || reqErr.StatusCode >= 500
	}
	// Neo4j connection errors are usually transient
	return IsErrorType(err, ErrorTypeGraph)
}
