package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeSchema represents schema setup errors
	ErrorTypeSchema ErrorType = "schema"
	// ErrorTypeIngest represents CSV ingest errors
	ErrorTypeIngest ErrorType = "ingest"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
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

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when the Neo4j server is unreachable
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphQueryFailed(query string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, "query failed", err),
		Query:     query,
	}
}

// Schema Errors

// ErrSchemaConstraintConflict is returned when an existing constraint on the
// same label/property cannot be reconciled with the one being declared
type ErrSchemaConstraintConflict struct {
	*BaseError
	Label    string
	Property string
}

func NewSchemaConstraintConflict(label, property string, err error) *ErrSchemaConstraintConflict {
	return &ErrSchemaConstraintConflict{
		BaseError: NewBaseError(ErrorTypeSchema, fmt.Sprintf("conflicting constraint on (:%s {%s})", label, property), err),
		Label:     label,
		Property:  property,
	}
}

// ErrSchemaPermission is returned when the connected user may not alter the schema
type ErrSchemaPermission struct {
	*BaseError
	Statement string
}

func NewSchemaPermission(statement string, err error) *ErrSchemaPermission {
	return &ErrSchemaPermission{
		BaseError: NewBaseError(ErrorTypeSchema, "insufficient privilege to alter schema", err),
		Statement: statement,
	}
}

// Ingest Errors

// ErrIngestFileFailed is returned when a CSV file cannot be read or parsed
type ErrIngestFileFailed struct {
	*BaseError
	Path string
	Line int
}

func NewIngestFileFailed(path string, line int, err error) *ErrIngestFileFailed {
	return &ErrIngestFileFailed{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("failed to ingest %s (line %d)", path, line), err),
		Path:      path,
		Line:      line,
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

// Helper functions

// Base exposes the underlying BaseError; promoted by every embedding error type
func (e *BaseError) Base() *BaseError {
	return e
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if b, ok := err.(interface{ Base() *BaseError }); ok {
		return b.Base().Type == errType
	}
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapped.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}
