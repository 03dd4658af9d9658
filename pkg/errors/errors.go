// Package errors provides custom error types for the laurel system.
// These errors enable programmatic error checking across the
// reconciliation pass: a failing source is absorbed, a failing sink is not.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are the standard library functions, re-exported so callers
// need only this package.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the laurel system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates that a source could not be opened
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSourceMalformed indicates that a source could not be parsed
	ErrSourceMalformed = errors.New("source malformed")

	// ErrSourceUnexpected indicates any other adapter failure
	ErrSourceUnexpected = errors.New("source failed unexpectedly")

	// ErrSinkFailed indicates that the final write could not be completed
	ErrSinkFailed = errors.New("sink failed")

	// ErrAlreadyRunning indicates that a reconciliation pass is already in flight
	ErrAlreadyRunning = errors.New("already running")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "json", "xml", "txt", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// SourceReason classifies why a source contributed no records.
type SourceReason string

// Source failure reasons.
const (
	SourceUnavailable SourceReason = "unavailable"
	SourceMalformed   SourceReason = "malformed"
	SourceUnexpected  SourceReason = "unexpected"
)

// SourceError represents a failure reading one input source.
// The reconciliation pass logs it and treats the source as empty.
type SourceError struct {
	Source string
	Path   string
	Reason SourceReason
	Err    error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("source %s (%s) %s: %v", e.Source, e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("source %s %s: %v", e.Source, e.Reason, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceError) Is(target error) bool {
	switch e.Reason {
	case SourceUnavailable:
		return target == ErrSourceUnavailable
	case SourceMalformed:
		return target == ErrSourceMalformed
	default:
		return target == ErrSourceUnexpected
	}
}

// NewSourceError creates a SourceError, classifying err when reason is empty.
func NewSourceError(source, path string, reason SourceReason, err error) *SourceError {
	if reason == "" {
		reason = ClassifySource(err)
	}
	return &SourceError{
		Source: source,
		Path:   path,
		Reason: reason,
		Err:    err,
	}
}

// ClassifySource maps an adapter error onto a SourceReason.
func ClassifySource(err error) SourceReason {
	var perr *ParseError
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return SourceUnavailable
	case errors.As(err, &perr):
		return SourceMalformed
	default:
		return SourceUnexpected
	}
}

// SinkError represents a failure persisting the final customer set.
type SinkError struct {
	Driver    string
	Operation string // "connect", "clear", "insert", "commit", "write"
	Err       error
}

// Error implements the error interface
func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s failed during %s: %v", e.Driver, e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SinkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SinkError) Is(target error) bool {
	return target == ErrSinkFailed
}

// NewSinkError creates a new SinkError
func NewSinkError(driver, operation string, err error) *SinkError {
	return &SinkError{
		Driver:    driver,
		Operation: operation,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsSourceError checks if an error came from a source adapter
func IsSourceError(err error) bool {
	var serr *SourceError
	return errors.As(err, &serr)
}

// IsSinkError checks if an error came from the sink
func IsSinkError(err error) bool {
	return errors.Is(err, ErrSinkFailed)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapSink wraps an error as a SinkError
func WrapSink(driver, operation string, err error) error {
	if err == nil {
		return nil
	}
	return NewSinkError(driver, operation, err)
}
