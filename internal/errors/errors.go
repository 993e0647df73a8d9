package errors

import (
	"fmt"
	"time"
)

// Error types for the openenc codecs
type ErrorType string

const (
	// Codec errors
	ErrorTypeEncode ErrorType = "encode"
	ErrorTypeDecode ErrorType = "decode"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Batch errors
	ErrorTypeBatch ErrorType = "batch"
)

// NoPosition marks a CodecError that is not tied to an input offset
const NoPosition = -1

// CodecError represents a failure while converting a single input.
// Position is the byte offset of the offending character, or NoPosition.
type CodecError struct {
	Type       ErrorType
	Operation  string
	Position   int
	Char       rune
	Underlying error
}

// NewDecodeError creates a decode error pointing at the character at pos
func NewDecodeError(op string, pos int, char rune, err error) *CodecError {
	return &CodecError{
		Type:       ErrorTypeDecode,
		Operation:  op,
		Position:   pos,
		Char:       char,
		Underlying: err,
	}
}

// NewEncodeError creates an encode error pointing at the character at pos
func NewEncodeError(op string, pos int, char rune, err error) *CodecError {
	return &CodecError{
		Type:       ErrorTypeEncode,
		Operation:  op,
		Position:   pos,
		Char:       char,
		Underlying: err,
	}
}

// Error implements the error interface
func (e *CodecError) Error() string {
	if e.Position == NoPosition {
		return fmt.Sprintf("%s: %v", e.Operation, e.Underlying)
	}
	return fmt.Sprintf("%s: %v: U+%04X at position %d", e.Operation, e.Underlying, e.Char, e.Position)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *CodecError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// ItemError ties a failure to the index of the batch input that produced it
type ItemError struct {
	Index      int
	Input      string
	Underlying error
}

// NewItemError creates a new batch item error
func NewItemError(index int, input string, err error) *ItemError {
	return &ItemError{Index: index, Input: input, Underlying: err}
}

// Error implements the error interface
func (e *ItemError) Error() string {
	return fmt.Sprintf("%s item %d (%q): %v", ErrorTypeBatch, e.Index, e.Input, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ItemError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
