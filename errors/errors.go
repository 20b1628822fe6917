/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoBinding is returned when a type has no denormalisation binding
	ErrNoBinding = errors.New("no denormalisation binding for type")

	// ErrUnknownTable is returned when an operation names a table the store does not know
	ErrUnknownTable = errors.New("unknown table")
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NoBindingError represents a lookup for a type that never registered a binding
type NoBindingError struct {
	Type string
}

func (e *NoBindingError) Error() string {
	return fmt.Sprintf("type %s has no denormalisation binding", e.Type)
}

func (e *NoBindingError) Is(target error) bool {
	return target == ErrNoBinding
}

// UnknownTableError represents an operation against a table the store does not hold
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("table %q is not known to this store", e.Table)
}

func (e *UnknownTableError) Is(target error) bool {
	return target == ErrUnknownTable
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(recordType, key string) error {
	return &NotFoundError{Type: recordType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewNoBindingError creates a new NoBindingError
func NewNoBindingError(typeName string) error {
	return &NoBindingError{Type: typeName}
}

// NewUnknownTableError creates a new UnknownTableError
func NewUnknownTableError(table string) error {
	return &UnknownTableError{Table: table}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNoBinding checks if an error is a missing binding error
func IsNoBinding(err error) bool {
	return errors.Is(err, ErrNoBinding)
}

// IsUnknownTable checks if an error is an unknown table error
func IsUnknownTable(err error) bool {
	return errors.Is(err, ErrUnknownTable)
}
