// Package domain contains the exception types, message types and domain errors.
// Domain errors represent business-level failures, NOT HTTP errors. The HTTP
// adapter turns them into localized HTTP exceptions; each error knows the
// message key and properties it is rendered with.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict such as duplicate entry or version mismatch.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the operation is not permitted by business rules.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// Localizable is implemented by errors that can describe themselves as a message.
type Localizable interface {
	Message() Message
}

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Message renders as http.clientError.notFound with entity and id.
func (e *NotFoundError) Message() Message {
	return Key(MessageKeyNotFound).
		WithProperty("entity", e.Entity).
		WithProperty("id", e.ID)
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError provides context for conflict errors.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// Message renders as http.clientError.conflict.
func (e *ConflictError) Message() Message {
	return Key(MessageKeyConflict).
		WithProperty("entity", e.Entity).
		WithProperty("reason", e.Reason)
}

// NewConflictError creates a conflict error with context.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError is a single-field business rule failure.
type ValidationError struct {
	Field      string
	Constraint string
	Value      any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Constraint)
	}

	return "validation failed: " + e.Constraint
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Message renders as request.error.validation.
func (e *ValidationError) Message() Message {
	return Key(MessageKeyValidation)
}

// Descriptor converts the failure into a request error descriptor.
func (e *ValidationError) Descriptor() ErrorDescriptor {
	return ErrorDescriptor{
		Property:    e.Field,
		Value:       e.Value,
		Constraints: []string{e.Constraint},
	}
}

// NewValidationError creates a validation error for one field and constraint.
func NewValidationError(field, constraint string) error {
	return &ValidationError{Field: field, Constraint: constraint}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, constraint string, value any) error {
	return &ValidationError{Field: field, Constraint: constraint, Value: value}
}

// ForbiddenError provides context for forbidden errors.
type ForbiddenError struct {
	Operation string
	Reason    string
}

func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("operation %q forbidden: %s", e.Operation, e.Reason)
	}

	return fmt.Sprintf("operation %q forbidden", e.Operation)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// Message renders as http.clientError.forbidden.
func (e *ForbiddenError) Message() Message {
	return Key(MessageKeyForbidden).WithProperty("operation", e.Operation)
}

// NewForbiddenError creates a forbidden error with context.
func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// Message renders as http.serverError.serviceUnavailable.
func (e *UnavailableError) Message() Message {
	return Key(MessageKeyUnavailable).WithProperty("service", e.Service)
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsForbidden checks if an error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// MessageOf returns the message an error renders as, or fallback when the
// error does not describe itself.
func MessageOf(err error, fallback Message) Message {
	var l Localizable
	if errors.As(err, &l) {
		return l.Message()
	}

	return fallback
}
