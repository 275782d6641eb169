// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation   = errors.New("validation error")
	ErrInvalidID    = errors.New("invalid ID")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyValue   = errors.New("value cannot be empty")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Authorization errors
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "doubt", "comment", "notification"
	Op      string // Operation that failed, e.g., "Resolve", "Create"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Identity domain errors
var (
	ErrTokenMissing  = NewDomainError("identity", "Verify", ErrUnauthenticated, "credential is missing")
	ErrTokenInvalid  = NewDomainError("identity", "Verify", ErrUnauthenticated, "credential is invalid")
	ErrTokenExpired  = NewDomainError("identity", "Verify", ErrUnauthenticated, "credential is expired")
	ErrUnknownRole   = NewDomainError("identity", "Verify", ErrUnauthenticated, "credential carries an unknown role")
	ErrRoleMismatch  = NewDomainError("identity", "RequireRole", ErrForbidden, "caller role is not permitted")
	ErrNotOwner      = NewDomainError("identity", "RequireOwnership", ErrForbidden, "caller does not own the resource")
	ErrInvalidUserID = NewDomainError("identity", "Validate", ErrInvalidID, "invalid user ID")
	ErrInvalidRole   = NewDomainError("identity", "Validate", ErrInvalidInput, "invalid role")
)

// Doubt domain errors
var (
	ErrDoubtNotFound        = NewDomainError("doubt", "Find", ErrNotFound, "doubt not found")
	ErrDoubtTitleRequired   = NewDomainError("doubt", "Validate", ErrEmptyValue, "doubt title is required")
	ErrDoubtBodyRequired    = NewDomainError("doubt", "Validate", ErrEmptyValue, "doubt description is required")
	ErrDoubtInvalidStatus   = NewDomainError("doubt", "Validate", ErrInvalidState, "invalid doubt status")
	ErrDoubtAlreadyResolved = NewDomainError("doubt", "Resolve", ErrStateTransition, "doubt is already resolved")
	ErrDoubtAlreadyOpen     = NewDomainError("doubt", "Reopen", ErrStateTransition, "doubt is already open")
)

// Comment domain errors
var (
	ErrCommentNotFound     = NewDomainError("comment", "Find", ErrNotFound, "comment not found")
	ErrCommentEmptyMessage = NewDomainError("comment", "Validate", ErrEmptyValue, "comment message is required")
)

// Notification domain errors
var (
	ErrNotificationNotFound     = NewDomainError("notification", "Find", ErrNotFound, "notification not found")
	ErrNotificationNotRecipient = NewDomainError("notification", "MarkRead", ErrForbidden, "caller is not the notification recipient")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue)
}

// IsUnauthenticated checks if the error is an authentication failure.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsForbidden checks if the error is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsInvalidTransition checks if the error is a state transition failure.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrStateTransition) || errors.Is(err, ErrInvalidState)
}
