// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages. This package has zero external dependencies.
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
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Dependency errors
	ErrPersistence        = errors.New("persistence error")
	ErrDependencyDegraded = errors.New("dependency degraded")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrInternal           = errors.New("internal error")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "profile", "chat", "matching"
	Op      string // Operation that failed, e.g., "Create", "Score"
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

// Profile domain errors
var (
	ErrProfileNotFound = NewDomainError("profile", "Find", ErrNotFound, "profile not found")
	ErrProfileMissing  = NewDomainError("profile", "Require", ErrValidation, "complete onboarding/profile first")
	ErrInvalidRole     = NewDomainError("profile", "Validate", ErrInvalidInput, "role must be mentor or mentee")
	ErrUserNotFound    = NewDomainError("profile", "FindUser", ErrNotFound, "user not found")
)

// Matching domain errors
var (
	ErrRoleMismatch     = NewDomainError("matching", "Rank", ErrForbidden, "requester role does not match requested direction")
	ErrInvalidDirection = NewDomainError("matching", "Rank", ErrInvalidInput, "invalid 'for' parameter")
	ErrMentorNotFound   = NewDomainError("matching", "Explain", ErrNotFound, "mentor not found")
)

// Availability domain errors
var (
	ErrSlotNotFound     = NewDomainError("availability", "Find", ErrNotFound, "availability slot not found")
	ErrInvalidTimeRange = NewDomainError("availability", "Validate", ErrValidation, "end_time must be after start_time")
	ErrSlotNotDeletable = NewDomainError("availability", "Delete", ErrInvalidState, "only available slots can be deleted")
)

// Review domain errors
var (
	ErrReviewNotFound = NewDomainError("review", "Find", ErrNotFound, "review not found")
	ErrSelfReview     = NewDomainError("review", "Create", ErrInvalidInput, "cannot review yourself")
	ErrInvalidRating  = NewDomainError("review", "Validate", ErrValueOutOfRange, "rating must be between 1 and 5")
)

// Chat domain errors
var (
	ErrEmptyMessage     = NewDomainError("chat", "Send", ErrValidation, "receiver_id and text are required")
	ErrMessageNotFound  = NewDomainError("chat", "Find", ErrNotFound, "message not found")
	ErrSelfConversation = NewDomainError("chat", "Send", ErrInvalidInput, "cannot message yourself")
)

// Session domain errors
var (
	ErrSessionNotFound = NewDomainError("session", "Find", ErrUnauthorized, "session not found or expired")
	ErrNotOwner        = NewDomainError("session", "Authorize", ErrForbidden, "resource belongs to another user")
	ErrBadCredentials  = NewDomainError("session", "Login", ErrUnauthorized, "invalid email or password")
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
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsDegraded checks if the error comes from a degraded dependency.
// Such errors are recovered locally and never surfaced to callers.
func IsDegraded(err error) bool {
	return errors.Is(err, ErrDependencyDegraded) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
