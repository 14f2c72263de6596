// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UserID represents a unique user identifier (UUID format).
type UserID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the user ID is a valid UUID.
func (u UserID) IsValid() bool {
	return uuidRegex.MatchString(string(u))
}

// String returns the string representation.
func (u UserID) String() string {
	return string(u)
}

// IsEmpty checks if the ID is empty.
func (u UserID) IsEmpty() bool {
	return u == ""
}

// NewUserID creates a new UserID with validation.
func NewUserID(id string) (UserID, error) {
	uid := UserID(strings.ToLower(strings.TrimSpace(id)))
	if !uid.IsValid() {
		return "", NewDomainError("shared", "NewUserID", ErrInvalidID, "invalid user ID format")
	}
	return uid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Role Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Role represents a user's role on the platform.
type Role string

const (
	// RoleMentor offers guidance and publishes availability.
	RoleMentor Role = "mentor"

	// RoleMentee looks for mentors and books sessions.
	RoleMentee Role = "mentee"

	// RoleAdmin moderates the platform. Admins never appear in matching.
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleMentor, RoleMentee, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsMatchable returns true when the role participates in matching.
func (r Role) IsMatchable() bool {
	return r == RoleMentor || r == RoleMentee
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Rating Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Rating represents a review rating on a 1-5 scale.
type Rating float64

const (
	// MinRating is the lowest rating a mentee can give.
	MinRating Rating = 1.0

	// MaxRating is the highest rating a mentee can give.
	MaxRating Rating = 5.0
)

// IsValid checks if the rating is within the allowed range.
func (r Rating) IsValid() bool {
	return r >= MinRating && r <= MaxRating
}

// Float64 returns the underlying float64 value.
func (r Rating) Float64() float64 {
	return float64(r)
}

// Clamp forces the rating into [1, 5]. Write paths clamp rather than
// reject so a sloppy client still produces a usable signal.
func (r Rating) Clamp() Rating {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}
