// Package profile contains the profile aggregate and the feature
// extraction used by the matching engine.
package profile

import (
	"strings"
	"time"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE ENTITY
// One profile per user. The stored type mirrors the owning user's role
// and is rewritten in the same transaction whenever the role changes,
// so matching never sees a mentor profile owned by a mentee.
// ══════════════════════════════════════════════════════════════════════════════

// Profile represents a user's mentorship profile.
type Profile struct {
	// UserID - owning user. Profiles are keyed by user, at most one each.
	UserID shared.UserID

	// Type mirrors the owner's role at write time ("mentor" | "mentee").
	Type shared.Role

	// Free-text fields.
	FullName   string
	Headline   string
	Bio        string
	Background string
	Goals      string

	// Tag-bearing fields, stored as comma-separated strings.
	Expertise      string
	Skills         string
	Interests      string
	HelpAreas      string
	Categories     string
	PreferredTimes string

	// Timezone, e.g. "Asia/Kolkata". Compared case-insensitively.
	Timezone string

	// Numeric signals.
	ExperienceYears int
	HourlyRate      float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the profile invariants that hold at write time.
func (p *Profile) Validate() error {
	if p.UserID.IsEmpty() {
		return shared.NewDomainError("profile", "Validate", shared.ErrInvalidID, "user id is required")
	}
	if !p.Type.IsMatchable() {
		return shared.ErrInvalidRole
	}
	if p.ExperienceYears < 0 {
		return shared.NewDomainError("profile", "Validate", shared.ErrValueOutOfRange, "experience_years cannot be negative")
	}
	return nil
}

// DisplayName returns the best available name for presentation.
func (p *Profile) DisplayName(fallback string) string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	return fallback
}

// ══════════════════════════════════════════════════════════════════════════════
// USER
// Minimal account record the core reads. Authentication beyond the thin
// session-issuing login lives outside this codebase.
// ══════════════════════════════════════════════════════════════════════════════

// User represents a platform account.
type User struct {
	ID           shared.UserID
	Email        string
	Name         string
	Avatar       string
	Role         shared.Role
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName returns the user's name, falling back to the email.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.Email
}
