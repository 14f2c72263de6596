package profile

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Domain defines the contracts; infrastructure/persistence implements them.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines storage operations for profiles.
type Repository interface {
	// GetByUserID returns the profile for a user.
	// Returns shared.ErrProfileNotFound if the user has no profile.
	GetByUserID(ctx context.Context, userID shared.UserID) (*Profile, error)

	// Upsert creates or replaces a user's profile. The stored type is
	// derived from the owning user's current role inside the same
	// transaction, keeping role and profile type in sync.
	Upsert(ctx context.Context, p *Profile) error

	// ListByType returns all profiles of the given type, most recently
	// updated first. Used to load the candidate pool for ranking.
	ListByType(ctx context.Context, profileType shared.Role) ([]*Profile, error)
}

// UserRepository defines the account reads the core needs.
type UserRepository interface {
	// GetByID returns a user by id.
	// Returns shared.ErrUserNotFound if unknown.
	GetByID(ctx context.Context, id shared.UserID) (*User, error)

	// GetByEmail returns a user by email (login path).
	// Returns shared.ErrUserNotFound if unknown.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByIDs returns users for the given ids, keyed by id.
	// Unknown ids are simply absent from the map.
	GetByIDs(ctx context.Context, ids []shared.UserID) (map[shared.UserID]*User, error)
}
