package availability

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// Repository defines storage operations for availability slots.
type Repository interface {
	// Create persists a new slot.
	Create(ctx context.Context, slot *Slot) error

	// GetByID returns a slot by id.
	// Returns shared.ErrSlotNotFound if unknown.
	GetByID(ctx context.Context, id string) (*Slot, error)

	// ListByMentor returns a mentor's slots ordered by start time.
	// When onlyAvailable is set, booked and blocked slots are skipped.
	ListByMentor(ctx context.Context, mentorID shared.UserID, onlyAvailable bool) ([]*Slot, error)

	// CountFutureAvailable returns the number of slots for the mentor
	// with status available and start_time >= now.
	CountFutureAvailable(ctx context.Context, mentorID shared.UserID) (int, error)

	// Delete removes a slot. The caller checks IsDeletable first; the
	// query also guards on status so a concurrent booking wins.
	Delete(ctx context.Context, id string) error
}

// Oracle answers the single availability question the scorer asks.
// Implementations must fail open: data-access errors degrade to
// "not available" and are never propagated.
type Oracle interface {
	// HasFutureAvailability reports whether the mentor has at least one
	// bookable future slot. Degraded is set when the answer comes from
	// a failed lookup rather than real data.
	HasFutureAvailability(ctx context.Context, mentorID shared.UserID) Check
}

// Check is the oracle's answer. Degraded answers always carry
// Available=false; scoring surfaces the flag and exempts the mentor
// from availability-required filtering.
type Check struct {
	Available bool
	Degraded  bool
}
