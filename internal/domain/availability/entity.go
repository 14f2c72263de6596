// Package availability contains mentor availability slots. The matching
// core only asks one question of this package: does a mentor have any
// bookable future slot.
package availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// SlotStatus represents the lifecycle state of an availability slot.
type SlotStatus string

const (
	// StatusAvailable - open for booking.
	StatusAvailable SlotStatus = "available"

	// StatusBooked - taken by an accepted session.
	StatusBooked SlotStatus = "booked"

	// StatusBlocked - withheld by the mentor.
	StatusBlocked SlotStatus = "blocked"
)

// IsValid checks if the status is one of the known states.
func (s SlotStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusBlocked:
		return true
	default:
		return false
	}
}

// Slot represents one availability window owned by a mentor.
type Slot struct {
	ID        string
	MentorID  shared.UserID
	StartTime time.Time
	EndTime   time.Time
	Status    SlotStatus
	CreatedAt time.Time
}

// NewSlot creates a slot after validating the time range. A zero-length
// range (start == end) is rejected the same as an inverted one.
func NewSlot(mentorID shared.UserID, start, end time.Time, status SlotStatus) (*Slot, error) {
	if mentorID.IsEmpty() {
		return nil, shared.NewDomainError("availability", "Create", shared.ErrInvalidID, "mentor id is required")
	}
	if !end.After(start) {
		return nil, shared.ErrInvalidTimeRange
	}
	if status == "" {
		status = StatusAvailable
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("availability", "Create", shared.ErrInvalidInput, "invalid slot status")
	}

	return &Slot{
		ID:        uuid.NewString(),
		MentorID:  mentorID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Book transitions the slot to booked. Only available slots can be booked.
func (s *Slot) Book() error {
	if s.Status != StatusAvailable {
		return shared.NewDomainError("availability", "Book", shared.ErrStateTransition, "slot is not available")
	}
	s.Status = StatusBooked
	return nil
}

// IsDeletable reports whether the mentor may delete the slot.
// Booked and blocked slots must be released first.
func (s *Slot) IsDeletable() bool {
	return s.Status == StatusAvailable
}

// IsFuture reports whether the slot starts at or after the given instant.
func (s *Slot) IsFuture(now time.Time) bool {
	return !s.StartTime.Before(now)
}
