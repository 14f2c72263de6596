package query

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/availability"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST SLOTS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// ListSlotsQuery identifies whose slots to list.
type ListSlotsQuery struct {
	// MentorID - the mentor whose calendar is requested.
	MentorID shared.UserID

	// OnlyAvailable - hide booked and blocked slots. Mentees browsing
	// a calendar set this; mentors managing their own do not.
	OnlyAvailable bool
}

// Validate checks the mentor is identified.
func (q *ListSlotsQuery) Validate() error {
	if q.MentorID.IsEmpty() {
		return shared.ErrInvalidInput
	}
	return nil
}

// SlotsResult is a mentor's calendar, earliest slot first.
type SlotsResult struct {
	MentorID shared.UserID        `json:"mentor_id"`
	Slots    []*availability.Slot `json:"slots"`
}

// ListSlotsHandler lists a mentor's availability.
type ListSlotsHandler struct {
	slotRepo availability.Repository
}

// NewListSlotsHandler creates a new handler.
func NewListSlotsHandler(slotRepo availability.Repository) *ListSlotsHandler {
	return &ListSlotsHandler{slotRepo: slotRepo}
}

// Handle loads the calendar.
func (h *ListSlotsHandler) Handle(ctx context.Context, query ListSlotsQuery) (*SlotsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	slots, err := h.slotRepo.ListByMentor(ctx, query.MentorID, query.OnlyAvailable)
	if err != nil {
		return nil, shared.WrapError("query", "ListSlots", shared.ErrPersistence, "failed to load slots", err)
	}
	if slots == nil {
		slots = []*availability.Slot{}
	}

	return &SlotsResult{MentorID: query.MentorID, Slots: slots}, nil
}
