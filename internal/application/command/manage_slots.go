package command

import (
	"context"
	"time"

	"github.com/mentorhub/mentorship-hub/internal/domain/availability"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SLOT COMMANDS
// Mentors publish and retract availability windows. Slots are the raw
// material behind the availability bonus in ranking.
// ══════════════════════════════════════════════════════════════════════════════

// CreateSlotCommand publishes one availability window.
type CreateSlotCommand struct {
	// MentorID - the authenticated mentor.
	MentorID shared.UserID

	// Role - the caller's session role, checked before writing.
	Role shared.Role

	// StartTime, EndTime - the window bounds. End must be after start.
	StartTime time.Time
	EndTime   time.Time
}

// CreateSlotHandler creates slots.
type CreateSlotHandler struct {
	slotRepo availability.Repository
}

// NewCreateSlotHandler creates a new handler.
func NewCreateSlotHandler(slotRepo availability.Repository) *CreateSlotHandler {
	return &CreateSlotHandler{slotRepo: slotRepo}
}

// Handle validates and stores the slot.
func (h *CreateSlotHandler) Handle(ctx context.Context, cmd CreateSlotCommand) (*availability.Slot, error) {
	if cmd.MentorID.IsEmpty() {
		return nil, shared.ErrUnauthorized
	}
	if cmd.Role != shared.RoleMentor {
		return nil, shared.ErrRoleMismatch
	}

	slot, err := availability.NewSlot(cmd.MentorID, cmd.StartTime, cmd.EndTime, availability.StatusAvailable)
	if err != nil {
		return nil, err
	}

	if err := h.slotRepo.Create(ctx, slot); err != nil {
		return nil, shared.WrapError("command", "CreateSlot", shared.ErrPersistence, "failed to store slot", err)
	}
	return slot, nil
}

// DeleteSlotCommand retracts an availability window.
type DeleteSlotCommand struct {
	// MentorID - the authenticated mentor.
	MentorID shared.UserID

	// SlotID - the slot to retract.
	SlotID string
}

// DeleteSlotHandler deletes slots.
type DeleteSlotHandler struct {
	slotRepo availability.Repository
}

// NewDeleteSlotHandler creates a new handler.
func NewDeleteSlotHandler(slotRepo availability.Repository) *DeleteSlotHandler {
	return &DeleteSlotHandler{slotRepo: slotRepo}
}

// Handle deletes the slot after checking ownership and state. Booked
// slots stay put, a mentee is counting on them.
func (h *DeleteSlotHandler) Handle(ctx context.Context, cmd DeleteSlotCommand) error {
	if cmd.MentorID.IsEmpty() {
		return shared.ErrUnauthorized
	}
	if cmd.SlotID == "" {
		return shared.ErrInvalidInput
	}

	slot, err := h.slotRepo.GetByID(ctx, cmd.SlotID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.ErrSlotNotFound
		}
		return shared.WrapError("command", "DeleteSlot", shared.ErrPersistence, "failed to load slot", err)
	}

	if slot.MentorID != cmd.MentorID {
		return shared.ErrNotOwner
	}
	if !slot.IsDeletable() {
		return shared.ErrSlotNotDeletable
	}

	if err := h.slotRepo.Delete(ctx, slot.ID); err != nil {
		return shared.WrapError("command", "DeleteSlot", shared.ErrPersistence, "failed to delete slot", err)
	}
	return nil
}
