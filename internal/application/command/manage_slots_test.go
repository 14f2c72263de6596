package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorship-hub/internal/domain/availability"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

type fakeSlotRepo struct {
	slots map[string]*availability.Slot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: map[string]*availability.Slot{}}
}

func (r *fakeSlotRepo) Create(_ context.Context, slot *availability.Slot) error {
	r.slots[slot.ID] = slot
	return nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id string) (*availability.Slot, error) {
	if s, ok := r.slots[id]; ok {
		return s, nil
	}
	return nil, shared.ErrSlotNotFound
}

func (r *fakeSlotRepo) ListByMentor(_ context.Context, mentorID shared.UserID, onlyAvailable bool) ([]*availability.Slot, error) {
	var out []*availability.Slot
	for _, s := range r.slots {
		if s.MentorID != mentorID {
			continue
		}
		if onlyAvailable && s.Status != availability.StatusAvailable {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSlotRepo) CountFutureAvailable(_ context.Context, mentorID shared.UserID) (int, error) {
	n := 0
	now := time.Now()
	for _, s := range r.slots {
		if s.MentorID == mentorID && s.Status == availability.StatusAvailable && s.IsFuture(now) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSlotRepo) Delete(_ context.Context, id string) error {
	delete(r.slots, id)
	return nil
}

func TestCreateSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	h := NewCreateSlotHandler(repo)

	start := time.Now().Add(24 * time.Hour)
	slot, err := h.Handle(context.Background(), CreateSlotCommand{
		MentorID:  aliceID,
		Role:      shared.RoleMentor,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, slot.ID)
	assert.Equal(t, availability.StatusAvailable, slot.Status)
	assert.Len(t, repo.slots, 1)
}

func TestCreateSlot_Rejections(t *testing.T) {
	h := NewCreateSlotHandler(newFakeSlotRepo())
	start := time.Now().Add(24 * time.Hour)

	t.Run("mentee cannot publish slots", func(t *testing.T) {
		_, err := h.Handle(context.Background(), CreateSlotCommand{
			MentorID:  aliceID,
			Role:      shared.RoleMentee,
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		})
		assert.ErrorIs(t, err, shared.ErrRoleMismatch)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := h.Handle(context.Background(), CreateSlotCommand{
			MentorID:  aliceID,
			Role:      shared.RoleMentor,
			StartTime: start,
			EndTime:   start.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestDeleteSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	create := NewCreateSlotHandler(repo)
	h := NewDeleteSlotHandler(repo)

	start := time.Now().Add(24 * time.Hour)
	slot, err := create.Handle(context.Background(), CreateSlotCommand{
		MentorID: aliceID, Role: shared.RoleMentor,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := h.Handle(context.Background(), DeleteSlotCommand{MentorID: bobID, SlotID: slot.ID})
		assert.ErrorIs(t, err, shared.ErrNotOwner)
	})

	t.Run("booked slot stays", func(t *testing.T) {
		require.NoError(t, slot.Book())
		err := h.Handle(context.Background(), DeleteSlotCommand{MentorID: aliceID, SlotID: slot.ID})
		assert.ErrorIs(t, err, shared.ErrSlotNotDeletable)
		slot.Status = availability.StatusAvailable
	})

	t.Run("owner deletes available slot", func(t *testing.T) {
		err := h.Handle(context.Background(), DeleteSlotCommand{MentorID: aliceID, SlotID: slot.ID})
		require.NoError(t, err)
		assert.Empty(t, repo.slots)
	})

	t.Run("unknown slot", func(t *testing.T) {
		err := h.Handle(context.Background(), DeleteSlotCommand{MentorID: aliceID, SlotID: "nope"})
		assert.ErrorIs(t, err, shared.ErrSlotNotFound)
	})
}
