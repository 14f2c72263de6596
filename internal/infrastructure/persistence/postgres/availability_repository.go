package postgres

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/availability"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AVAILABILITY REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// AvailabilityRepository implements availability.Repository.
type AvailabilityRepository struct {
	db Querier
}

// NewAvailabilityRepository creates a repository over the given querier.
func NewAvailabilityRepository(db Querier) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

const slotColumns = `id, mentor_id, start_time, end_time, status, created_at`

// Create stores a slot.
func (r *AvailabilityRepository) Create(ctx context.Context, slot *availability.Slot) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO availabilities (`+slotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		slot.ID, string(slot.MentorID), slot.StartTime, slot.EndTime,
		string(slot.Status), slot.CreatedAt)
	if err != nil {
		return shared.WrapError("postgres", "CreateSlot", shared.ErrPersistence, "write failed", err)
	}
	return nil
}

// GetByID returns one slot.
func (r *AvailabilityRepository) GetByID(ctx context.Context, id string) (*availability.Slot, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM availabilities WHERE id = $1`, id)

	slot, err := scanSlot(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSlotNotFound
		}
		return nil, shared.WrapError("postgres", "GetSlot", shared.ErrPersistence, "query failed", err)
	}
	return slot, nil
}

// ListByMentor returns a mentor's slots ordered by start time.
func (r *AvailabilityRepository) ListByMentor(ctx context.Context, mentorID shared.UserID, onlyAvailable bool) ([]*availability.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM availabilities WHERE mentor_id = $1`
	if onlyAvailable {
		query += ` AND status = 'available'`
	}
	query += ` ORDER BY start_time ASC`

	rows, err := r.db.Query(ctx, query, string(mentorID))
	if err != nil {
		return nil, shared.WrapError("postgres", "ListSlots", shared.ErrPersistence, "query failed", err)
	}
	defer rows.Close()

	var out []*availability.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, shared.WrapError("postgres", "ListSlots", shared.ErrPersistence, "scan failed", err)
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

// CountFutureAvailable counts bookable slots that have not started yet.
// This is the query behind the availability bonus.
func (r *AvailabilityRepository) CountFutureAvailable(ctx context.Context, mentorID shared.UserID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM availabilities
		WHERE mentor_id = $1 AND status = 'available' AND start_time >= NOW()`,
		string(mentorID)).Scan(&n)
	if err != nil {
		return 0, shared.WrapError("postgres", "CountSlots", shared.ErrPersistence, "query failed", err)
	}
	return n, nil
}

// Delete removes a slot.
func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM availabilities WHERE id = $1`, id)
	if err != nil {
		return shared.WrapError("postgres", "DeleteSlot", shared.ErrPersistence, "delete failed", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSlotNotFound
	}
	return nil
}

func scanSlot(row rowScanner) (*availability.Slot, error) {
	var s availability.Slot
	var mentorID, status string
	if err := row.Scan(&s.ID, &mentorID, &s.StartTime, &s.EndTime, &status, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.MentorID = shared.UserID(mentorID)
	s.Status = availability.SlotStatus(status)
	return &s, nil
}
