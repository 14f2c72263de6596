// Package review contains mentor reviews and the rating aggregation the
// matching engine consumes as a post-hoc boost signal.
package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// Review ties one mentee to one mentor with a 1-5 rating. Reviews are
// immutable after creation except through moderation deletion.
type Review struct {
	ID        string
	MentorID  shared.UserID
	MenteeID  shared.UserID
	Rating    shared.Rating
	Comment   string
	CreatedAt time.Time
}

// NewReview creates a review. The rating is clamped into [1, 5] at write
// time rather than rejected.
func NewReview(mentorID, menteeID shared.UserID, rating shared.Rating, comment string) (*Review, error) {
	if mentorID.IsEmpty() || menteeID.IsEmpty() {
		return nil, shared.NewDomainError("review", "Create", shared.ErrInvalidID, "mentor_id and rating are required")
	}
	if mentorID == menteeID {
		return nil, shared.ErrSelfReview
	}

	return &Review{
		ID:        uuid.NewString(),
		MentorID:  mentorID,
		MenteeID:  menteeID,
		Rating:    rating.Clamp(),
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// RatingSummary is the aggregate rating signal for one mentor.
// A mentor with no reviews has no summary at all - "no data" must stay
// distinguishable from "rated zero" so missing ratings contribute zero
// boost instead of a penalty.
type RatingSummary struct {
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}
