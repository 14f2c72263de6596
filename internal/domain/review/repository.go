package review

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// Repository defines storage operations for reviews.
type Repository interface {
	// Create persists a new review.
	Create(ctx context.Context, r *Review) error

	// ListByMentor returns a mentor's reviews, newest first.
	ListByMentor(ctx context.Context, mentorID shared.UserID) ([]*Review, error)

	// AggregateByMentor returns the rating summary for one mentor, or
	// nil (not a zero summary) when the mentor has no reviews.
	AggregateByMentor(ctx context.Context, mentorID shared.UserID) (*RatingSummary, error)

	// AggregateByMentors returns rating summaries for a batch of
	// mentors, keyed by mentor id. Mentors without reviews are absent.
	AggregateByMentors(ctx context.Context, mentorIDs []shared.UserID) (map[shared.UserID]*RatingSummary, error)
}
