package command

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/review"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT REVIEW COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// SubmitReviewCommand carries one mentee review of a mentor.
type SubmitReviewCommand struct {
	// MenteeID - the authenticated author.
	MenteeID shared.UserID

	// MentorID - the reviewed mentor.
	MentorID shared.UserID

	// Rating - 1 to 5, clamped rather than rejected.
	Rating float64

	// Comment - optional free text.
	Comment string
}

// SubmitReviewResult is the stored review plus the mentor's updated
// aggregate, so clients can refresh the rating badge in place.
type SubmitReviewResult struct {
	Review  *review.Review        `json:"review"`
	Summary *review.RatingSummary `json:"summary,omitempty"`
}

// SubmitReviewHandler stores reviews.
type SubmitReviewHandler struct {
	reviewRepo  review.Repository
	profileRepo profile.Repository
}

// NewSubmitReviewHandler creates a new handler.
func NewSubmitReviewHandler(reviewRepo review.Repository, profileRepo profile.Repository) *SubmitReviewHandler {
	return &SubmitReviewHandler{reviewRepo: reviewRepo, profileRepo: profileRepo}
}

// Handle validates the target is a real mentor and stores the review.
func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*SubmitReviewResult, error) {
	if cmd.MenteeID.IsEmpty() {
		return nil, shared.ErrUnauthorized
	}

	rev, err := review.NewReview(cmd.MentorID, cmd.MenteeID, shared.Rating(cmd.Rating), cmd.Comment)
	if err != nil {
		return nil, err
	}

	mentorProfile, err := h.profileRepo.GetByUserID(ctx, cmd.MentorID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrMentorNotFound
		}
		return nil, shared.WrapError("command", "SubmitReview", shared.ErrPersistence, "failed to resolve mentor", err)
	}
	if mentorProfile.Type != shared.RoleMentor {
		return nil, shared.ErrMentorNotFound
	}

	if err := h.reviewRepo.Create(ctx, rev); err != nil {
		return nil, shared.WrapError("command", "SubmitReview", shared.ErrPersistence, "failed to store review", err)
	}

	// The refreshed aggregate is informational. Losing it does not
	// undo the write.
	summary, err := h.reviewRepo.AggregateByMentor(ctx, cmd.MentorID)
	if err != nil {
		summary = nil
	}

	return &SubmitReviewResult{Review: rev, Summary: summary}, nil
}
