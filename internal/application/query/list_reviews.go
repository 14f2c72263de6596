package query

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/review"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST REVIEWS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// ListReviewsQuery identifies the reviewed mentor.
type ListReviewsQuery struct {
	// MentorID - the mentor whose reviews are requested.
	MentorID shared.UserID
}

// Validate checks the mentor is identified.
func (q *ListReviewsQuery) Validate() error {
	if q.MentorID.IsEmpty() {
		return shared.ErrInvalidInput
	}
	return nil
}

// ReviewDTO is one review with the author's display info attached.
type ReviewDTO struct {
	*review.Review
	AuthorName   string `json:"author_name,omitempty"`
	AuthorAvatar string `json:"author_avatar,omitempty"`
}

// ReviewsResult is the mentor's reviews plus the aggregate.
type ReviewsResult struct {
	MentorID shared.UserID         `json:"mentor_id"`
	Reviews  []ReviewDTO           `json:"reviews"`
	Summary  *review.RatingSummary `json:"summary,omitempty"`
}

// ListReviewsHandler lists a mentor's reviews, newest first.
type ListReviewsHandler struct {
	reviewRepo review.Repository
	userRepo   profile.UserRepository
}

// NewListReviewsHandler creates a new handler.
func NewListReviewsHandler(reviewRepo review.Repository, userRepo profile.UserRepository) *ListReviewsHandler {
	return &ListReviewsHandler{reviewRepo: reviewRepo, userRepo: userRepo}
}

// Handle loads the review page.
func (h *ListReviewsHandler) Handle(ctx context.Context, query ListReviewsQuery) (*ReviewsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	reviews, err := h.reviewRepo.ListByMentor(ctx, query.MentorID)
	if err != nil {
		return nil, shared.WrapError("query", "ListReviews", shared.ErrPersistence, "failed to load reviews", err)
	}

	summary, err := h.reviewRepo.AggregateByMentor(ctx, query.MentorID)
	if err != nil {
		return nil, shared.WrapError("query", "ListReviews", shared.ErrPersistence, "failed to aggregate rating", err)
	}

	authorIDs := make([]shared.UserID, 0, len(reviews))
	for _, r := range reviews {
		authorIDs = append(authorIDs, r.MenteeID)
	}

	authors := map[shared.UserID]*profile.User{}
	if len(authorIDs) > 0 {
		if m, err := h.userRepo.GetByIDs(ctx, authorIDs); err == nil {
			authors = m
		}
	}

	rows := make([]ReviewDTO, 0, len(reviews))
	for _, r := range reviews {
		row := ReviewDTO{Review: r}
		if author, ok := authors[r.MenteeID]; ok {
			row.AuthorName = author.Name
			row.AuthorAvatar = author.Avatar
		}
		rows = append(rows, row)
	}

	return &ReviewsResult{
		MentorID: query.MentorID,
		Reviews:  rows,
		Summary:  summary,
	}, nil
}
