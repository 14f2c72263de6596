package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/review"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

type fakeReviewRepo struct {
	reviews []*review.Review
}

func (r *fakeReviewRepo) Create(_ context.Context, rev *review.Review) error {
	r.reviews = append(r.reviews, rev)
	return nil
}

func (r *fakeReviewRepo) ListByMentor(_ context.Context, mentorID shared.UserID) ([]*review.Review, error) {
	var out []*review.Review
	for _, rev := range r.reviews {
		if rev.MentorID == mentorID {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) AggregateByMentor(_ context.Context, mentorID shared.UserID) (*review.RatingSummary, error) {
	var sum float64
	var count int
	for _, rev := range r.reviews {
		if rev.MentorID == mentorID {
			sum += rev.Rating.Float64()
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	return &review.RatingSummary{Avg: sum / float64(count), Count: count}, nil
}

func (r *fakeReviewRepo) AggregateByMentors(ctx context.Context, ids []shared.UserID) (map[shared.UserID]*review.RatingSummary, error) {
	out := map[shared.UserID]*review.RatingSummary{}
	for _, id := range ids {
		summary, _ := r.AggregateByMentor(ctx, id)
		if summary != nil {
			out[id] = summary
		}
	}
	return out, nil
}

func mentorProfiles() *fakeProfileRepo {
	repo := newFakeProfileRepo()
	repo.profiles[bobID] = &profile.Profile{UserID: bobID, Type: shared.RoleMentor}
	repo.profiles[aliceID] = &profile.Profile{UserID: aliceID, Type: shared.RoleMentee}
	return repo
}

func TestSubmitReview_StoresAndReturnsFreshSummary(t *testing.T) {
	reviews := &fakeReviewRepo{}
	handler := NewSubmitReviewHandler(reviews, mentorProfiles())

	result, err := handler.Handle(context.Background(), SubmitReviewCommand{
		MenteeID: aliceID,
		MentorID: bobID,
		Rating:   4,
		Comment:  "patient and concrete",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Review)
	assert.Equal(t, bobID, result.Review.MentorID)
	assert.Equal(t, aliceID, result.Review.MenteeID)

	require.NotNil(t, result.Summary)
	assert.Equal(t, 4.0, result.Summary.Avg)
	assert.Equal(t, 1, result.Summary.Count)
}

func TestSubmitReview_ClampsOutOfRangeRating(t *testing.T) {
	reviews := &fakeReviewRepo{}
	handler := NewSubmitReviewHandler(reviews, mentorProfiles())

	result, err := handler.Handle(context.Background(), SubmitReviewCommand{
		MenteeID: aliceID,
		MentorID: bobID,
		Rating:   9,
	})
	require.NoError(t, err)
	assert.Equal(t, shared.MaxRating, result.Review.Rating)
}

func TestSubmitReview_Rejections(t *testing.T) {
	handler := NewSubmitReviewHandler(&fakeReviewRepo{}, mentorProfiles())
	ctx := context.Background()

	_, err := handler.Handle(ctx, SubmitReviewCommand{MentorID: bobID, Rating: 5})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = handler.Handle(ctx, SubmitReviewCommand{MenteeID: aliceID, MentorID: aliceID, Rating: 5})
	assert.ErrorIs(t, err, shared.ErrSelfReview)

	// Rating a mentee is the same as rating nobody.
	_, err = handler.Handle(ctx, SubmitReviewCommand{
		MenteeID: bobID,
		MentorID: aliceID,
		Rating:   5,
	})
	assert.ErrorIs(t, err, shared.ErrMentorNotFound)

	unknown := shared.UserID("3b3f0f86-25b7-4f4e-9f4e-1f2d3c4b5a69")
	_, err = handler.Handle(ctx, SubmitReviewCommand{MenteeID: aliceID, MentorID: unknown, Rating: 5})
	assert.ErrorIs(t, err, shared.ErrMentorNotFound)
}
