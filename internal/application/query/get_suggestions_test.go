package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorship-hub/internal/domain/availability"
	"github.com/mentorhub/mentorship-hub/internal/domain/matching"
	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/review"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeProfileRepo struct {
	profiles map[shared.UserID]*profile.Profile
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID shared.UserID) (*profile.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p *profile.Profile) error {
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeProfileRepo) ListByType(_ context.Context, profileType shared.Role) ([]*profile.Profile, error) {
	var out []*profile.Profile
	for _, p := range r.profiles {
		if p.Type == profileType {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[shared.UserID]*profile.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id shared.UserID) (*profile.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*profile.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []shared.UserID) (map[shared.UserID]*profile.User, error) {
	out := make(map[shared.UserID]*profile.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeReviewRepo struct {
	summaries map[shared.UserID]*review.RatingSummary
	reviews   map[shared.UserID][]*review.Review
}

func (r *fakeReviewRepo) Create(_ context.Context, rev *review.Review) error {
	if r.reviews == nil {
		r.reviews = map[shared.UserID][]*review.Review{}
	}
	r.reviews[rev.MentorID] = append(r.reviews[rev.MentorID], rev)
	return nil
}

func (r *fakeReviewRepo) ListByMentor(_ context.Context, mentorID shared.UserID) ([]*review.Review, error) {
	return r.reviews[mentorID], nil
}

func (r *fakeReviewRepo) AggregateByMentor(_ context.Context, mentorID shared.UserID) (*review.RatingSummary, error) {
	return r.summaries[mentorID], nil
}

func (r *fakeReviewRepo) AggregateByMentors(_ context.Context, mentorIDs []shared.UserID) (map[shared.UserID]*review.RatingSummary, error) {
	out := make(map[shared.UserID]*review.RatingSummary)
	for _, id := range mentorIDs {
		if s, ok := r.summaries[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type fakeOracle struct {
	available map[shared.UserID]bool
}

func (o *fakeOracle) HasFutureAvailability(_ context.Context, mentorID shared.UserID) availability.Check {
	return availability.Check{Available: o.available[mentorID]}
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

func uid(n int) shared.UserID {
	return shared.UserID(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
}

type suggestionsFixture struct {
	profiles *fakeProfileRepo
	users    *fakeUserRepo
	reviews  *fakeReviewRepo
	oracle   *fakeOracle
}

func newSuggestionsFixture() *suggestionsFixture {
	return &suggestionsFixture{
		profiles: &fakeProfileRepo{profiles: map[shared.UserID]*profile.Profile{}},
		users:    &fakeUserRepo{users: map[shared.UserID]*profile.User{}},
		reviews:  &fakeReviewRepo{summaries: map[shared.UserID]*review.RatingSummary{}},
		oracle:   &fakeOracle{available: map[shared.UserID]bool{}},
	}
}

func (f *suggestionsFixture) addUser(id shared.UserID, name string, p *profile.Profile) {
	f.users.users[id] = &profile.User{ID: id, Name: name, Role: p.Type}
	p.UserID = id
	f.profiles.profiles[id] = p
}

func (f *suggestionsFixture) handler() *GetSuggestionsHandler {
	scorer := matching.NewScorer(matching.DefaultWeights(), f.oracle)
	return NewGetSuggestionsHandler(f.profiles, f.users, f.reviews, scorer)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestGetSuggestions_RanksMentorsByScore(t *testing.T) {
	f := newSuggestionsFixture()

	f.addUser(uid(1), "Mentee", &profile.Profile{
		Type:      shared.RoleMentee,
		HelpAreas: "go,distributed systems",
	})
	// Strong match: two help areas against skills.
	f.addUser(uid(2), "Strong", &profile.Profile{
		Type:   shared.RoleMentor,
		Skills: "go,distributed systems,kafka",
	})
	// Weak match: one help area.
	f.addUser(uid(3), "Weak", &profile.Profile{
		Type:   shared.RoleMentor,
		Skills: "go",
	})
	// No match at all: still listed, score 0.
	f.addUser(uid(4), "Zero", &profile.Profile{
		Type:   shared.RoleMentor,
		Skills: "watercolor",
	})

	res, err := f.handler().Handle(context.Background(), GetSuggestionsQuery{
		ForUserID: uid(1),
		Direction: DirectionMentors,
	})
	require.NoError(t, err)

	require.Len(t, res.Suggestions, 3)
	assert.Equal(t, uid(2), res.Suggestions[0].UserID)
	assert.Equal(t, 8.0, res.Suggestions[0].Score)
	assert.Equal(t, uid(3), res.Suggestions[1].UserID)
	assert.Equal(t, 4.0, res.Suggestions[1].Score)
	assert.Equal(t, uid(4), res.Suggestions[2].UserID)
	assert.Equal(t, 0.0, res.Suggestions[2].Score)
	assert.Equal(t, 3, res.TotalCandidates)
	assert.Equal(t, "Strong", res.Suggestions[0].Name)
}

func TestGetSuggestions_RatingBoostSeparatesEqualMentors(t *testing.T) {
	f := newSuggestionsFixture()

	f.addUser(uid(1), "Mentee", &profile.Profile{Type: shared.RoleMentee, HelpAreas: "go"})
	f.addUser(uid(2), "Unrated", &profile.Profile{Type: shared.RoleMentor, Skills: "go"})
	f.addUser(uid(3), "FiveStar", &profile.Profile{Type: shared.RoleMentor, Skills: "go"})
	f.reviews.summaries[uid(3)] = &review.RatingSummary{Avg: 5, Count: 3}

	res, err := f.handler().Handle(context.Background(), GetSuggestionsQuery{
		ForUserID: uid(1),
		Direction: DirectionMentors,
	})
	require.NoError(t, err)

	require.Len(t, res.Suggestions, 2)
	assert.Equal(t, uid(3), res.Suggestions[0].UserID)
	// A perfect rating adds exactly the full boost on top of the
	// identical base score.
	assert.Equal(t, 15.0, res.Suggestions[0].Score-res.Suggestions[1].Score)
	require.NotNil(t, res.Suggestions[0].Rating)
	assert.Equal(t, 5.0, res.Suggestions[0].Rating.Avg)
	assert.Equal(t, 3, res.Suggestions[0].ReviewCount)
	assert.Nil(t, res.Suggestions[1].Rating)
	assert.Equal(t, 0, res.Suggestions[1].ReviewCount)
}

func TestGetSuggestions_RequireAvailabilityDropsMentors(t *testing.T) {
	f := newSuggestionsFixture()

	f.addUser(uid(1), "Mentee", &profile.Profile{Type: shared.RoleMentee, HelpAreas: "go"})
	f.addUser(uid(2), "Bookable", &profile.Profile{Type: shared.RoleMentor, Skills: "go"})
	f.addUser(uid(3), "Busy", &profile.Profile{Type: shared.RoleMentor, Skills: "go"})
	f.oracle.available[uid(2)] = true

	res, err := f.handler().Handle(context.Background(), GetSuggestionsQuery{
		ForUserID:           uid(1),
		Direction:           DirectionMentors,
		RequireAvailability: true,
	})
	require.NoError(t, err)

	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, uid(2), res.Suggestions[0].UserID)
	assert.True(t, res.Suggestions[0].HasAvailability)
	// 4 for the skill overlap plus 2 for availability.
	assert.Equal(t, 6.0, res.Suggestions[0].Score)
}

func TestGetSuggestions_MenteeDirectionSkipsAvailability(t *testing.T) {
	f := newSuggestionsFixture()

	f.addUser(uid(1), "Mentor", &profile.Profile{Type: shared.RoleMentor, Skills: "go"})
	f.addUser(uid(2), "Mentee", &profile.Profile{Type: shared.RoleMentee, HelpAreas: "go"})
	// Even with availability data present, the mentees direction
	// never consults the oracle.
	f.oracle.available[uid(2)] = true

	res, err := f.handler().Handle(context.Background(), GetSuggestionsQuery{
		ForUserID: uid(1),
		Direction: DirectionMentees,
	})
	require.NoError(t, err)

	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, uid(2), res.Suggestions[0].UserID)
	assert.Equal(t, 4.0, res.Suggestions[0].Score)
	assert.False(t, res.Suggestions[0].HasAvailability)
}

func TestGetSuggestions_LimitClamping(t *testing.T) {
	f := newSuggestionsFixture()

	f.addUser(uid(1), "Mentee", &profile.Profile{Type: shared.RoleMentee, HelpAreas: "go"})
	for i := 2; i < 62; i++ {
		f.addUser(uid(i), fmt.Sprintf("M%d", i), &profile.Profile{Type: shared.RoleMentor, Skills: "go"})
	}
	h := f.handler()

	t.Run("defaults to 12", func(t *testing.T) {
		res, err := h.Handle(context.Background(), GetSuggestionsQuery{ForUserID: uid(1), Direction: DirectionMentors})
		require.NoError(t, err)
		assert.Len(t, res.Suggestions, 12)
		assert.Equal(t, 60, res.TotalCandidates)
	})

	t.Run("caps at 50", func(t *testing.T) {
		res, err := h.Handle(context.Background(), GetSuggestionsQuery{ForUserID: uid(1), Direction: DirectionMentors, Limit: 500})
		require.NoError(t, err)
		assert.Len(t, res.Suggestions, 50)
	})

	t.Run("negative falls back to default", func(t *testing.T) {
		res, err := h.Handle(context.Background(), GetSuggestionsQuery{ForUserID: uid(1), Direction: DirectionMentors, Limit: -3})
		require.NoError(t, err)
		assert.Len(t, res.Suggestions, 12)
	})
}

func TestGetSuggestions_TieBreakIsDeterministic(t *testing.T) {
	f := newSuggestionsFixture()

	f.addUser(uid(1), "Mentee", &profile.Profile{Type: shared.RoleMentee, HelpAreas: "go"})
	for i := 9; i >= 2; i-- {
		f.addUser(uid(i), fmt.Sprintf("M%d", i), &profile.Profile{Type: shared.RoleMentor, Skills: "go"})
	}
	h := f.handler()

	first, err := h.Handle(context.Background(), GetSuggestionsQuery{ForUserID: uid(1), Direction: DirectionMentors})
	require.NoError(t, err)

	// Identical scores order by candidate id. Repeat runs must agree.
	for i := 0; i < len(first.Suggestions)-1; i++ {
		assert.Less(t, string(first.Suggestions[i].UserID), string(first.Suggestions[i+1].UserID))
	}
	for run := 0; run < 5; run++ {
		again, err := h.Handle(context.Background(), GetSuggestionsQuery{ForUserID: uid(1), Direction: DirectionMentors})
		require.NoError(t, err)
		assert.Equal(t, first.Suggestions, again.Suggestions)
	}
}

func TestGetSuggestions_ExcludesSelf(t *testing.T) {
	f := newSuggestionsFixture()

	f.addUser(uid(1), "Mentee", &profile.Profile{Type: shared.RoleMentee, HelpAreas: "go"})
	f.addUser(uid(2), "OnlyOther", &profile.Profile{Type: shared.RoleMentor, Skills: "go"})

	res, err := f.handler().Handle(context.Background(), GetSuggestionsQuery{ForUserID: uid(1), Direction: DirectionMentors})
	require.NoError(t, err)

	for _, s := range res.Suggestions {
		assert.NotEqual(t, uid(1), s.UserID)
	}
}

func TestGetSuggestions_Errors(t *testing.T) {
	f := newSuggestionsFixture()
	f.addUser(uid(1), "Mentee", &profile.Profile{Type: shared.RoleMentee})
	h := f.handler()

	t.Run("missing profile", func(t *testing.T) {
		_, err := h.Handle(context.Background(), GetSuggestionsQuery{ForUserID: uid(99), Direction: DirectionMentors})
		assert.ErrorIs(t, err, shared.ErrProfileMissing)
	})

	t.Run("role mismatch", func(t *testing.T) {
		_, err := h.Handle(context.Background(), GetSuggestionsQuery{ForUserID: uid(1), Direction: DirectionMentees})
		assert.ErrorIs(t, err, shared.ErrRoleMismatch)
	})

	t.Run("invalid direction", func(t *testing.T) {
		_, err := h.Handle(context.Background(), GetSuggestionsQuery{ForUserID: uid(1), Direction: "peers"})
		assert.ErrorIs(t, err, shared.ErrInvalidDirection)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		_, err := h.Handle(context.Background(), GetSuggestionsQuery{Direction: DirectionMentors})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestExplainMatch_FullBreakdown(t *testing.T) {
	f := newSuggestionsFixture()

	f.addUser(uid(1), "Mentee", &profile.Profile{Type: shared.RoleMentee, HelpAreas: "go"})
	f.addUser(uid(2), "Mentor", &profile.Profile{
		Type:     shared.RoleMentor,
		FullName: "Aida Mentor",
		Skills:   "go",
	})
	f.reviews.summaries[uid(2)] = &review.RatingSummary{Avg: 4, Count: 7}
	f.oracle.available[uid(2)] = true

	h := NewExplainMatchHandler(f.profiles, f.users, f.reviews,
		matching.NewScorer(matching.DefaultWeights(), f.oracle))

	res, err := h.Handle(context.Background(), ExplainMatchQuery{ForUserID: uid(1), MentorID: uid(2)})
	require.NoError(t, err)

	// 4 overlap + 2 availability as base, then 4/5*15 = 12 boost.
	assert.Equal(t, 6.0, res.BaseScore)
	assert.Equal(t, 12.0, res.RatingBoost)
	assert.Equal(t, 18.0, res.Score)
	assert.Equal(t, "Aida Mentor", res.MentorName)
	assert.True(t, res.HasAvailability)
	assert.NotEmpty(t, res.Reasons)
	assert.Equal(t, matching.DefaultWeights(), res.Weights)
	assert.Equal(t, 7, res.ReviewCount)
	assert.Equal(t, 15.0, res.RatingWeight)
}

func TestExplainMatch_UnknownMentor(t *testing.T) {
	f := newSuggestionsFixture()
	f.addUser(uid(1), "Mentee", &profile.Profile{Type: shared.RoleMentee})

	h := NewExplainMatchHandler(f.profiles, f.users, f.reviews,
		matching.NewScorer(matching.DefaultWeights(), f.oracle))

	_, err := h.Handle(context.Background(), ExplainMatchQuery{ForUserID: uid(1), MentorID: uid(42)})
	assert.ErrorIs(t, err, shared.ErrMentorNotFound)
}

func TestExplainMatch_MenteeTargetRejected(t *testing.T) {
	f := newSuggestionsFixture()
	f.addUser(uid(1), "Mentee", &profile.Profile{Type: shared.RoleMentee})
	f.addUser(uid(2), "OtherMentee", &profile.Profile{Type: shared.RoleMentee})

	h := NewExplainMatchHandler(f.profiles, f.users, f.reviews,
		matching.NewScorer(matching.DefaultWeights(), f.oracle))

	_, err := h.Handle(context.Background(), ExplainMatchQuery{ForUserID: uid(1), MentorID: uid(2)})
	assert.ErrorIs(t, err, shared.ErrMentorNotFound)
}
