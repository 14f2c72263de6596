// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"sort"
	"time"

	"github.com/mentorhub/mentorship-hub/internal/domain/matching"
	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/review"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SUGGESTIONS QUERY
// Ranks the opposite side of the marketplace for the calling user. This
// is the core read of the platform: a mentee gets mentors ordered by
// compatibility, a mentor gets mentees worth reaching out to.
// ══════════════════════════════════════════════════════════════════════════════

// Ranking directions.
const (
	DirectionMentors = "mentors"
	DirectionMentees = "mentees"
)

// Limit bounds for a single suggestions page.
const (
	DefaultSuggestionLimit = 12
	MaxSuggestionLimit     = 50
)

// GetSuggestionsQuery contains the ranking parameters.
type GetSuggestionsQuery struct {
	// ForUserID - the calling user whose profile anchors the ranking.
	ForUserID shared.UserID

	// Direction - which side of the marketplace to rank, "mentors"
	// or "mentees".
	Direction string

	// Limit - maximum number of results. Clamped to [1, 50],
	// defaults to 12.
	Limit int

	// RequireAvailability - drop mentors without a bookable future
	// slot instead of just ranking them lower. Only meaningful for
	// the mentors direction.
	RequireAvailability bool
}

// Validate checks parameters and normalizes the limit in place.
func (q *GetSuggestionsQuery) Validate() error {
	if q.ForUserID.IsEmpty() {
		return shared.ErrUnauthorized
	}
	if q.Direction != DirectionMentors && q.Direction != DirectionMentees {
		return shared.ErrInvalidDirection
	}
	if q.Limit <= 0 {
		q.Limit = DefaultSuggestionLimit
	}
	if q.Limit > MaxSuggestionLimit {
		q.Limit = MaxSuggestionLimit
	}
	return nil
}

// SuggestionDTO is one ranked candidate.
type SuggestionDTO struct {
	// UserID - the candidate's id.
	UserID shared.UserID `json:"user_id"`

	// Name - display name, profile full name first, account name as
	// fallback.
	Name string `json:"name"`

	// Avatar - avatar URL, may be empty.
	Avatar string `json:"avatar,omitempty"`

	// Headline - short profile tagline.
	Headline string `json:"headline,omitempty"`

	// Score - final presented score, rounded to one decimal.
	Score float64 `json:"score"`

	// Reasons - itemized contributions behind the score.
	Reasons []matching.Reason `json:"reasons"`

	// HasAvailability - whether the candidate has a bookable future
	// slot. Always false in the mentees direction, availability is
	// not consulted there.
	HasAvailability bool `json:"has_availability"`

	// Rating - aggregated review rating, nil when unreviewed.
	Rating *review.RatingSummary `json:"rating,omitempty"`

	// ReviewCount - number of reviews behind the rating.
	ReviewCount int `json:"review_count"`
}

// SuggestionsResult is the ranked page plus ranking context.
type SuggestionsResult struct {
	// Direction echoes the requested direction.
	Direction string `json:"direction"`

	// Suggestions - the ranked page, best first.
	Suggestions []SuggestionDTO `json:"suggestions"`

	// TotalCandidates - pool size before rejection and the limit.
	TotalCandidates int `json:"total_candidates"`

	// AvailabilityDegraded - true when at least one availability
	// lookup failed and the filter ran fail-open.
	AvailabilityDegraded bool `json:"availability_degraded,omitempty"`

	// GeneratedAt - when the ranking was computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetSuggestionsHandler ranks candidates for the calling user.
type GetSuggestionsHandler struct {
	profileRepo profile.Repository
	userRepo    profile.UserRepository
	reviewRepo  review.Repository
	scorer      *matching.Scorer
}

// NewGetSuggestionsHandler creates a new handler.
func NewGetSuggestionsHandler(
	profileRepo profile.Repository,
	userRepo profile.UserRepository,
	reviewRepo review.Repository,
	scorer *matching.Scorer,
) *GetSuggestionsHandler {
	return &GetSuggestionsHandler{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		reviewRepo:  reviewRepo,
		scorer:      scorer,
	}
}

// Handle computes the ranked suggestions page.
func (h *GetSuggestionsHandler) Handle(ctx context.Context, query GetSuggestionsQuery) (*SuggestionsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	// The caller must have completed onboarding before ranking makes
	// any sense.
	ownProfile, err := h.profileRepo.GetByUserID(ctx, query.ForUserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrProfileMissing
		}
		return nil, shared.WrapError("query", "GetSuggestions", shared.ErrPersistence, "failed to load caller profile", err)
	}

	candidateRole, err := candidateRoleFor(ownProfile.Type, query.Direction)
	if err != nil {
		return nil, err
	}

	candidates, err := h.profileRepo.ListByType(ctx, candidateRole)
	if err != nil {
		return nil, shared.WrapError("query", "GetSuggestions", shared.ErrPersistence, "failed to load candidate pool", err)
	}

	scored, degraded := h.scoreCandidates(ctx, ownProfile, candidates, query)

	// Mentor-direction results get the post-hoc rating boost before
	// the final sort, so well reviewed mentors surface first.
	if query.Direction == DirectionMentors {
		if err := h.applyRatings(ctx, scored); err != nil {
			return nil, err
		}
	}

	sortSuggestions(scored)

	totalCandidates := len(scored)
	if len(scored) > query.Limit {
		scored = scored[:query.Limit]
	}

	// Presented scores are rounded, internal math never is.
	for i := range scored {
		scored[i].Score = matching.Round(scored[i].Score)
	}

	if err := h.attachIdentities(ctx, scored); err != nil {
		return nil, err
	}

	return &SuggestionsResult{
		Direction:            query.Direction,
		Suggestions:          scored,
		TotalCandidates:      totalCandidates,
		AvailabilityDegraded: degraded,
		GeneratedAt:          time.Now().UTC(),
	}, nil
}

// candidateRoleFor resolves the candidate pool role and guards against
// a caller asking for their own side of the marketplace.
func candidateRoleFor(callerType shared.Role, direction string) (shared.Role, error) {
	switch direction {
	case DirectionMentors:
		if callerType != shared.RoleMentee {
			return "", shared.ErrRoleMismatch
		}
		return shared.RoleMentor, nil
	case DirectionMentees:
		if callerType != shared.RoleMentor {
			return "", shared.ErrRoleMismatch
		}
		return shared.RoleMentee, nil
	default:
		return "", shared.ErrInvalidDirection
	}
}

// scoreCandidates runs the scorer over the pool. The mentee side of
// each pair is always whoever is looking for help, regardless of which
// direction the caller asked for.
func (h *GetSuggestionsHandler) scoreCandidates(
	ctx context.Context,
	own *profile.Profile,
	candidates []*profile.Profile,
	query GetSuggestionsQuery,
) ([]SuggestionDTO, bool) {
	ownMentee := query.Direction == DirectionMentors

	var ownFeatures *profile.FeatureSet
	if ownMentee {
		ownFeatures = profile.Features(own, shared.RoleMentee)
	} else {
		ownFeatures = profile.Features(own, shared.RoleMentor)
	}
	ownFeatures.UserID = own.UserID

	opts := matching.Options{}
	if ownMentee {
		// Availability only matters when ranking mentors.
		opts.CheckAvailability = true
		opts.RequireAvailability = query.RequireAvailability
	}

	scored := make([]SuggestionDTO, 0, len(candidates))
	degraded := false

	for _, cand := range candidates {
		if cand.UserID == own.UserID {
			continue
		}

		var menteeF, mentorF *profile.FeatureSet
		if ownMentee {
			menteeF = ownFeatures
			mentorF = profile.Features(cand, shared.RoleMentor)
			mentorF.UserID = cand.UserID
		} else {
			menteeF = profile.Features(cand, shared.RoleMentee)
			menteeF.UserID = cand.UserID
			mentorF = ownFeatures
		}

		res := h.scorer.Score(ctx, menteeF, mentorF, opts)
		if res.Rejected() {
			continue
		}
		if res.AvailabilityDegraded {
			degraded = true
		}

		reasons := res.Reasons
		if reasons == nil {
			reasons = []matching.Reason{}
		}

		scored = append(scored, SuggestionDTO{
			UserID:          cand.UserID,
			Headline:        cand.Headline,
			Name:            cand.FullName,
			Score:           res.Score,
			Reasons:         reasons,
			HasAvailability: res.HasAvailability,
		})
	}

	return scored, degraded
}

// applyRatings attaches review summaries and boosts scores by the
// normalized average. Unreviewed mentors keep their raw score.
func (h *GetSuggestionsHandler) applyRatings(ctx context.Context, scored []SuggestionDTO) error {
	if len(scored) == 0 {
		return nil
	}

	ids := make([]shared.UserID, 0, len(scored))
	for _, s := range scored {
		ids = append(ids, s.UserID)
	}

	summaries, err := h.reviewRepo.AggregateByMentors(ctx, ids)
	if err != nil {
		return shared.WrapError("query", "GetSuggestions", shared.ErrPersistence, "failed to load ratings", err)
	}

	for i := range scored {
		summary, ok := summaries[scored[i].UserID]
		if !ok || summary == nil {
			continue
		}
		scored[i].Rating = summary
		scored[i].ReviewCount = summary.Count
		scored[i].Score += matching.RatingBoost(summary.Avg)
	}
	return nil
}

// attachIdentities fills display names and avatars from accounts.
// Profile full name wins when set.
func (h *GetSuggestionsHandler) attachIdentities(ctx context.Context, scored []SuggestionDTO) error {
	if len(scored) == 0 {
		return nil
	}

	ids := make([]shared.UserID, 0, len(scored))
	for _, s := range scored {
		ids = append(ids, s.UserID)
	}

	users, err := h.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return shared.WrapError("query", "GetSuggestions", shared.ErrPersistence, "failed to load accounts", err)
	}

	for i := range scored {
		user, ok := users[scored[i].UserID]
		if !ok {
			continue
		}
		if scored[i].Name == "" {
			scored[i].Name = user.Name
		}
		scored[i].Avatar = user.Avatar
	}
	return nil
}

// sortSuggestions orders by score descending; equal scores fall back
// to candidate id ascending so pagination stays deterministic.
func sortSuggestions(scored []SuggestionDTO) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].UserID < scored[j].UserID
	})
}
