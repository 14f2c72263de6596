package query

import (
	"context"
	"time"

	"github.com/mentorhub/mentorship-hub/internal/domain/matching"
	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/review"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPLAIN MATCH QUERY
// Full scoring transparency for a single mentee/mentor pair: the
// itemized reasons, the active weight table and the rating boost, so a
// user can see exactly why a mentor was (or was not) suggested.
// ══════════════════════════════════════════════════════════════════════════════

// ExplainMatchQuery identifies the pair to explain.
type ExplainMatchQuery struct {
	// ForUserID - the calling mentee.
	ForUserID shared.UserID

	// MentorID - the mentor under explanation.
	MentorID shared.UserID
}

// Validate checks both parties are identified and distinct.
func (q *ExplainMatchQuery) Validate() error {
	if q.ForUserID.IsEmpty() {
		return shared.ErrUnauthorized
	}
	if q.MentorID.IsEmpty() {
		return shared.ErrInvalidInput
	}
	if q.ForUserID == q.MentorID {
		return shared.ErrInvalidInput
	}
	return nil
}

// ExplainMatchResult is the full score breakdown for one pair.
type ExplainMatchResult struct {
	// MentorID - the explained mentor.
	MentorID shared.UserID `json:"mentor_id"`

	// MentorName - display name of the mentor.
	MentorName string `json:"mentor_name"`

	// Score - final presented score including the rating boost,
	// rounded to one decimal.
	Score float64 `json:"score"`

	// BaseScore - compatibility score before the rating boost.
	BaseScore float64 `json:"base_score"`

	// Reasons - every signal that contributed.
	Reasons []matching.Reason `json:"reasons"`

	// Weights - the weight table the reasons were computed with.
	Weights matching.Weights `json:"weights"`

	// Rating - the mentor's review summary, nil when unreviewed.
	Rating *review.RatingSummary `json:"rating,omitempty"`

	// ReviewCount - number of reviews behind the rating.
	ReviewCount int `json:"review_count"`

	// RatingWeight - the maximum score a perfect rating can add.
	RatingWeight float64 `json:"rating_weight"`

	// RatingBoost - score added by the rating, zero when unreviewed.
	RatingBoost float64 `json:"rating_boost"`

	// HasAvailability - whether the mentor has a bookable future slot.
	HasAvailability bool `json:"has_availability"`

	// AvailabilityDegraded - true when the availability lookup failed
	// and the answer above is a fail-open default.
	AvailabilityDegraded bool `json:"availability_degraded,omitempty"`

	// GeneratedAt - when the explanation was computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// ExplainMatchHandler explains a single pair score.
type ExplainMatchHandler struct {
	profileRepo profile.Repository
	userRepo    profile.UserRepository
	reviewRepo  review.Repository
	scorer      *matching.Scorer
}

// NewExplainMatchHandler creates a new handler.
func NewExplainMatchHandler(
	profileRepo profile.Repository,
	userRepo profile.UserRepository,
	reviewRepo review.Repository,
	scorer *matching.Scorer,
) *ExplainMatchHandler {
	return &ExplainMatchHandler{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		reviewRepo:  reviewRepo,
		scorer:      scorer,
	}
}

// Handle computes the explanation.
func (h *ExplainMatchHandler) Handle(ctx context.Context, query ExplainMatchQuery) (*ExplainMatchResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ownProfile, err := h.profileRepo.GetByUserID(ctx, query.ForUserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrProfileMissing
		}
		return nil, shared.WrapError("query", "ExplainMatch", shared.ErrPersistence, "failed to load caller profile", err)
	}

	mentorProfile, err := h.profileRepo.GetByUserID(ctx, query.MentorID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrMentorNotFound
		}
		return nil, shared.WrapError("query", "ExplainMatch", shared.ErrPersistence, "failed to load mentor profile", err)
	}
	if mentorProfile.Type != shared.RoleMentor {
		return nil, shared.ErrMentorNotFound
	}

	menteeF := profile.Features(ownProfile, shared.RoleMentee)
	menteeF.UserID = ownProfile.UserID
	mentorF := profile.Features(mentorProfile, shared.RoleMentor)
	mentorF.UserID = mentorProfile.UserID

	// Explanations never hard-reject, the point is to show the score
	// even when it is poor.
	res := h.scorer.Score(ctx, menteeF, mentorF, matching.Options{CheckAvailability: true})

	reasons := res.Reasons
	if reasons == nil {
		reasons = []matching.Reason{}
	}

	result := &ExplainMatchResult{
		MentorID:             query.MentorID,
		MentorName:           mentorProfile.FullName,
		BaseScore:            matching.Round(res.Score),
		Reasons:              reasons,
		Weights:              h.scorer.Weights(),
		RatingWeight:         matching.RatingWeight,
		HasAvailability:      res.HasAvailability,
		AvailabilityDegraded: res.AvailabilityDegraded,
		GeneratedAt:          time.Now().UTC(),
	}

	score := res.Score
	summary, err := h.reviewRepo.AggregateByMentor(ctx, query.MentorID)
	if err != nil {
		return nil, shared.WrapError("query", "ExplainMatch", shared.ErrPersistence, "failed to load rating", err)
	}
	if summary != nil {
		result.Rating = summary
		result.ReviewCount = summary.Count
		result.RatingBoost = matching.RatingBoost(summary.Avg)
		score += result.RatingBoost
	}
	result.Score = matching.Round(score)

	if result.MentorName == "" {
		if user, err := h.userRepo.GetByID(ctx, query.MentorID); err == nil {
			result.MentorName = user.Name
		}
	}

	return result, nil
}
