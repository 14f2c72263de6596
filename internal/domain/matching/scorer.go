// Package matching implements the mentor-mentee compatibility scoring
// engine. The scorer is a pure weighted heuristic over two feature sets;
// the only I/O it performs is the optional availability check.
package matching

import (
	"context"
	"math"
	"strings"

	"github.com/mentorhub/mentorship-hub/internal/domain/availability"
	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEIGHT CONFIGURATION
// The defaults are deliberately small integers so a reason list reads as
// "2 shared interests x 2 points". Tunable, not hard-coded.
// ══════════════════════════════════════════════════════════════════════════════

// Weights holds the contribution of each scoring signal.
type Weights struct {
	// HelpVsSkills - per token of mentee help areas found in the
	// mentor's skills or expertise. The strongest signal.
	HelpVsSkills float64 `json:"overlap_help_vs_skills"`

	// InterestsVsSkills - per token of mentee interests found in the
	// mentor's skills.
	InterestsVsSkills float64 `json:"overlap_interests_vs_skills"`

	// CategoriesOverlap - per shared category token.
	CategoriesOverlap float64 `json:"overlap_categories"`

	// ExpertiseExactHit - flat bonus when the mentor's expertise text
	// contains any mentee help-area token as a substring. Fires once.
	ExpertiseExactHit float64 `json:"expertise_exact_hit"`

	// ExperienceYears - base for the experience bonus. The bonus is
	// damped: round(years/4 * base*2) / 2, so doubling years does not
	// double the contribution.
	ExperienceYears float64 `json:"experience_years"`

	// AvailabilityAnyFuture - flat bonus for having any bookable
	// future slot.
	AvailabilityAnyFuture float64 `json:"availability_any_future"`

	// TimezoneHint - flat bonus for an exact timezone match.
	TimezoneHint float64 `json:"timezone_hint"`

	// PreferredTimeHint - flat bonus for any preferred-time overlap.
	PreferredTimeHint float64 `json:"preferred_time_hint"`
}

// DefaultWeights returns the production weight table.
func DefaultWeights() Weights {
	return Weights{
		HelpVsSkills:          4,
		InterestsVsSkills:     2,
		CategoriesOverlap:     3,
		ExpertiseExactHit:     3,
		ExperienceYears:       0.5, // 2 extra points per +4 yrs
		AvailabilityAnyFuture: 2,
		TimezoneHint:          1,
		PreferredTimeHint:     1,
	}
}

// RatingWeight is how much an average rating (out of 5) boosts the final
// score. Applied by the ranker after scoring, never by the scorer.
const RatingWeight = 15.0

// ══════════════════════════════════════════════════════════════════════════════
// REASONS
// ══════════════════════════════════════════════════════════════════════════════

// Reason codes, in the order signals are evaluated.
const (
	ReasonHelpVsSkills      = "help_vs_skills"
	ReasonInterestsVsSkills = "interests_vs_skills"
	ReasonCategoriesOverlap = "categories_overlap"
	ReasonExpertiseExactHit = "expertise_exact_hit"
	ReasonExperienceYears   = "experience_years"
	ReasonTimezoneMatch     = "timezone_match"
	ReasonPreferredTime     = "preferred_time_overlap"
	ReasonAvailability      = "availability_any_future"
)

// Reason is one itemized score contribution. The wire shape {k, v, w}
// is what clients already render.
type Reason struct {
	Key    string  `json:"k"`
	Value  float64 `json:"v"`
	Weight float64 `json:"w"`
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORER
// ══════════════════════════════════════════════════════════════════════════════

// Options controls a single scoring call.
type Options struct {
	// RequireAvailability hard-rejects mentors without a bookable
	// future slot instead of merely scoring them lower.
	RequireAvailability bool

	// CheckAvailability controls whether the oracle is consulted at
	// all. Mentee-direction ranking turns this off.
	CheckAvailability bool
}

// Result is the outcome of scoring one mentee/mentor pair.
type Result struct {
	// Score is the raw additive score, full precision. Present with
	// Round before showing it to anyone.
	Score float64

	// Reasons itemizes every signal that contributed.
	Reasons []Reason

	// HasAvailability is the oracle's answer (false when not consulted).
	HasAvailability bool

	// AvailabilityDegraded is set when the availability answer came
	// from a failed lookup rather than real data.
	AvailabilityDegraded bool
}

// Rejected reports whether the pair was hard-rejected by the
// availability filter. Rejected results never reach the ranked output.
func (r Result) Rejected() bool {
	return math.IsInf(r.Score, -1)
}

// Scorer computes compatibility scores between feature sets.
type Scorer struct {
	weights Weights
	oracle  availability.Oracle
}

// NewScorer creates a scorer with the given weights and oracle. The
// oracle may be nil when availability is never checked.
func NewScorer(weights Weights, oracle availability.Oracle) *Scorer {
	return &Scorer{weights: weights, oracle: oracle}
}

// Weights returns the active weight table.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score computes the weighted compatibility of a mentee/mentor pair.
// The summation is additive and order-independent; each signal either
// contributes and appends a reason, or stays silent.
func (s *Scorer) Score(ctx context.Context, mentee, mentor *profile.FeatureSet, opts Options) Result {
	var (
		score   float64
		reasons []Reason
	)

	// Tag overlap signals.
	helpVsSkills := mentee.HelpAreas.IntersectCount(mentor.Skills) +
		mentee.HelpAreas.IntersectCount(mentor.Expertise)
	if helpVsSkills > 0 {
		score += float64(helpVsSkills) * s.weights.HelpVsSkills
		reasons = append(reasons, Reason{ReasonHelpVsSkills, float64(helpVsSkills), s.weights.HelpVsSkills})
	}

	interestsVsSkills := mentee.Interests.IntersectCount(mentor.Skills)
	if interestsVsSkills > 0 {
		score += float64(interestsVsSkills) * s.weights.InterestsVsSkills
		reasons = append(reasons, Reason{ReasonInterestsVsSkills, float64(interestsVsSkills), s.weights.InterestsVsSkills})
	}

	categories := mentee.Categories.IntersectCount(mentor.Categories)
	if categories > 0 {
		score += float64(categories) * s.weights.CategoriesOverlap
		reasons = append(reasons, Reason{ReasonCategoriesOverlap, float64(categories), s.weights.CategoriesOverlap})
	}

	// Substring heuristic: fires once however many help areas match.
	if containsAnyToken(mentor.Expertise.Join(), mentee.HelpAreas) {
		score += s.weights.ExpertiseExactHit
		reasons = append(reasons, Reason{ReasonExpertiseExactHit, 1, s.weights.ExpertiseExactHit})
	}

	// Experience, gently damped. Fewer than two years rounds to
	// nothing and emits no reason.
	if bonus := s.experienceBonus(mentor.ExperienceYears); bonus > 0 {
		score += bonus
		reasons = append(reasons, Reason{ReasonExperienceYears, float64(mentor.ExperienceYears), bonus})
	}

	// Timezone / preferred time nudges.
	if mentee.Timezone != "" && mentee.Timezone == mentor.Timezone {
		score += s.weights.TimezoneHint
		reasons = append(reasons, Reason{ReasonTimezoneMatch, 1, s.weights.TimezoneHint})
	}
	if mentee.PreferredTimes.IntersectCount(mentor.PreferredTimes) > 0 {
		score += s.weights.PreferredTimeHint
		reasons = append(reasons, Reason{ReasonPreferredTime, 1, s.weights.PreferredTimeHint})
	}

	// Availability, optionally a hard filter. A degraded lookup is an
	// error, not an answer: it contributes no bonus and no reason, and
	// it exempts the mentor from the hard filter because a store outage
	// is not evidence of an empty calendar.
	result := Result{Reasons: reasons}
	if opts.CheckAvailability && s.oracle != nil {
		check := s.oracle.HasFutureAvailability(ctx, mentor.UserID)
		result.AvailabilityDegraded = check.Degraded
		result.HasAvailability = check.Available && !check.Degraded

		if result.HasAvailability {
			score += s.weights.AvailabilityAnyFuture
			result.Reasons = append(result.Reasons, Reason{ReasonAvailability, 1, s.weights.AvailabilityAnyFuture})
		} else if opts.RequireAvailability && !check.Degraded {
			result.Score = math.Inf(-1)
			return result
		}
	}

	result.Score = score
	return result
}

// experienceBonus scales years into a bonus rounded to the nearest half
// point: round(years/4 * base*2) / 2.
func (s *Scorer) experienceBonus(years int) float64 {
	return math.Round(float64(years)/4*(s.weights.ExperienceYears*2)) / 2
}

// RatingBoost converts an average rating (0-5) into a post-hoc score
// addition. No reviews means no boost, never a penalty.
func RatingBoost(avg float64) float64 {
	return avg / 5 * RatingWeight
}

// Round rounds a score to one decimal place for presentation. Internal
// accumulation keeps full precision.
func Round(score float64) float64 {
	return math.Round(score*10) / 10
}

// containsAnyToken reports whether haystack contains any token of the
// set as a substring. Both sides are already lower-cased.
func containsAnyToken(haystack string, tokens profile.TagSet) bool {
	if haystack == "" {
		return false
	}
	for token := range tokens {
		if token == "" {
			continue
		}
		if strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}
