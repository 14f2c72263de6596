package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorship-hub/internal/domain/availability"
	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// stubOracle returns a fixed availability answer per mentor.
type stubOracle struct {
	available map[shared.UserID]bool
	degraded  bool
}

func (o *stubOracle) HasFutureAvailability(_ context.Context, mentorID shared.UserID) availability.Check {
	return availability.Check{Available: o.available[mentorID], Degraded: o.degraded}
}

func menteeFeatures(help, interests, categories, preferred, tz string) *profile.FeatureSet {
	return profile.Features(&profile.Profile{
		Type:           shared.RoleMentee,
		HelpAreas:      help,
		Interests:      interests,
		Categories:     categories,
		PreferredTimes: preferred,
		Timezone:       tz,
	}, shared.RoleMentee)
}

func mentorFeatures(skills, expertise, categories, preferred, tz string, years int) *profile.FeatureSet {
	return profile.Features(&profile.Profile{
		Type:            shared.RoleMentor,
		Skills:          skills,
		Expertise:       expertise,
		Categories:      categories,
		PreferredTimes:  preferred,
		Timezone:        tz,
		ExperienceYears: years,
	}, shared.RoleMentor)
}

func TestScorer_ZeroOverlapScoresZero(t *testing.T) {
	s := NewScorer(DefaultWeights(), nil)

	mentee := menteeFeatures("devops", "kubernetes", "infrastructure", "", "")
	mentor := mentorFeatures("painting", "watercolor", "arts", "", "", 0)

	res := s.Score(context.Background(), mentee, mentor, Options{})

	assert.Equal(t, 0.0, res.Score)
	assert.Empty(t, res.Reasons)
	assert.False(t, res.Rejected())
}

func TestScorer_HelpAreasCountAgainstSkillsAndExpertise(t *testing.T) {
	s := NewScorer(DefaultWeights(), nil)

	// "go" appears in both skills and expertise, so help_vs_skills
	// counts it twice: 2 * 4 = 8. The expertise text also contains
	// the token "go", so the flat exact-hit bonus fires: +3.
	mentee := menteeFeatures("go", "", "", "", "")
	mentor := mentorFeatures("go,python", "go,distributed systems", "", "", "", 0)

	res := s.Score(context.Background(), mentee, mentor, Options{})

	assert.Equal(t, 11.0, res.Score)
	require.Len(t, res.Reasons, 2)
	assert.Equal(t, ReasonHelpVsSkills, res.Reasons[0].Key)
	assert.Equal(t, 2.0, res.Reasons[0].Value)
	assert.Equal(t, ReasonExpertiseExactHit, res.Reasons[1].Key)
}

func TestScorer_SingleHelpSkillOverlap(t *testing.T) {
	s := NewScorer(DefaultWeights(), nil)

	mentee := menteeFeatures("rust", "", "", "", "")
	mentor := mentorFeatures("rust", "compilers", "", "", "", 0)

	res := s.Score(context.Background(), mentee, mentor, Options{})

	assert.Equal(t, 4.0, res.Score)
}

func TestScorer_ExpertiseSubstringHitFiresOnce(t *testing.T) {
	s := NewScorer(DefaultWeights(), nil)

	// Neither token intersects exactly, but both appear as substrings
	// of the expertise text. Still one flat bonus.
	mentee := menteeFeatures("sql,testing", "", "", "", "")
	mentor := mentorFeatures("", "postgresql performance,load testing at scale", "", "", "", 0)

	res := s.Score(context.Background(), mentee, mentor, Options{})

	assert.Equal(t, 3.0, res.Score)
	require.Len(t, res.Reasons, 1)
	assert.Equal(t, ReasonExpertiseExactHit, res.Reasons[0].Key)
}

func TestScorer_ExperienceDamping(t *testing.T) {
	s := NewScorer(DefaultWeights(), nil)
	mentee := menteeFeatures("", "", "", "", "")

	cases := []struct {
		years int
		bonus float64
	}{
		{1, 0},   // round(0.25)/2
		{2, 0.5}, // round(0.5)/2, half-up
		{4, 0.5},
		{8, 1.0},
		{10, 1.5}, // round(2.5)/2
		{20, 2.5},
	}
	for _, tc := range cases {
		mentor := mentorFeatures("", "", "", "", "", tc.years)
		res := s.Score(context.Background(), mentee, mentor, Options{})
		assert.Equal(t, tc.bonus, res.Score, "years=%d", tc.years)
	}
}

func TestScorer_FlatHints(t *testing.T) {
	s := NewScorer(DefaultWeights(), nil)

	// Timezone match +1, preferred time overlap +1. Overlapping two
	// preferred slots still yields +1, the hint is flat.
	mentee := menteeFeatures("", "", "", "evenings,weekends", "asia/almaty")
	mentor := mentorFeatures("", "", "", "weekends,evenings", "asia/almaty", 0)

	res := s.Score(context.Background(), mentee, mentor, Options{})

	assert.Equal(t, 2.0, res.Score)
	require.Len(t, res.Reasons, 2)
	assert.Equal(t, ReasonTimezoneMatch, res.Reasons[0].Key)
	assert.Equal(t, ReasonPreferredTime, res.Reasons[1].Key)
}

func TestScorer_EmptyTimezonesNeverMatch(t *testing.T) {
	s := NewScorer(DefaultWeights(), nil)

	mentee := menteeFeatures("", "", "", "", "")
	mentor := mentorFeatures("", "", "", "", "", 0)

	res := s.Score(context.Background(), mentee, mentor, Options{})
	assert.Equal(t, 0.0, res.Score)
}

func TestScorer_AvailabilityBonusAndHardReject(t *testing.T) {
	mentorID := shared.UserID("7ed99bd0-87b2-4dbb-a97b-596c3f29c49b")
	mentee := menteeFeatures("go", "", "", "", "")

	mentor := mentorFeatures("go", "", "", "", "", 0)
	mentor.UserID = mentorID

	t.Run("bonus when available", func(t *testing.T) {
		oracle := &stubOracle{available: map[shared.UserID]bool{mentorID: true}}
		s := NewScorer(DefaultWeights(), oracle)

		res := s.Score(context.Background(), mentee, mentor, Options{CheckAvailability: true})

		assert.Equal(t, 6.0, res.Score)
		assert.True(t, res.HasAvailability)
	})

	t.Run("soft miss without requirement", func(t *testing.T) {
		oracle := &stubOracle{available: map[shared.UserID]bool{}}
		s := NewScorer(DefaultWeights(), oracle)

		res := s.Score(context.Background(), mentee, mentor, Options{CheckAvailability: true})

		assert.Equal(t, 4.0, res.Score)
		assert.False(t, res.HasAvailability)
		assert.False(t, res.Rejected())
	})

	t.Run("hard reject when required", func(t *testing.T) {
		oracle := &stubOracle{available: map[shared.UserID]bool{}}
		s := NewScorer(DefaultWeights(), oracle)

		res := s.Score(context.Background(), mentee, mentor, Options{
			CheckAvailability:   true,
			RequireAvailability: true,
		})

		assert.True(t, res.Rejected())
	})

	t.Run("oracle skipped when check disabled", func(t *testing.T) {
		oracle := &stubOracle{available: map[shared.UserID]bool{mentorID: true}}
		s := NewScorer(DefaultWeights(), oracle)

		res := s.Score(context.Background(), mentee, mentor, Options{RequireAvailability: true})

		assert.Equal(t, 4.0, res.Score)
		assert.False(t, res.HasAvailability)
	})
}

func TestScorer_DegradedOracleFailsOpen(t *testing.T) {
	mentorID := shared.UserID("7ed99bd0-87b2-4dbb-a97b-596c3f29c49b")
	mentee := menteeFeatures("go", "", "", "", "")
	mentor := mentorFeatures("go", "", "", "", "", 0)
	mentor.UserID = mentorID

	oracle := &stubOracle{available: map[shared.UserID]bool{mentorID: true}, degraded: true}
	s := NewScorer(DefaultWeights(), oracle)

	res := s.Score(context.Background(), mentee, mentor, Options{
		CheckAvailability:   true,
		RequireAvailability: true,
	})

	// Survives the hard filter but earns nothing from the failed
	// lookup: the score is the help/skills overlap alone.
	assert.False(t, res.Rejected())
	assert.True(t, res.AvailabilityDegraded)
	assert.False(t, res.HasAvailability)
	assert.Equal(t, 4.0, res.Score)
	require.Len(t, res.Reasons, 1)
	assert.Equal(t, ReasonHelpVsSkills, res.Reasons[0].Key)
}

func TestRatingBoost(t *testing.T) {
	assert.Equal(t, 15.0, RatingBoost(5))
	assert.Equal(t, 7.5, RatingBoost(2.5))
	assert.Equal(t, 0.0, RatingBoost(0))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 7.3, Round(7.26))
	assert.Equal(t, 7.2, Round(7.24))
	assert.Equal(t, 0.0, Round(0))
	assert.Equal(t, 11.0, Round(11.0))
}
