package profile

import (
	"strconv"
	"strings"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// FEATURE EXTRACTION
// A FeatureSet is the ephemeral, normalized view of a profile the scorer
// works on. Built per scoring call, discarded after use, never persisted.
// Malformed input degrades to empty sets; extraction cannot fail.
// ══════════════════════════════════════════════════════════════════════════════

// TagSet is a set of lower-cased, trimmed, deduplicated tokens.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from a comma-separated string.
func NewTagSet(csv string) TagSet {
	set := make(TagSet)
	for _, raw := range strings.Split(csv, ",") {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

// Has reports whether the token is in the set.
func (s TagSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of tokens.
func (s TagSet) Len() int {
	return len(s)
}

// IntersectCount returns the number of tokens present in both sets.
func (s TagSet) IntersectCount(other TagSet) int {
	if len(s) == 0 || len(other) == 0 {
		return 0
	}
	// Iterate the smaller set.
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	count := 0
	for token := range small {
		if large.Has(token) {
			count++
		}
	}
	return count
}

// Tokens returns the tokens as a slice (order unspecified).
func (s TagSet) Tokens() []string {
	tokens := make([]string, 0, len(s))
	for token := range s {
		tokens = append(tokens, token)
	}
	return tokens
}

// Join returns the tokens joined with a single space (order unspecified).
func (s TagSet) Join() string {
	return strings.Join(s.Tokens(), " ")
}

// FeatureSet is the normalized representation of a profile used only for
// scoring. UserID is attached by the caller after construction; the
// extractor itself does not know the owning user.
type FeatureSet struct {
	UserID shared.UserID
	Role   shared.Role

	Expertise      TagSet
	Skills         TagSet
	Interests      TagSet
	HelpAreas      TagSet
	Categories     TagSet
	PreferredTimes TagSet

	// Timezone, lower-cased. Empty timezones never match.
	Timezone string

	ExperienceYears int
}

// Features extracts a FeatureSet from a profile for the given role.
func Features(p *Profile, role shared.Role) *FeatureSet {
	if p == nil {
		p = &Profile{}
	}
	return &FeatureSet{
		Role:            role,
		Expertise:       NewTagSet(p.Expertise),
		Skills:          NewTagSet(p.Skills),
		Interests:       NewTagSet(p.Interests),
		HelpAreas:       NewTagSet(p.HelpAreas),
		Categories:      NewTagSet(p.Categories),
		PreferredTimes:  NewTagSet(p.PreferredTimes),
		Timezone:        strings.ToLower(strings.TrimSpace(p.Timezone)),
		ExperienceYears: nonNegative(p.ExperienceYears),
	}
}

// ParseExperienceYears parses a raw experience value, defaulting to 0 on
// any parse failure or negative input.
func ParseExperienceYears(raw string) int {
	years, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return nonNegative(years)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
