package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

func TestNewTagSet_Normalization(t *testing.T) {
	set := NewTagSet(" React ,node, ,REACT,Go ")

	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Has("react"))
	assert.True(t, set.Has("node"))
	assert.True(t, set.Has("go"))
	assert.False(t, set.Has("React"))
}

func TestNewTagSet_Empty(t *testing.T) {
	assert.Equal(t, 0, NewTagSet("").Len())
	assert.Equal(t, 0, NewTagSet(" , ,, ").Len())
}

func TestTagSet_IntersectCount(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"no overlap", "react,node", "python,rust", 0},
		{"single overlap", "react,node", "react,python", 1},
		{"full overlap", "react,node", "node,react", 2},
		{"empty left", "", "react", 0},
		{"empty right", "react", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTagSet(tt.a).IntersectCount(NewTagSet(tt.b))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeatures_NormalizesProfile(t *testing.T) {
	p := &Profile{
		Skills:          "React, Node ,  ",
		Expertise:       "Backend",
		Timezone:        " Asia/Kolkata ",
		ExperienceYears: 6,
	}

	f := Features(p, shared.RoleMentor)

	assert.Equal(t, shared.RoleMentor, f.Role)
	assert.True(t, f.Skills.Has("react"))
	assert.True(t, f.Skills.Has("node"))
	assert.True(t, f.Expertise.Has("backend"))
	assert.Equal(t, "asia/kolkata", f.Timezone)
	assert.Equal(t, 6, f.ExperienceYears)

	// The extractor never sets the owner id; the caller does.
	assert.True(t, f.UserID.IsEmpty())
}

func TestFeatures_MalformedInputDegrades(t *testing.T) {
	f := Features(nil, shared.RoleMentee)

	assert.Equal(t, 0, f.Skills.Len())
	assert.Equal(t, 0, f.HelpAreas.Len())
	assert.Equal(t, "", f.Timezone)
	assert.Equal(t, 0, f.ExperienceYears)
}

func TestFeatures_NegativeExperienceDefaultsToZero(t *testing.T) {
	f := Features(&Profile{ExperienceYears: -3}, shared.RoleMentor)
	assert.Equal(t, 0, f.ExperienceYears)
}

func TestParseExperienceYears(t *testing.T) {
	assert.Equal(t, 8, ParseExperienceYears(" 8 "))
	assert.Equal(t, 0, ParseExperienceYears("eight"))
	assert.Equal(t, 0, ParseExperienceYears(""))
	assert.Equal(t, 0, ParseExperienceYears("-2"))
}
