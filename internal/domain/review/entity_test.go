package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

const (
	mentorID = shared.UserID("7ed99bd0-87b2-4dbb-a97b-596c3f29c49b")
	menteeID = shared.UserID("9ca4322d-ebd5-4ffa-a340-56fe811bbab1")
)

func TestNewReview_ClampsRating(t *testing.T) {
	tests := []struct {
		name string
		in   shared.Rating
		want shared.Rating
	}{
		{"below minimum", 0, 1},
		{"above maximum", 9, 5},
		{"in range", 4.5, 4.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReview(mentorID, menteeID, tt.in, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Rating)
		})
	}
}

func TestNewReview_RejectsSelfReview(t *testing.T) {
	_, err := NewReview(mentorID, mentorID, 5, "")
	assert.ErrorIs(t, err, shared.ErrSelfReview)
}

func TestNewReview_RequiresBothParties(t *testing.T) {
	_, err := NewReview("", menteeID, 5, "")
	assert.Error(t, err)

	_, err = NewReview(mentorID, "", 5, "")
	assert.Error(t, err)
}
