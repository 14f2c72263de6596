package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

type fakeProfileRepo struct {
	profiles map[shared.UserID]*profile.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[shared.UserID]*profile.Profile{}}
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, id shared.UserID) (*profile.Profile, error) {
	if p, ok := r.profiles[id]; ok {
		return p, nil
	}
	return nil, shared.ErrProfileNotFound
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p *profile.Profile) error {
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeProfileRepo) ListByType(_ context.Context, t shared.Role) ([]*profile.Profile, error) {
	var out []*profile.Profile
	for _, p := range r.profiles {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestUpdateProfile_TypeFollowsAccountRole(t *testing.T) {
	users := &stubUserRepo{users: map[shared.UserID]*profile.User{
		bobID: {ID: bobID, Name: "Bob", Role: shared.RoleMentor},
	}}
	repo := newFakeProfileRepo()
	handler := NewUpdateProfileHandler(repo, users)

	p, err := handler.Handle(context.Background(), UpdateProfileCommand{
		UserID:          bobID,
		FullName:        "  Bob Mentor  ",
		Skills:          "go,sql",
		ExperienceYears: -3,
	})
	require.NoError(t, err)

	// The stored type comes from the account, never the payload.
	assert.Equal(t, shared.RoleMentor, p.Type)
	assert.Equal(t, "Bob Mentor", p.FullName)
	assert.Equal(t, 0, p.ExperienceYears)

	stored, err := repo.GetByUserID(context.Background(), bobID)
	require.NoError(t, err)
	assert.Equal(t, "go,sql", stored.Skills)
}

func TestUpdateProfile_ReplacesExisting(t *testing.T) {
	users := &stubUserRepo{users: map[shared.UserID]*profile.User{
		aliceID: {ID: aliceID, Name: "Alice", Role: shared.RoleMentee},
	}}
	repo := newFakeProfileRepo()
	handler := NewUpdateProfileHandler(repo, users)

	_, err := handler.Handle(context.Background(), UpdateProfileCommand{
		UserID: aliceID, Headline: "old", HelpAreas: "go",
	})
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), UpdateProfileCommand{
		UserID: aliceID, Headline: "new",
	})
	require.NoError(t, err)

	stored, err := repo.GetByUserID(context.Background(), aliceID)
	require.NoError(t, err)
	assert.Equal(t, "new", stored.Headline)
	assert.Empty(t, stored.HelpAreas)
}

func TestUpdateProfile_Rejections(t *testing.T) {
	users := &stubUserRepo{users: map[shared.UserID]*profile.User{}}
	handler := NewUpdateProfileHandler(newFakeProfileRepo(), users)

	_, err := handler.Handle(context.Background(), UpdateProfileCommand{})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = handler.Handle(context.Background(), UpdateProfileCommand{UserID: aliceID})
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}
