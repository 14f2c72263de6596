package command

import (
	"context"
	"strings"
	"time"

	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE COMMAND
// Upserts the caller's profile. The stored type always comes from the
// account role, never from client input, so a tampered payload cannot
// put a mentee into the mentor pool.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand carries the full replacement profile.
type UpdateProfileCommand struct {
	// UserID - the authenticated owner.
	UserID shared.UserID

	FullName   string
	Headline   string
	Bio        string
	Background string
	Goals      string

	// Tag fields, comma separated.
	Expertise      string
	Skills         string
	Interests      string
	HelpAreas      string
	Categories     string
	PreferredTimes string

	Timezone        string
	ExperienceYears int
	HourlyRate      float64
}

// UpdateProfileHandler upserts profiles.
type UpdateProfileHandler struct {
	profileRepo profile.Repository
	userRepo    profile.UserRepository
}

// NewUpdateProfileHandler creates a new handler.
func NewUpdateProfileHandler(profileRepo profile.Repository, userRepo profile.UserRepository) *UpdateProfileHandler {
	return &UpdateProfileHandler{profileRepo: profileRepo, userRepo: userRepo}
}

// Handle builds the profile from the command and the account role, then
// upserts it.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*profile.Profile, error) {
	if cmd.UserID.IsEmpty() {
		return nil, shared.ErrUnauthorized
	}

	user, err := h.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, shared.WrapError("command", "UpdateProfile", shared.ErrPersistence, "failed to resolve account", err)
	}

	years := cmd.ExperienceYears
	if years < 0 {
		years = 0
	}

	p := &profile.Profile{
		UserID:          cmd.UserID,
		Type:            user.Role,
		FullName:        strings.TrimSpace(cmd.FullName),
		Headline:        strings.TrimSpace(cmd.Headline),
		Bio:             cmd.Bio,
		Background:      cmd.Background,
		Goals:           cmd.Goals,
		Expertise:       cmd.Expertise,
		Skills:          cmd.Skills,
		Interests:       cmd.Interests,
		HelpAreas:       cmd.HelpAreas,
		Categories:      cmd.Categories,
		PreferredTimes:  cmd.PreferredTimes,
		Timezone:        strings.TrimSpace(cmd.Timezone),
		ExperienceYears: years,
		HourlyRate:      cmd.HourlyRate,
		UpdatedAt:       time.Now().UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := h.profileRepo.Upsert(ctx, p); err != nil {
		return nil, shared.WrapError("command", "UpdateProfile", shared.ErrPersistence, "failed to store profile", err)
	}
	return p, nil
}
