package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// ProfileRepository implements profile.Repository. It holds the full
// connection rather than a bare querier because Upsert needs its own
// transaction.
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a repository over the connection.
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

const profileColumns = `user_id, type, full_name, headline, bio, background, goals,
	expertise, skills, interests, help_areas, categories, preferred_times,
	timezone, experience_years, hourly_rate, created_at, updated_at`

// GetByUserID returns the profile for a user.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID shared.UserID) (*profile.Profile, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, string(userID))

	p, err := scanProfile(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProfileNotFound
		}
		return nil, shared.WrapError("postgres", "GetProfile", shared.ErrPersistence, "query failed", err)
	}
	return p, nil
}

// Upsert writes the profile, re-reading the owner's role inside the
// same transaction. Whatever type the caller set is overwritten, the
// account row is the source of truth.
func (r *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		var role string
		err := tx.QueryRow(ctx,
			`SELECT role FROM users WHERE id = $1 FOR UPDATE`, string(p.UserID)).Scan(&role)
		if err != nil {
			if IsNoRows(err) {
				return shared.ErrUserNotFound
			}
			return shared.WrapError("postgres", "UpsertProfile", shared.ErrPersistence, "role lookup failed", err)
		}
		p.Type = shared.Role(role)

		now := time.Now().UTC()
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO profiles (`+profileColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			ON CONFLICT (user_id) DO UPDATE SET
				type = EXCLUDED.type,
				full_name = EXCLUDED.full_name,
				headline = EXCLUDED.headline,
				bio = EXCLUDED.bio,
				background = EXCLUDED.background,
				goals = EXCLUDED.goals,
				expertise = EXCLUDED.expertise,
				skills = EXCLUDED.skills,
				interests = EXCLUDED.interests,
				help_areas = EXCLUDED.help_areas,
				categories = EXCLUDED.categories,
				preferred_times = EXCLUDED.preferred_times,
				timezone = EXCLUDED.timezone,
				experience_years = EXCLUDED.experience_years,
				hourly_rate = EXCLUDED.hourly_rate,
				updated_at = EXCLUDED.updated_at`,
			string(p.UserID), string(p.Type), p.FullName, p.Headline, p.Bio,
			p.Background, p.Goals, p.Expertise, p.Skills, p.Interests,
			p.HelpAreas, p.Categories, p.PreferredTimes, p.Timezone,
			p.ExperienceYears, p.HourlyRate, now, p.UpdatedAt)
		if err != nil {
			return shared.WrapError("postgres", "UpsertProfile", shared.ErrPersistence, "write failed", err)
		}
		return nil
	})
}

// ListByType returns all profiles of a type, most recently updated first.
func (r *ProfileRepository) ListByType(ctx context.Context, profileType shared.Role) ([]*profile.Profile, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE type = $1 ORDER BY updated_at DESC`,
		string(profileType))
	if err != nil {
		return nil, shared.WrapError("postgres", "ListProfiles", shared.ErrPersistence, "query failed", err)
	}
	defer rows.Close()

	var out []*profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, shared.WrapError("postgres", "ListProfiles", shared.ErrPersistence, "scan failed", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProfile(row rowScanner) (*profile.Profile, error) {
	var p profile.Profile
	var userID, profileType string
	err := row.Scan(
		&userID, &profileType, &p.FullName, &p.Headline, &p.Bio, &p.Background, &p.Goals,
		&p.Expertise, &p.Skills, &p.Interests, &p.HelpAreas, &p.Categories, &p.PreferredTimes,
		&p.Timezone, &p.ExperienceYears, &p.HourlyRate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.UserID = shared.UserID(userID)
	p.Type = shared.Role(profileType)
	return &p, nil
}
