package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATIONS
// Schema versions are embedded in the binary and applied at startup,
// each inside its own transaction. Idempotent: applied versions are
// tracked in schema_migrations and skipped on the next boot.
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one schema version.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Migrator applies pending migrations.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	tableName  string
}

// NewMigrator creates a migrator over the embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

// Migrate applies every pending migration in version order.
func (m *Migrator) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)
	if _, err := m.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("%w: creating tracking table: %v", ErrMigrationFailed, err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, ok := applied[mig.Version]; ok {
			continue
		}
		if mig.UpSQL == "" {
			return fmt.Errorf("%w: missing up SQL for version %d", ErrMigrationFailed, mig.Version)
		}

		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return err
			}
			insert := fmt.Sprintf("INSERT INTO %s (version, name) VALUES ($1, $2)", m.tableName)
			_, err := tx.Exec(ctx, insert, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.conn.Query(ctx, fmt.Sprintf("SELECT version, applied_at FROM %s", m.tableName))
	if err != nil {
		return nil, fmt.Errorf("%w: reading applied versions: %v", ErrMigrationFailed, err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning version row: %v", ErrMigrationFailed, err)
		}
		applied[version] = appliedAt
	}
	return applied, rows.Err()
}

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_users_and_profiles", UpSQL: migration001Up, DownSQL: migration001Down},
		{Version: 2, Name: "create_availability_and_reviews", UpSQL: migration002Up, DownSQL: migration002Down},
		{Version: 3, Name: "create_messages", UpSQL: migration003Up, DownSQL: migration003Down},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Version 1: accounts and profiles
// ──────────────────────────────────────────────────────────────────────────────

const migration001Up = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL DEFAULT '',
    avatar        TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL DEFAULT 'mentee',
    password_hash TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id          UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    type             TEXT NOT NULL,
    full_name        TEXT NOT NULL DEFAULT '',
    headline         TEXT NOT NULL DEFAULT '',
    bio              TEXT NOT NULL DEFAULT '',
    background       TEXT NOT NULL DEFAULT '',
    goals            TEXT NOT NULL DEFAULT '',
    expertise        TEXT NOT NULL DEFAULT '',
    skills           TEXT NOT NULL DEFAULT '',
    interests        TEXT NOT NULL DEFAULT '',
    help_areas       TEXT NOT NULL DEFAULT '',
    categories       TEXT NOT NULL DEFAULT '',
    preferred_times  TEXT NOT NULL DEFAULT '',
    timezone         TEXT NOT NULL DEFAULT '',
    experience_years INTEGER NOT NULL DEFAULT 0,
    hourly_rate      DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_profiles_type ON profiles(type, updated_at DESC);
`

const migration001Down = `
DROP TABLE IF EXISTS profiles;
DROP TABLE IF EXISTS users;
`

// ──────────────────────────────────────────────────────────────────────────────
// Version 2: availability and reviews
// ──────────────────────────────────────────────────────────────────────────────

const migration002Up = `
CREATE TABLE IF NOT EXISTS availabilities (
    id         UUID PRIMARY KEY,
    mentor_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    start_time TIMESTAMPTZ NOT NULL,
    end_time   TIMESTAMPTZ NOT NULL,
    status     TEXT NOT NULL DEFAULT 'available',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT availabilities_range CHECK (end_time > start_time)
);

CREATE INDEX IF NOT EXISTS idx_availabilities_mentor
    ON availabilities(mentor_id, status, start_time);

CREATE TABLE IF NOT EXISTS reviews (
    id         UUID PRIMARY KEY,
    mentor_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    mentee_id  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    rating     DOUBLE PRECISION NOT NULL,
    comment    TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT reviews_rating_range CHECK (rating >= 1 AND rating <= 5),
    CONSTRAINT reviews_no_self CHECK (mentor_id <> mentee_id)
);

CREATE INDEX IF NOT EXISTS idx_reviews_mentor ON reviews(mentor_id, created_at DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS reviews;
DROP TABLE IF EXISTS availabilities;
`

// ──────────────────────────────────────────────────────────────────────────────
// Version 3: chat
// ──────────────────────────────────────────────────────────────────────────────

const migration003Up = `
CREATE TABLE IF NOT EXISTS messages (
    id          UUID PRIMARY KEY,
    sender_id   UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    receiver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    text        TEXT NOT NULL,
    read_at     TIMESTAMPTZ,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_messages_pair
    ON messages(sender_id, receiver_id, created_at);
CREATE INDEX IF NOT EXISTS idx_messages_unread
    ON messages(receiver_id, sender_id) WHERE read_at IS NULL;
`

const migration003Down = `
DROP TABLE IF EXISTS messages;
`
