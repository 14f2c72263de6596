package postgres

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements profile.UserRepository.
type UserRepository struct {
	db Querier
}

// NewUserRepository creates a repository over the given querier.
func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, avatar, role, password_hash, created_at`

// GetByID returns a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id shared.UserID) (*profile.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, string(id))

	user, err := scanUser(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, shared.WrapError("postgres", "GetUser", shared.ErrPersistence, "query failed", err)
	}
	return user, nil
}

// GetByEmail returns a user by email. Emails are stored lower-case.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*profile.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = lower($1)`, email)

	user, err := scanUser(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, shared.WrapError("postgres", "GetUserByEmail", shared.ErrPersistence, "query failed", err)
	}
	return user, nil
}

// GetByIDs returns users keyed by id. Unknown ids are absent.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []shared.UserID) (map[shared.UserID]*profile.User, error) {
	out := make(map[shared.UserID]*profile.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, string(id))
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, raw)
	if err != nil {
		return nil, shared.WrapError("postgres", "GetUsers", shared.ErrPersistence, "query failed", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, shared.WrapError("postgres", "GetUsers", shared.ErrPersistence, "scan failed", err)
		}
		out[user.ID] = user
	}
	return out, rows.Err()
}

// rowScanner matches both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*profile.User, error) {
	var u profile.User
	var id, role string
	if err := row.Scan(&id, &u.Email, &u.Name, &u.Avatar, &role, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.ID = shared.UserID(id)
	u.Role = shared.Role(role)
	return &u, nil
}
