package command

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/session"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTH COMMANDS
// Thin session issuing: verify the password hash, mint an opaque token,
// store it with a TTL. The same token authenticates the REST API and
// the realtime socket.
// ══════════════════════════════════════════════════════════════════════════════

// LoginCommand carries credentials.
type LoginCommand struct {
	Email    string
	Password string
}

// LoginResult is the issued session plus the account.
type LoginResult struct {
	Token     string        `json:"token"`
	UserID    shared.UserID `json:"user_id"`
	Role      shared.Role   `json:"role"`
	Name      string        `json:"name"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// LoginHandler verifies credentials and issues sessions.
type LoginHandler struct {
	userRepo   profile.UserRepository
	sessions   session.Store
	sessionTTL time.Duration
}

// NewLoginHandler creates a new handler.
func NewLoginHandler(userRepo profile.UserRepository, sessions session.Store, sessionTTL time.Duration) *LoginHandler {
	return &LoginHandler{userRepo: userRepo, sessions: sessions, sessionTTL: sessionTTL}
}

// Handle checks the password and stores a fresh session. Unknown email
// and wrong password return the same error, the response never reveals
// which half failed.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" || cmd.Password == "" {
		return nil, shared.ErrBadCredentials
	}

	user, err := h.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrBadCredentials
		}
		return nil, shared.WrapError("command", "Login", shared.ErrPersistence, "failed to resolve account", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)) != nil {
		return nil, shared.ErrBadCredentials
	}

	sess, err := session.New(user.ID, user.Role, h.sessionTTL)
	if err != nil {
		return nil, err
	}
	if err := h.sessions.Save(ctx, sess); err != nil {
		return nil, shared.WrapError("command", "Login", shared.ErrPersistence, "failed to store session", err)
	}

	return &LoginResult{
		Token:     sess.Token,
		UserID:    user.ID,
		Role:      user.Role,
		Name:      user.DisplayName(),
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// LogoutCommand revokes one token.
type LogoutCommand struct {
	Token string
}

// LogoutHandler revokes sessions.
type LogoutHandler struct {
	sessions session.Store
}

// NewLogoutHandler creates a new handler.
func NewLogoutHandler(sessions session.Store) *LogoutHandler {
	return &LogoutHandler{sessions: sessions}
}

// Handle deletes the token. Revoking an already dead token succeeds,
// logout is idempotent from the client's point of view.
func (h *LogoutHandler) Handle(ctx context.Context, cmd LogoutCommand) error {
	if cmd.Token == "" {
		return nil
	}
	if err := h.sessions.Delete(ctx, cmd.Token); err != nil {
		return shared.WrapError("command", "Logout", shared.ErrPersistence, "failed to revoke session", err)
	}
	return nil
}
