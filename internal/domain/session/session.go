// Package session defines the opaque bearer sessions shared by the HTTP
// API and the realtime socket. One store serves both transports, so a
// login works everywhere at once and a logout kills everything at once.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// Session is the server-side record behind a bearer token.
type Session struct {
	Token     string        `json:"-"`
	UserID    shared.UserID `json:"user_id"`
	Role      shared.Role   `json:"role"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// IsExpired reports whether the session has passed its deadline.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// New mints a session with a fresh random token.
func New(userID shared.UserID, role shared.Role, ttl time.Duration) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, shared.WrapError("session", "New", shared.ErrInternal, "failed to generate token", err)
	}

	now := time.Now().UTC()
	return &Session{
		Token:     token,
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// newToken returns 32 bytes of hex-encoded randomness.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Store persists sessions. Backed by Redis with the TTL enforced by the
// store itself, expired tokens simply stop resolving.
type Store interface {
	// Save persists the session until its expiry.
	Save(ctx context.Context, s *Session) error

	// Get resolves a token. Returns shared.ErrSessionNotFound for
	// unknown or expired tokens.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete revokes a token. Deleting an unknown token is a no-op.
	Delete(ctx context.Context, token string) error
}
