// Package redis implements the volatile state of the platform: bearer
// sessions and live presence. Both ride on TTL keys, so a dead process
// leaks nothing, its state just expires.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mentorhub/mentorship-hub/internal/domain/session"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates and pings a Redis client.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: failed to ping: %w", err)
	}
	return client, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE
// One record per token under session:<token>, JSON encoded, expiring
// together with the session itself. The HTTP middleware and the socket
// authenticator both resolve tokens here.
// ══════════════════════════════════════════════════════════════════════════════

const sessionKeyPrefix = "session:"

// SessionStore implements session.Store on Redis.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a store over the client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// sessionRecord is the stored JSON shape.
type sessionRecord struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Save stores the session with a TTL matching its expiry.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return shared.NewDomainError("redis", "SaveSession", shared.ErrInvalidInput, "session already expired")
	}

	payload, err := json.Marshal(sessionRecord{
		UserID:    string(sess.UserID),
		Role:      string(sess.Role),
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		return shared.WrapError("redis", "SaveSession", shared.ErrInternal, "marshal failed", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+sess.Token, payload, ttl).Err(); err != nil {
		return shared.WrapError("redis", "SaveSession", shared.ErrPersistence, "set failed", err)
	}
	return nil
}

// Get resolves a token. Expired keys are gone by the time we look, so
// the TTL does the revocation work.
func (s *SessionStore) Get(ctx context.Context, token string) (*session.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrSessionNotFound
		}
		return nil, shared.WrapError("redis", "GetSession", shared.ErrPersistence, "get failed", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, shared.WrapError("redis", "GetSession", shared.ErrInternal, "unmarshal failed", err)
	}

	sess := &session.Session{
		Token:     token,
		UserID:    shared.UserID(rec.UserID),
		Role:      shared.Role(rec.Role),
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
	if sess.IsExpired(time.Now()) {
		return nil, shared.ErrSessionNotFound
	}
	return sess, nil
}

// Delete revokes a token. Unknown tokens delete to nothing.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return shared.WrapError("redis", "DeleteSession", shared.ErrPersistence, "del failed", err)
	}
	return nil
}
