package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PRESENCE TRACKER
// One TTL key per online user. The socket gateway refreshes the key on
// every pong, so presence survives exactly as long as the heartbeat
// does. No cleanup job needed.
// ══════════════════════════════════════════════════════════════════════════════

const (
	presenceKeyPrefix = "presence:"
	lastSeenKeyPrefix = "lastseen:"

	// DefaultPresenceTTL should comfortably exceed the socket ping
	// interval, two missed heartbeats drop the user offline.
	DefaultPresenceTTL = 75 * time.Second
)

// PresenceTracker implements chat.PresenceTracker on Redis.
type PresenceTracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPresenceTracker creates a tracker. A non-positive ttl falls back
// to the default.
func NewPresenceTracker(client *redis.Client, ttl time.Duration) *PresenceTracker {
	if ttl <= 0 {
		ttl = DefaultPresenceTTL
	}
	return &PresenceTracker{client: client, ttl: ttl}
}

func presenceKey(userID shared.UserID) string {
	return presenceKeyPrefix + string(userID)
}

func lastSeenKey(userID shared.UserID) string {
	return lastSeenKeyPrefix + string(userID)
}

// MarkOnline records a live connection for the user. The last-seen
// stamp is written alongside and, unlike the presence key, never
// expires.
func (t *PresenceTracker) MarkOnline(ctx context.Context, userID shared.UserID) error {
	now := time.Now().UTC().Format(time.RFC3339)

	pipe := t.client.Pipeline()
	pipe.Set(ctx, presenceKey(userID), "1", t.ttl)
	pipe.Set(ctx, lastSeenKey(userID), now, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return shared.WrapError("redis", "MarkOnline", shared.ErrPersistence, "set failed", err)
	}
	return nil
}

// MarkOffline drops the user immediately instead of waiting for the TTL.
func (t *PresenceTracker) MarkOffline(ctx context.Context, userID shared.UserID) error {
	now := time.Now().UTC().Format(time.RFC3339)

	pipe := t.client.Pipeline()
	pipe.Del(ctx, presenceKey(userID))
	pipe.Set(ctx, lastSeenKey(userID), now, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return shared.WrapError("redis", "MarkOffline", shared.ErrPersistence, "del failed", err)
	}
	return nil
}

// Heartbeat extends the online TTL.
func (t *PresenceTracker) Heartbeat(ctx context.Context, userID shared.UserID) error {
	// SET rather than EXPIRE: a heartbeat from a connection whose key
	// already lapsed brings the user back online.
	return t.MarkOnline(ctx, userID)
}

// IsOnline reports whether the user's presence key is live.
func (t *PresenceTracker) IsOnline(ctx context.Context, userID shared.UserID) (bool, error) {
	n, err := t.client.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, shared.WrapError("redis", "IsOnline", shared.ErrPersistence, "exists failed", err)
	}
	return n > 0, nil
}

// OnlineAmong filters ids down to the online ones in one round trip.
func (t *PresenceTracker) OnlineAmong(ctx context.Context, userIDs []shared.UserID) (map[shared.UserID]bool, error) {
	out := make(map[shared.UserID]bool, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	pipe := t.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(userIDs))
	for i, id := range userIDs {
		cmds[i] = pipe.Exists(ctx, presenceKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, shared.WrapError("redis", "OnlineAmong", shared.ErrPersistence, "pipeline failed", err)
	}

	for i, id := range userIDs {
		out[id] = cmds[i].Val() > 0
	}
	return out, nil
}

// LastSeen returns the user's last-seen stamp, zero when never seen.
func (t *PresenceTracker) LastSeen(ctx context.Context, userID shared.UserID) (time.Time, error) {
	raw, err := t.client.Get(ctx, lastSeenKey(userID)).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, shared.WrapError("redis", "LastSeen", shared.ErrPersistence, "get failed", err)
	}

	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, shared.WrapError("redis", "LastSeen", shared.ErrPersistence, "malformed stamp", err)
	}
	return at, nil
}
