package chat

import (
	"context"
	"time"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// Repository is the persistence contract for messages.
type Repository interface {
	// Create persists a new message.
	Create(ctx context.Context, msg *Message) error

	// HistoryBetween returns the full exchange between two users in
	// chronological order. The pair is unordered: (a,b) and (b,a)
	// return the same rows.
	HistoryBetween(ctx context.Context, a, b shared.UserID) ([]*Message, error)

	// LatestPerCounterpart returns, for every user the given user has
	// exchanged messages with, the single most recent message of that
	// pair, newest conversation first.
	LatestPerCounterpart(ctx context.Context, userID shared.UserID) ([]*Message, error)

	// CountUnread returns per-counterpart unread counts for messages
	// addressed to the given user.
	CountUnread(ctx context.Context, userID shared.UserID) (map[shared.UserID]int, error)

	// MarkSeen stamps read_at on every unread message sent by `from`
	// to `to`, in one statement, and returns how many rows changed.
	// Zero is a valid outcome, not an error.
	MarkSeen(ctx context.Context, from, to shared.UserID, at time.Time) (int64, error)
}

// PresenceTracker answers who is currently connected. Backed by Redis
// with TTL keys, so a crashed process's users fall offline on their own.
type PresenceTracker interface {
	// MarkOnline records a live connection for the user.
	MarkOnline(ctx context.Context, userID shared.UserID) error

	// MarkOffline removes the user once their last connection closes.
	MarkOffline(ctx context.Context, userID shared.UserID) error

	// Heartbeat extends the user's online TTL.
	Heartbeat(ctx context.Context, userID shared.UserID) error

	// IsOnline reports whether the user has a live connection.
	IsOnline(ctx context.Context, userID shared.UserID) (bool, error)

	// OnlineAmong filters the given ids down to the online ones.
	OnlineAmong(ctx context.Context, userIDs []shared.UserID) (map[shared.UserID]bool, error)

	// LastSeen returns when the user was last online. The zero time
	// means the user has never been seen.
	LastSeen(ctx context.Context, userID shared.UserID) (time.Time, error)
}
