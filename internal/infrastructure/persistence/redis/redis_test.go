package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorship-hub/internal/domain/session"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

const (
	aliceID = shared.UserID("7ed99bd0-87b2-4dbb-a97b-596c3f29c49b")
	bobID   = shared.UserID("9ca4322d-ebd5-4ffa-a340-56fe811bbab1")
)

func testClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

// ──────────────────────────────────────────────────────────────────────────────
// Session store
// ──────────────────────────────────────────────────────────────────────────────

func TestSessionStore_RoundTrip(t *testing.T) {
	client, _ := testClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess, err := session.New(aliceID, shared.RoleMentee, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, aliceID, got.UserID)
	assert.Equal(t, shared.RoleMentee, got.Role)
	assert.Equal(t, sess.Token, got.Token)
}

func TestSessionStore_UnknownToken(t *testing.T) {
	client, _ := testClient(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, shared.ErrSessionNotFound)
}

func TestSessionStore_ExpiryRevokes(t *testing.T) {
	client, mr := testClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess, err := session.New(aliceID, shared.RoleMentor, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sess))

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, shared.ErrSessionNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	client, _ := testClient(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess, err := session.New(aliceID, shared.RoleMentee, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sess))

	require.NoError(t, store.Delete(ctx, sess.Token))
	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, shared.ErrSessionNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(ctx, sess.Token))
}

func TestSessionStore_RejectsExpiredOnSave(t *testing.T) {
	client, _ := testClient(t)
	store := NewSessionStore(client)

	sess, err := session.New(aliceID, shared.RoleMentee, -time.Minute)
	require.NoError(t, err)

	err = store.Save(context.Background(), sess)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Presence tracker
// ──────────────────────────────────────────────────────────────────────────────

func TestPresenceTracker_OnlineOffline(t *testing.T) {
	client, _ := testClient(t)
	tracker := NewPresenceTracker(client, time.Minute)
	ctx := context.Background()

	online, err := tracker.IsOnline(ctx, aliceID)
	require.NoError(t, err)
	assert.False(t, online)

	require.NoError(t, tracker.MarkOnline(ctx, aliceID))
	online, err = tracker.IsOnline(ctx, aliceID)
	require.NoError(t, err)
	assert.True(t, online)

	require.NoError(t, tracker.MarkOffline(ctx, aliceID))
	online, err = tracker.IsOnline(ctx, aliceID)
	require.NoError(t, err)
	assert.False(t, online)
}

func TestPresenceTracker_TTLDropsSilentUsers(t *testing.T) {
	client, mr := testClient(t)
	tracker := NewPresenceTracker(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, tracker.MarkOnline(ctx, aliceID))
	mr.FastForward(2 * time.Minute)

	online, err := tracker.IsOnline(ctx, aliceID)
	require.NoError(t, err)
	assert.False(t, online)
}

func TestPresenceTracker_HeartbeatExtends(t *testing.T) {
	client, mr := testClient(t)
	tracker := NewPresenceTracker(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, tracker.MarkOnline(ctx, aliceID))
	mr.FastForward(45 * time.Second)
	require.NoError(t, tracker.Heartbeat(ctx, aliceID))
	mr.FastForward(45 * time.Second)

	// 90s since MarkOnline but only 45s since the heartbeat.
	online, err := tracker.IsOnline(ctx, aliceID)
	require.NoError(t, err)
	assert.True(t, online)
}

func TestPresenceTracker_LastSeenSurvivesGoingOffline(t *testing.T) {
	client, _ := testClient(t)
	tracker := NewPresenceTracker(client, time.Minute)
	ctx := context.Background()

	seen, err := tracker.LastSeen(ctx, aliceID)
	require.NoError(t, err)
	assert.True(t, seen.IsZero())

	require.NoError(t, tracker.MarkOnline(ctx, aliceID))
	require.NoError(t, tracker.MarkOffline(ctx, aliceID))

	seen, err = tracker.LastSeen(ctx, aliceID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), seen, 5*time.Second)
}

func TestPresenceTracker_OnlineAmong(t *testing.T) {
	client, _ := testClient(t)
	tracker := NewPresenceTracker(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, tracker.MarkOnline(ctx, bobID))

	got, err := tracker.OnlineAmong(ctx, []shared.UserID{aliceID, bobID})
	require.NoError(t, err)
	assert.Equal(t, map[shared.UserID]bool{aliceID: false, bobID: true}, got)

	empty, err := tracker.OnlineAmong(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
