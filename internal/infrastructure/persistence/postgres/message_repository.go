package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mentorhub/mentorship-hub/internal/domain/chat"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGE REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// MessageRepository implements chat.Repository.
type MessageRepository struct {
	db Querier
}

// NewMessageRepository creates a repository over the given querier.
func NewMessageRepository(db Querier) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, sender_id, receiver_id, text, read_at, created_at`

// Create stores a message.
func (r *MessageRepository) Create(ctx context.Context, msg *chat.Message) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, string(msg.SenderID), string(msg.ReceiverID),
		msg.Text, msg.ReadAt, msg.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrUserNotFound
		}
		return shared.WrapError("postgres", "CreateMessage", shared.ErrPersistence, "write failed", err)
	}
	return nil
}

// HistoryBetween returns the full exchange, oldest first. The pair is
// matched both ways so argument order does not matter.
func (r *MessageRepository) HistoryBetween(ctx context.Context, a, b shared.UserID) ([]*chat.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC`,
		string(a), string(b))
	if err != nil {
		return nil, shared.WrapError("postgres", "History", shared.ErrPersistence, "query failed", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// LatestPerCounterpart returns the newest message of every conversation
// the user participates in, newest conversation first. DISTINCT ON picks
// one row per pair regardless of direction.
func (r *MessageRepository) LatestPerCounterpart(ctx context.Context, userID shared.UserID) ([]*chat.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+messageColumns+` FROM (
			SELECT DISTINCT ON (counterpart) `+messageColumns+`,
				CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS counterpart
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
			ORDER BY counterpart, created_at DESC
		) latest
		ORDER BY created_at DESC`,
		string(userID))
	if err != nil {
		return nil, shared.WrapError("postgres", "Conversations", shared.ErrPersistence, "query failed", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// CountUnread returns per-counterpart unread counts for the user.
func (r *MessageRepository) CountUnread(ctx context.Context, userID shared.UserID) (map[shared.UserID]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT sender_id, count(*) FROM messages
		WHERE receiver_id = $1 AND read_at IS NULL
		GROUP BY sender_id`,
		string(userID))
	if err != nil {
		return nil, shared.WrapError("postgres", "CountUnread", shared.ErrPersistence, "query failed", err)
	}
	defer rows.Close()

	out := map[shared.UserID]int{}
	for rows.Next() {
		var sender string
		var n int
		if err := rows.Scan(&sender, &n); err != nil {
			return nil, shared.WrapError("postgres", "CountUnread", shared.ErrPersistence, "scan failed", err)
		}
		out[shared.UserID(sender)] = n
	}
	return out, rows.Err()
}

// MarkSeen stamps every unread message from -> to in one statement and
// reports how many rows changed.
func (r *MessageRepository) MarkSeen(ctx context.Context, from, to shared.UserID, at time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE messages SET read_at = $3
		WHERE sender_id = $1 AND receiver_id = $2 AND read_at IS NULL`,
		string(from), string(to), at)
	if err != nil {
		return 0, shared.WrapError("postgres", "MarkSeen", shared.ErrPersistence, "update failed", err)
	}
	return tag.RowsAffected(), nil
}

func collectMessages(rows pgx.Rows) ([]*chat.Message, error) {
	var out []*chat.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, shared.WrapError("postgres", "ScanMessage", shared.ErrPersistence, "scan failed", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMessage(row rowScanner) (*chat.Message, error) {
	var m chat.Message
	var sender, receiver string
	if err := row.Scan(&m.ID, &sender, &receiver, &m.Text, &m.ReadAt, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.SenderID = shared.UserID(sender)
	m.ReceiverID = shared.UserID(receiver)
	return &m, nil
}
