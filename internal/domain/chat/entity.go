// Package chat holds the direct-messaging domain: messages, conversation
// summaries and the persistence contracts behind them.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGE ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Message is one direct message between two users. ReadAt is nil until
// the receiver marks the conversation seen.
type Message struct {
	ID         string        `json:"id"`
	SenderID   shared.UserID `json:"sender_id"`
	ReceiverID shared.UserID `json:"receiver_id"`
	Text       string        `json:"text"`
	ReadAt     *time.Time    `json:"read_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewMessage validates and builds a message ready for persistence.
// The text is trimmed; an empty result is rejected.
func NewMessage(senderID, receiverID shared.UserID, text string) (*Message, error) {
	if senderID.IsEmpty() || receiverID.IsEmpty() {
		return nil, shared.ErrEmptyMessage
	}
	if senderID == receiverID {
		return nil, shared.ErrSelfConversation
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shared.ErrEmptyMessage
	}
	if len(text) > MaxMessageLength {
		return nil, shared.NewDomainError("chat", "NewMessage", shared.ErrValueOutOfRange,
			"message text exceeds maximum length")
	}

	return &Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// MaxMessageLength caps a single message body.
const MaxMessageLength = 4000

// IsSeen reports whether the receiver has read the message.
func (m *Message) IsSeen() bool {
	return m.ReadAt != nil
}

// InvolvedWith reports whether the given user is either party.
func (m *Message) InvolvedWith(userID shared.UserID) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// Counterpart returns the other party of the message relative to the
// given user. Callers must check InvolvedWith first.
func (m *Message) Counterpart(userID shared.UserID) shared.UserID {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// ══════════════════════════════════════════════════════════════════════════════
// CONVERSATION SUMMARY
// ══════════════════════════════════════════════════════════════════════════════

// Conversation is one row of a user's chat list: the counterpart plus
// the latest message exchanged with them.
type Conversation struct {
	CounterpartID shared.UserID `json:"counterpart_id"`
	LastMessage   *Message      `json:"last_message"`
	UnreadCount   int           `json:"unread_count"`
}
