package query

import (
	"context"
	"time"

	"github.com/mentorhub/mentorship-hub/internal/domain/chat"
	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET CONVERSATIONS QUERY
// The user's chat list: one row per counterpart, carrying the latest
// message, the unread counter and live presence.
// ══════════════════════════════════════════════════════════════════════════════

// GetConversationsQuery identifies whose chat list to build.
type GetConversationsQuery struct {
	// ForUserID - the calling user.
	ForUserID shared.UserID
}

// Validate checks the caller is identified.
func (q *GetConversationsQuery) Validate() error {
	if q.ForUserID.IsEmpty() {
		return shared.ErrUnauthorized
	}
	return nil
}

// ConversationDTO is one chat-list row.
type ConversationDTO struct {
	// UserID - the counterpart.
	UserID shared.UserID `json:"user_id"`

	// Name - counterpart display name.
	Name string `json:"name"`

	// Avatar - counterpart avatar URL, may be empty.
	Avatar string `json:"avatar,omitempty"`

	// LastMessage - the most recent message of the pair, either
	// direction.
	LastMessage *chat.Message `json:"last_message"`

	// UnreadCount - messages from this counterpart the caller has
	// not seen yet.
	UnreadCount int `json:"unread_count"`

	// IsOnline - live presence of the counterpart.
	IsOnline bool `json:"is_online"`
}

// ConversationsResult is the full chat list, newest exchange first.
type ConversationsResult struct {
	Conversations []ConversationDTO `json:"conversations"`
	TotalUnread   int               `json:"total_unread"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// GetConversationsHandler builds chat lists.
type GetConversationsHandler struct {
	chatRepo chat.Repository
	userRepo profile.UserRepository
	presence chat.PresenceTracker
}

// NewGetConversationsHandler creates a new handler. Presence may be nil
// when no tracker is wired; rows then report offline.
func NewGetConversationsHandler(
	chatRepo chat.Repository,
	userRepo profile.UserRepository,
	presence chat.PresenceTracker,
) *GetConversationsHandler {
	return &GetConversationsHandler{
		chatRepo: chatRepo,
		userRepo: userRepo,
		presence: presence,
	}
}

// Handle builds the caller's chat list.
func (h *GetConversationsHandler) Handle(ctx context.Context, query GetConversationsQuery) (*ConversationsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	latest, err := h.chatRepo.LatestPerCounterpart(ctx, query.ForUserID)
	if err != nil {
		return nil, shared.WrapError("query", "GetConversations", shared.ErrPersistence, "failed to load conversations", err)
	}

	if len(latest) == 0 {
		return &ConversationsResult{
			Conversations: []ConversationDTO{},
			GeneratedAt:   time.Now().UTC(),
		}, nil
	}

	unread, err := h.chatRepo.CountUnread(ctx, query.ForUserID)
	if err != nil {
		return nil, shared.WrapError("query", "GetConversations", shared.ErrPersistence, "failed to count unread", err)
	}

	counterparts := make([]shared.UserID, 0, len(latest))
	for _, msg := range latest {
		counterparts = append(counterparts, msg.Counterpart(query.ForUserID))
	}

	users, err := h.userRepo.GetByIDs(ctx, counterparts)
	if err != nil {
		return nil, shared.WrapError("query", "GetConversations", shared.ErrPersistence, "failed to load counterparts", err)
	}

	// Presence is best effort. A dead tracker must not take the chat
	// list down with it.
	online := map[shared.UserID]bool{}
	if h.presence != nil {
		if m, err := h.presence.OnlineAmong(ctx, counterparts); err == nil {
			online = m
		}
	}

	rows := make([]ConversationDTO, 0, len(latest))
	totalUnread := 0
	for _, msg := range latest {
		counterpartID := msg.Counterpart(query.ForUserID)

		row := ConversationDTO{
			UserID:      counterpartID,
			LastMessage: msg,
			UnreadCount: unread[counterpartID],
			IsOnline:    online[counterpartID],
		}
		if user, ok := users[counterpartID]; ok {
			row.Name = user.Name
			row.Avatar = user.Avatar
		}

		totalUnread += row.UnreadCount
		rows = append(rows, row)
	}

	return &ConversationsResult{
		Conversations: rows,
		TotalUnread:   totalUnread,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
