package query

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/chat"
	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET HISTORY QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetHistoryQuery identifies one conversation.
type GetHistoryQuery struct {
	// ForUserID - the calling user.
	ForUserID shared.UserID

	// OtherUserID - the counterpart.
	OtherUserID shared.UserID
}

// Validate checks both parties are identified and distinct.
func (q *GetHistoryQuery) Validate() error {
	if q.ForUserID.IsEmpty() {
		return shared.ErrUnauthorized
	}
	if q.OtherUserID.IsEmpty() {
		return shared.ErrInvalidInput
	}
	if q.ForUserID == q.OtherUserID {
		return shared.ErrSelfConversation
	}
	return nil
}

// HistoryResult is the full exchange, oldest first.
type HistoryResult struct {
	// Counterpart - display info of the other party, nil when the
	// account no longer exists.
	Counterpart *CounterpartDTO `json:"counterpart,omitempty"`

	// Messages - the exchange in chronological order.
	Messages []*chat.Message `json:"messages"`
}

// CounterpartDTO is the other party's display info.
type CounterpartDTO struct {
	UserID shared.UserID `json:"user_id"`
	Name   string        `json:"name"`
	Avatar string        `json:"avatar,omitempty"`
}

// GetHistoryHandler loads conversation history.
type GetHistoryHandler struct {
	chatRepo chat.Repository
	userRepo profile.UserRepository
}

// NewGetHistoryHandler creates a new handler.
func NewGetHistoryHandler(chatRepo chat.Repository, userRepo profile.UserRepository) *GetHistoryHandler {
	return &GetHistoryHandler{chatRepo: chatRepo, userRepo: userRepo}
}

// Handle loads the exchange between the caller and the counterpart.
// An empty history is a normal result, not an error: the client opens
// blank conversations before the first message is sent.
func (h *GetHistoryHandler) Handle(ctx context.Context, query GetHistoryQuery) (*HistoryResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	messages, err := h.chatRepo.HistoryBetween(ctx, query.ForUserID, query.OtherUserID)
	if err != nil {
		return nil, shared.WrapError("query", "GetHistory", shared.ErrPersistence, "failed to load history", err)
	}
	if messages == nil {
		messages = []*chat.Message{}
	}

	result := &HistoryResult{Messages: messages}

	if user, err := h.userRepo.GetByID(ctx, query.OtherUserID); err == nil {
		result.Counterpart = &CounterpartDTO{
			UserID: user.ID,
			Name:   user.Name,
			Avatar: user.Avatar,
		}
	}

	return result, nil
}
