package command

import (
	"context"
	"time"

	"github.com/mentorhub/mentorship-hub/internal/domain/chat"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK SEEN COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// MarkSeenCommand records that the reader has opened a conversation.
type MarkSeenCommand struct {
	// ReaderID - the authenticated user who read the messages.
	ReaderID shared.UserID

	// CounterpartID - whose messages were read.
	CounterpartID shared.UserID
}

// MarkSeenResult reports what the command changed.
type MarkSeenResult struct {
	// MarkedCount - how many messages were newly stamped. Zero means
	// nothing was unread, which is a normal outcome.
	MarkedCount int64 `json:"marked_count"`
}

// MarkSeenHandler stamps read receipts.
type MarkSeenHandler struct {
	chatRepo chat.Repository
	emitter  chat.Emitter
}

// NewMarkSeenHandler creates a new handler.
func NewMarkSeenHandler(chatRepo chat.Repository, emitter chat.Emitter) *MarkSeenHandler {
	if emitter == nil {
		emitter = chat.NopEmitter{}
	}
	return &MarkSeenHandler{chatRepo: chatRepo, emitter: emitter}
}

// Handle marks every unread message from the counterpart to the reader
// in one statement. Idempotent: a second call finds zero unread rows
// and emits nothing, so the counterpart never gets duplicate receipts.
func (h *MarkSeenHandler) Handle(ctx context.Context, cmd MarkSeenCommand) (*MarkSeenResult, error) {
	if cmd.ReaderID.IsEmpty() {
		return nil, shared.ErrUnauthorized
	}
	if cmd.CounterpartID.IsEmpty() || cmd.CounterpartID == cmd.ReaderID {
		return nil, shared.ErrInvalidInput
	}

	marked, err := h.chatRepo.MarkSeen(ctx, cmd.CounterpartID, cmd.ReaderID, time.Now().UTC())
	if err != nil {
		return nil, shared.WrapError("command", "MarkSeen", shared.ErrPersistence, "failed to mark messages seen", err)
	}

	// Only a real state change notifies the original sender.
	if marked > 0 {
		h.emitter.Emit(ctx, cmd.CounterpartID, chat.EventSeen, chat.SeenPayload{From: cmd.ReaderID})
	}

	return &MarkSeenResult{MarkedCount: marked}, nil
}
