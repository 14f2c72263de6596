// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/chat"
	"github.com/mentorhub/mentorship-hub/internal/domain/profile"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEND MESSAGE COMMAND
// The single write path for chat. Both the REST endpoint and the socket
// handler go through here, so a message behaves identically however it
// arrived: validated once, persisted once, emitted to both rooms.
// ══════════════════════════════════════════════════════════════════════════════

// SendMessageCommand carries one outgoing message.
type SendMessageCommand struct {
	// SenderID - the authenticated author.
	SenderID shared.UserID

	// ReceiverID - the addressee.
	ReceiverID shared.UserID

	// Text - the message body, trimmed before storage.
	Text string
}

// SendMessageHandler persists and fans out messages.
type SendMessageHandler struct {
	chatRepo chat.Repository
	userRepo profile.UserRepository
	emitter  chat.Emitter
}

// NewSendMessageHandler creates a new handler.
func NewSendMessageHandler(
	chatRepo chat.Repository,
	userRepo profile.UserRepository,
	emitter chat.Emitter,
) *SendMessageHandler {
	if emitter == nil {
		emitter = chat.NopEmitter{}
	}
	return &SendMessageHandler{
		chatRepo: chatRepo,
		userRepo: userRepo,
		emitter:  emitter,
	}
}

// Handle validates, persists and emits one message. The receiver's room
// gets receive_message; the sender's own room gets message_sent so their
// other open tabs render the message too.
func (h *SendMessageHandler) Handle(ctx context.Context, cmd SendMessageCommand) (*chat.Message, error) {
	msg, err := chat.NewMessage(cmd.SenderID, cmd.ReceiverID, cmd.Text)
	if err != nil {
		return nil, err
	}

	// Refuse to address users that do not exist.
	if _, err := h.userRepo.GetByID(ctx, cmd.ReceiverID); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, shared.WrapError("command", "SendMessage", shared.ErrPersistence, "failed to resolve receiver", err)
	}

	if err := h.chatRepo.Create(ctx, msg); err != nil {
		return nil, shared.WrapError("command", "SendMessage", shared.ErrPersistence, "failed to store message", err)
	}

	// Emission happens after the commit. A message is never announced
	// before it is durable.
	h.emitter.Emit(ctx, msg.ReceiverID, chat.EventReceiveMessage, msg)
	h.emitter.Emit(ctx, msg.SenderID, chat.EventMessageSent, msg)

	return msg, nil
}
