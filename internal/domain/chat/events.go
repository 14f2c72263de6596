package chat

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// Realtime event names. Inbound events are what clients send over the
// socket, outbound ones are what the server pushes into rooms.
const (
	// Inbound.
	EventJoin        = "join"
	EventSendMessage = "send_message"
	EventTypingStart = "typing:start"
	EventTypingStop  = "typing:stop"
	EventMarkSeen    = "message:seen"

	// Outbound.
	EventReceiveMessage = "receive_message"
	EventMessageSent    = "message_sent"
	EventSeen           = "message:seen"
)

// SeenPayload is the body of an outbound seen notification. From is the
// reader, delivered to the original sender's room.
type SeenPayload struct {
	From shared.UserID `json:"from"`
}

// TypingPayload is the body of a relayed typing indicator.
type TypingPayload struct {
	From shared.UserID `json:"from"`
}

// Emitter pushes an event into a user's room: every live connection
// that user holds. Emitting to a room with no connections is a no-op.
// Persistence, not the socket, guarantees the message itself.
type Emitter interface {
	Emit(ctx context.Context, room shared.UserID, event string, payload any)
}

// NopEmitter discards events. Used when no realtime transport is wired,
// the HTTP-only path still persists everything.
type NopEmitter struct{}

// Emit implements Emitter.
func (NopEmitter) Emit(context.Context, shared.UserID, string, any) {}
