// Package ws implements the realtime transport: one websocket endpoint,
// session-bridged auth and per-user rooms. The hub is the delivery
// fabric; all chat semantics live in the application layer.
package ws

import (
	"context"
	"sync"

	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
	"github.com/mentorhub/mentorship-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HUB
// rooms: user id -> set of live connections. A user with three open
// tabs has three entries in their room, and every emit reaches all of
// them.
// ══════════════════════════════════════════════════════════════════════════════

// socketConn is the subset of *websocket.Conn the hub needs. Tests plug
// in fakes.
type socketConn interface {
	WriteJSON(v any) error
	Close() error
}

// Envelope is the wire frame in both directions: an event name plus an
// event-specific payload.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// member pairs a connection with its write lock. gorilla/websocket
// allows one concurrent writer per connection, and emits from
// different request goroutines can target the same room at once.
type member struct {
	mu   sync.Mutex
	conn socketConn
}

func (m *member) write(v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn.WriteJSON(v)
}

// Hub tracks live connections grouped into per-user rooms. It
// implements chat.Emitter.
type Hub struct {
	mu    sync.RWMutex
	rooms map[shared.UserID]map[socketConn]*member
	log   *logger.Logger
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Default()
	}
	return &Hub{
		rooms: make(map[shared.UserID]map[socketConn]*member),
		log:   log.With(logger.Component("ws_hub")),
	}
}

// Add registers a connection in the user's room and returns the room's
// new size.
func (h *Hub) Add(userID shared.UserID, conn socketConn) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[userID]; !ok {
		h.rooms[userID] = make(map[socketConn]*member)
	}
	h.rooms[userID][conn] = &member{conn: conn}

	size := len(h.rooms[userID])
	h.log.Debug("connection joined room",
		logger.UserID(string(userID)), logger.Int("connections", size))
	return size
}

// Remove drops a connection and returns how many the user still holds.
// Zero means the user just went fully offline.
func (h *Hub) Remove(userID shared.UserID, conn socketConn) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[userID]
	if !ok {
		return 0
	}
	delete(conns, conn)
	_ = conn.Close()

	if len(conns) == 0 {
		delete(h.rooms, userID)
		return 0
	}
	return len(conns)
}

// Connections returns the user's live connection count.
func (h *Hub) Connections(userID shared.UserID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// Emit writes the event to every connection in the room. Connections
// that fail the write are pruned; an empty room is a silent no-op.
func (h *Hub) Emit(_ context.Context, room shared.UserID, event string, payload any) {
	frame := Envelope{Event: event, Data: payload}

	h.mu.RLock()
	members := make([]*member, 0, len(h.rooms[room]))
	for _, m := range h.rooms[room] {
		members = append(members, m)
	}
	h.mu.RUnlock()

	for _, m := range members {
		if err := m.write(frame); err != nil {
			h.log.Warn("dropping dead connection",
				logger.UserID(string(room)), logger.Event(event), logger.Err(err))
			h.Remove(room, m.conn)
		}
	}
}
