package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mentorhub/mentorship-hub/internal/application/command"
	"github.com/mentorhub/mentorship-hub/internal/domain/chat"
	"github.com/mentorhub/mentorship-hub/internal/domain/session"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
	"github.com/mentorhub/mentorship-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GATEWAY
// Upgrades HTTP to websocket, authenticates the connection against the
// same session store the REST API uses, then pumps inbound events into
// the command handlers. Outbound traffic flows through the hub.
// ══════════════════════════════════════════════════════════════════════════════

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second

	maxFrameSize = 8 << 10
)

// ConnAuthenticator resolves a bearer token into a session. The REST
// middleware and the socket share the implementation, one login serves
// both transports.
type ConnAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Session, error)
}

// SessionAuthenticator implements ConnAuthenticator over session.Store.
type SessionAuthenticator struct {
	store session.Store
}

// NewSessionAuthenticator creates an authenticator.
func NewSessionAuthenticator(store session.Store) *SessionAuthenticator {
	return &SessionAuthenticator{store: store}
}

// Authenticate resolves the token.
func (a *SessionAuthenticator) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, shared.ErrSessionNotFound
	}
	return a.store.Get(ctx, token)
}

// Gateway terminates websocket connections.
type Gateway struct {
	hub      *Hub
	auth     ConnAuthenticator
	sendMsg  *command.SendMessageHandler
	markSeen *command.MarkSeenHandler
	presence chat.PresenceTracker
	upgrader websocket.Upgrader
	log      *logger.Logger
}

// NewGateway creates the gateway.
func NewGateway(
	hub *Hub,
	auth ConnAuthenticator,
	sendMsg *command.SendMessageHandler,
	markSeen *command.MarkSeenHandler,
	presence chat.PresenceTracker,
	log *logger.Logger,
) *Gateway {
	if log == nil {
		log = logger.Default()
	}
	return &Gateway{
		hub:      hub,
		auth:     auth,
		sendMsg:  sendMsg,
		markSeen: markSeen,
		presence: presence,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the app origin; the API is
			// deployed behind the same host in production.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log.With(logger.Component("ws_gateway")),
	}
}

// HandleWS is the websocket endpoint. The token rides in the query
// string or the Authorization header, whichever the client prefers.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}

	sess, err := g.auth.Authenticate(r.Context(), token)
	if err != nil {
		// Reject before the upgrade, a 401 is clearer to clients than
		// a closed socket.
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("upgrade failed", logger.Err(err))
		return
	}

	g.serve(sess, conn)
}

// serve owns one connection for its whole life.
func (g *Gateway) serve(sess *session.Session, conn *websocket.Conn) {
	userID := sess.UserID
	log := g.log.With(logger.UserID(string(userID)))

	g.hub.Add(userID, conn)
	if g.presence != nil {
		if err := g.presence.MarkOnline(context.Background(), userID); err != nil {
			log.Warn("presence mark online failed", logger.Err(err))
		}
	}

	defer func() {
		remaining := g.hub.Remove(userID, conn)
		if remaining == 0 && g.presence != nil {
			if err := g.presence.MarkOffline(context.Background(), userID); err != nil {
				log.Warn("presence mark offline failed", logger.Err(err))
			}
		}
		log.Debug("connection closed", logger.Int("remaining", remaining))
	}()

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		if g.presence != nil {
			_ = g.presence.Heartbeat(context.Background(), userID)
		}
		return nil
	})

	stop := make(chan struct{})
	defer close(stop)
	go g.pingLoop(conn, stop)

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("read failed", logger.Err(err))
			}
			return
		}
		g.dispatch(sess, frame, log)
	}
}

// pingLoop keeps the connection and the presence key alive.
func (g *Gateway) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

// inboundFrame defers payload decoding until the event is known.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound payload shapes.
type sendMessagePayload struct {
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text"`
}

type typingInbound struct {
	ReceiverID string `json:"receiver_id"`
}

// seenInbound carries the pair being marked. The reader is always the
// authenticated session user; receiver_id is accepted but redundant.
type seenInbound struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
}

// dispatch routes one inbound event. Unknown events are logged and
// dropped, never fatal to the connection.
func (g *Gateway) dispatch(sess *session.Session, frame inboundFrame, log *logger.Logger) {
	ctx := context.Background()

	switch frame.Event {
	case chat.EventJoin:
		// Room membership is derived from the session at upgrade
		// time; join is accepted for client compatibility.

	case chat.EventSendMessage:
		var p sendMessagePayload
		if err := json.Unmarshal(frame.Data, &p); err != nil {
			g.emitError(ctx, sess.UserID, frame.Event, shared.ErrInvalidInput)
			return
		}
		_, err := g.sendMsg.Handle(ctx, command.SendMessageCommand{
			SenderID:   sess.UserID,
			ReceiverID: shared.UserID(strings.ToLower(strings.TrimSpace(p.ReceiverID))),
			Text:       p.Text,
		})
		if err != nil {
			log.Warn("send_message rejected", logger.Err(err))
			g.emitError(ctx, sess.UserID, frame.Event, err)
		}

	case chat.EventTypingStart, chat.EventTypingStop:
		var p typingInbound
		if err := json.Unmarshal(frame.Data, &p); err != nil || p.ReceiverID == "" {
			return
		}
		// Typing indicators are relayed, never persisted.
		g.hub.Emit(ctx, shared.UserID(strings.ToLower(strings.TrimSpace(p.ReceiverID))),
			frame.Event, chat.TypingPayload{From: sess.UserID})

	case chat.EventMarkSeen:
		var p seenInbound
		if err := json.Unmarshal(frame.Data, &p); err != nil || p.SenderID == "" {
			return
		}
		_, err := g.markSeen.Handle(ctx, command.MarkSeenCommand{
			ReaderID:      sess.UserID,
			CounterpartID: shared.UserID(strings.ToLower(strings.TrimSpace(p.SenderID))),
		})
		if err != nil {
			log.Warn("mark seen rejected", logger.Err(err))
		}

	default:
		log.Debug("unknown event", logger.Event(frame.Event))
	}
}

// emitError reports a rejected command back to the offending client's
// own room.
func (g *Gateway) emitError(ctx context.Context, userID shared.UserID, event string, err error) {
	g.hub.Emit(ctx, userID, "error", map[string]string{
		"event":  event,
		"reason": err.Error(),
	})
}
