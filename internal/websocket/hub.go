package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Dileepkumar18311/ChatApp/internal/config"
	"github.com/Dileepkumar18311/ChatApp/internal/models"
	"github.com/Dileepkumar18311/ChatApp/internal/presence"
	"github.com/Dileepkumar18311/ChatApp/pkg/logger"

	"github.com/gorilla/websocket"
)

type Verifier interface {
	GetUserFromToken(ctx context.Context, token string) (*models.User, error)
}

type MessageSender interface {
	Send(ctx context.Context, senderID int, req *models.SendMessageRequest) (*models.MessageView, error)
}

// Session is the per-connection state handlers read and return.
type Session struct {
	ConnID string
	UserID int
	User   *models.Identity
}

func (s Session) Authenticated() bool {
	return s.User != nil
}

// Emit is one outbound event addressed to a single connection.
type Emit struct {
	ConnID  string
	Event   models.EventName
	Payload interface{}
}

type handlerFunc func(ctx context.Context, s Session, data json.RawMessage) (Session, []Emit)

type Hub struct {
	verifier Verifier
	messages MessageSender
	presence *presence.Registry
	rooms    *RoomRouter
	cfg      config.RealtimeConfig

	mu      sync.RWMutex
	clients map[string]*Client
	closing bool
	pumps   sync.WaitGroup

	handlers map[models.EventName]handlerFunc
}

func NewHub(verifier Verifier, messages MessageSender, registry *presence.Registry, cfg config.RealtimeConfig) *Hub {
	h := &Hub{
		verifier: verifier,
		messages: messages,
		presence: registry,
		rooms:    NewRoomRouter(),
		cfg:      cfg,
		clients:  make(map[string]*Client),
	}
	h.handlers = map[models.EventName]handlerFunc{
		models.EventAuthenticate:      h.handleAuthenticate,
		models.EventSendMessage:       h.handleSendMessage,
		models.EventJoinConversation:  h.handleJoinConversation,
		models.EventLeaveConversation: h.handleLeaveConversation,
		models.EventTyping:            h.handleTyping,
	}
	return h
}

func (h *Hub) Presence() *presence.Registry { return h.presence }

func (h *Hub) Rooms() *RoomRouter { return h.rooms }

// ServeConn attaches an upgraded websocket and starts its pumps. It returns
// nil and closes conn once the hub is shutting down.
func (h *Hub) ServeConn(conn *websocket.Conn) *Client {
	client := newClient(h, conn)
	if !h.register(client) {
		conn.Close()
		return nil
	}

	go client.WritePump()
	go func() {
		defer h.pumps.Done()
		client.ReadPump()
	}()
	return client
}

// register reports false after Close. A client with a transport counts
// towards the read pumps Close waits for.
func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	if h.closing {
		h.mu.Unlock()
		return false
	}
	h.clients[c.id] = c
	if c.conn != nil {
		h.pumps.Add(1)
	}
	count := len(h.clients)
	h.mu.Unlock()
	logger.Debug("Connection %s opened (%d open)", c.id, count)
	return true
}

// Disconnect forgets the client, its presence entry (if it still owns it) and
// its room memberships. Safe to call more than once.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	h.mu.Unlock()

	if session := c.Session(); session.Authenticated() {
		if h.presence.Unregister(session.UserID, c.id) {
			logger.Info("User %s disconnected", session.User.Username)
		} else {
			logger.Debug("Superseded connection %s of user %d closed", c.id, session.UserID)
		}
	}
	h.rooms.DropConnection(c.id)
	c.closeSend()
}

// Dispatch runs the handler for one inbound frame. Every event except
// authenticate requires an authenticated session.
func (h *Hub) Dispatch(ctx context.Context, s Session, frame models.WebSocketMessage) (Session, []Emit) {
	handler, ok := h.handlers[frame.Event]
	if !ok {
		return s, []Emit{errorEmit(s.ConnID, "Unknown event: "+string(frame.Event))}
	}
	if frame.Event != models.EventAuthenticate && !s.Authenticated() {
		return s, []Emit{errorEmit(s.ConnID, "Not authenticated")}
	}
	return handler(ctx, s, frame.Data)
}

// Deliver encodes and queues each emit on its target connection. Targets that
// are gone are skipped; targets whose buffer is full are dropped.
func (h *Hub) Deliver(emits []Emit) {
	for _, e := range emits {
		h.mu.RLock()
		client, ok := h.clients[e.ConnID]
		h.mu.RUnlock()
		if !ok {
			continue
		}

		data, err := encodeFrame(e.Event, e.Payload)
		if err != nil {
			logger.Error("Error marshaling %s event: %v", e.Event, err)
			continue
		}
		if !client.enqueue(data) {
			logger.Warn("Dropping slow connection %s", client.id)
			client.closeConn()
		}
	}
}

// PublishMessage relays a message persisted outside a socket (the REST send
// path) to the sender's own connection and to its recipients.
func (h *Hub) PublishMessage(view *models.MessageView) {
	var emits []Emit
	senderConn, ok := h.presence.Lookup(view.SenderID)
	if ok {
		emits = append(emits, Emit{ConnID: senderConn, Event: models.EventMessageReceived, Payload: view})
	}
	h.Deliver(append(emits, h.fanOut(view, senderConn)...))
}

// fanOut addresses view to the online receiver or to the group room,
// never to excludeConn.
func (h *Hub) fanOut(view *models.MessageView, excludeConn string) []Emit {
	var emits []Emit
	if view.ReceiverID != nil {
		if connID, ok := h.presence.Lookup(*view.ReceiverID); ok && connID != excludeConn {
			emits = append(emits, Emit{ConnID: connID, Event: models.EventMessageReceived, Payload: view})
		}
	}
	if view.GroupID != nil {
		for _, connID := range h.rooms.Members(GroupRoomName(*view.GroupID)) {
			if connID != excludeConn {
				emits = append(emits, Emit{ConnID: connID, Event: models.EventMessageReceived, Payload: view})
			}
		}
	}
	return emits
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close refuses new connections and drops every open one. Sockets are closed
// under their read pumps, which run the disconnect cleanup with the session
// they last stored; Close waits for them until ctx is done.
func (h *Hub) Close(ctx context.Context) error {
	h.mu.Lock()
	h.closing = true
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if c.conn == nil {
			h.Disconnect(c)
			continue
		}
		c.closeConn()
	}

	done := make(chan struct{})
	go func() {
		h.pumps.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func errorEmit(connID, message string) Emit {
	return Emit{ConnID: connID, Event: models.EventError, Payload: models.ErrorPayload{Message: message}}
}

func encodeFrame(event models.EventName, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.WebSocketMessage{Event: event, Data: data})
}
