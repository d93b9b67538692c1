package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Dileepkumar18311/ChatApp/internal/models"
	"github.com/Dileepkumar18311/ChatApp/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	id   string

	mu      sync.Mutex
	session Session
	send    chan []byte
	closed  bool
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	id := uuid.NewString()
	buffer := hub.cfg.SendBuffer
	if buffer <= 0 {
		buffer = 256
	}
	return &Client{
		hub:     hub,
		conn:    conn,
		id:      id,
		session: Session{ConnID: id},
		send:    make(chan []byte, buffer),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) setSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// enqueue never blocks; it reports false when the client is closed or its
// buffer is full.
func (c *Client) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) closeConn() {
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()

	cfg := c.hub.cfg
	if cfg.MaxMessageSize > 0 {
		c.conn.SetReadLimit(cfg.MaxMessageSize)
	}
	// Set read deadline and pong handler for connection health
	c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket error on %s: %v", c.id, err)
			}
			break
		}
		c.handleFrame(message)
	}
}

// handleFrame decodes and dispatches one inbound frame. A failing handler
// never takes the connection down.
func (c *Client) handleFrame(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Handler panic on %s: %v", c.id, r)
			c.hub.Deliver([]Emit{errorEmit(c.id, "Internal server error")})
		}
	}()

	var frame models.WebSocketMessage
	if err := json.Unmarshal(data, &frame); err != nil || frame.Event == "" {
		c.hub.Deliver([]Emit{errorEmit(c.id, "Malformed event")})
		return
	}

	session, emits := c.hub.Dispatch(context.Background(), c.Session(), frame)
	c.setSession(session)
	c.hub.Deliver(emits)
}

func (c *Client) WritePump() {
	cfg := c.hub.cfg
	ticker := time.NewTicker(cfg.PingPeriod())
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("Write error on %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
