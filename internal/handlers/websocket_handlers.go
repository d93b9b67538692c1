package handlers

import (
	"net/http"

	ws "github.com/Dileepkumar18311/ChatApp/internal/websocket"
	"github.com/Dileepkumar18311/ChatApp/pkg/logger"

	"github.com/gorilla/websocket"
)

type WebSocketHandlers struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandlers upgrades any request from an allowed origin. The
// socket authenticates afterwards with an authenticate event.
func NewWebSocketHandlers(hub *ws.Hub, allowedOrigins []string) *WebSocketHandlers {
	return &WebSocketHandlers{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	client := h.hub.ServeConn(conn)
	if client == nil {
		logger.Debug("WebSocket from %s refused during shutdown", r.RemoteAddr)
		return
	}
	logger.Debug("WebSocket %s connected from %s", client.ID(), r.RemoteAddr)
}

type HealthHandlers struct {
	hub *ws.Hub
}

func NewHealthHandlers(hub *ws.Hub) *HealthHandlers {
	return &HealthHandlers{hub: hub}
}

func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"connections": h.hub.ConnectionCount(),
		"online":      h.hub.Presence().Count(),
	})
}
