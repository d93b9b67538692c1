package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Dileepkumar18311/ChatApp/internal/auth"
	"github.com/Dileepkumar18311/ChatApp/internal/models"
	"github.com/Dileepkumar18311/ChatApp/pkg/logger"
)

// parseToken accepts either a bare JSON string or {"token": "..."}.
func parseToken(data json.RawMessage) string {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		return strings.TrimSpace(token)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		return strings.TrimSpace(body.Token)
	}
	return ""
}

func authFailure(connID, reason string) Emit {
	return Emit{
		ConnID:  connID,
		Event:   models.EventAuthenticated,
		Payload: models.AuthenticatedPayload{Success: false, Error: reason},
	}
}

// handleAuthenticate binds the connection to a user. A failed attempt leaves
// the session as it was.
func (h *Hub) handleAuthenticate(ctx context.Context, s Session, data json.RawMessage) (Session, []Emit) {
	token := parseToken(data)
	if token == "" {
		return s, []Emit{authFailure(s.ConnID, "Authentication failed")}
	}

	user, err := h.verifier.GetUserFromToken(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return s, []Emit{authFailure(s.ConnID, "Invalid token")}
		}
		logger.Debug("Authentication failed on %s: %v", s.ConnID, err)
		return s, []Emit{authFailure(s.ConnID, "Authentication failed")}
	}

	// Re-authenticating as someone else releases the previous identity.
	if s.Authenticated() && s.UserID != user.ID {
		h.presence.Unregister(s.UserID, s.ConnID)
		h.rooms.DropConnection(s.ConnID)
	}

	if replaced := h.presence.Register(user.ID, s.ConnID); replaced != "" && replaced != s.ConnID {
		logger.Debug("User %d moved from connection %s to %s", user.ID, replaced, s.ConnID)
	}

	identity := user.Identity()
	s.UserID = user.ID
	s.User = &identity
	logger.Info("User %s authenticated on %s", user.Username, s.ConnID)

	return s, []Emit{{
		ConnID:  s.ConnID,
		Event:   models.EventAuthenticated,
		Payload: models.AuthenticatedPayload{Success: true, User: &identity},
	}}
}

func (h *Hub) handleSendMessage(ctx context.Context, s Session, data json.RawMessage) (Session, []Emit) {
	var req models.SendMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return s, []Emit{errorEmit(s.ConnID, "Invalid message payload")}
	}

	view, err := h.messages.Send(ctx, s.UserID, &req)
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			return s, []Emit{errorEmit(s.ConnID, ve.Reason)}
		}
		logger.Error("Error sending message from user %d: %v", s.UserID, err)
		return s, []Emit{errorEmit(s.ConnID, "Failed to send message")}
	}

	emits := []Emit{{ConnID: s.ConnID, Event: models.EventMessageReceived, Payload: view}}
	return s, append(emits, h.fanOut(view, s.ConnID)...)
}

func (h *Hub) handleJoinConversation(ctx context.Context, s Session, data json.RawMessage) (Session, []Emit) {
	rooms, err := h.targetRooms(s, data)
	if err != nil {
		return s, []Emit{errorEmit(s.ConnID, "Invalid conversation payload")}
	}
	for _, room := range rooms {
		if h.rooms.Join(room, s.ConnID) {
			logger.Debug("Connection %s joined %s", s.ConnID, room)
		}
	}
	return s, nil
}

func (h *Hub) handleLeaveConversation(ctx context.Context, s Session, data json.RawMessage) (Session, []Emit) {
	rooms, err := h.targetRooms(s, data)
	if err != nil {
		return s, []Emit{errorEmit(s.ConnID, "Invalid conversation payload")}
	}
	for _, room := range rooms {
		if h.rooms.Leave(room, s.ConnID) {
			logger.Debug("Connection %s left %s", s.ConnID, room)
		}
	}
	return s, nil
}

// targetRooms resolves a conversation target to room names; both kinds may
// be given at once.
func (h *Hub) targetRooms(s Session, data json.RawMessage) ([]string, error) {
	var target models.ConversationTarget
	if len(data) > 0 {
		if err := json.Unmarshal(data, &target); err != nil {
			return nil, err
		}
	}

	var rooms []string
	if target.ReceiverID != nil {
		rooms = append(rooms, DirectRoomName(s.UserID, *target.ReceiverID))
	}
	if target.GroupID != nil {
		rooms = append(rooms, GroupRoomName(*target.GroupID))
	}
	return rooms, nil
}

// handleTyping relays typing state without persisting anything. A target
// that is offline or missing is silently ignored.
func (h *Hub) handleTyping(ctx context.Context, s Session, data json.RawMessage) (Session, []Emit) {
	var req models.TypingRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return s, []Emit{errorEmit(s.ConnID, "Invalid typing payload")}
	}

	payload := models.UserTypingPayload{UserID: s.UserID, Username: s.User.Username, IsTyping: req.IsTyping}

	var emits []Emit
	if req.ReceiverID != nil {
		if connID, ok := h.presence.Lookup(*req.ReceiverID); ok && connID != s.ConnID {
			emits = append(emits, Emit{ConnID: connID, Event: models.EventUserTyping, Payload: payload})
		}
	}
	if req.GroupID != nil {
		for _, connID := range h.rooms.Members(GroupRoomName(*req.GroupID)) {
			if connID != s.ConnID {
				emits = append(emits, Emit{ConnID: connID, Event: models.EventUserTyping, Payload: payload})
			}
		}
	}
	return s, emits
}
