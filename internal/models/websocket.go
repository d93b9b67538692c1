package models

import "encoding/json"

type EventName string

const (
	EventAuthenticate      EventName = "authenticate"
	EventAuthenticated     EventName = "authenticated"
	EventSendMessage       EventName = "sendMessage"
	EventMessageReceived   EventName = "messageReceived"
	EventJoinConversation  EventName = "joinConversation"
	EventLeaveConversation EventName = "leaveConversation"
	EventTyping            EventName = "typing"
	EventUserTyping        EventName = "userTyping"
	EventError             EventName = "error"
)

// WebSocketMessage is the frame exchanged in both directions.
type WebSocketMessage struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type AuthenticatedPayload struct {
	Success bool      `json:"success"`
	User    *Identity `json:"user,omitempty"`
	Error   string    `json:"error,omitempty"`
}

type ConversationTarget struct {
	ReceiverID *int `json:"receiverId,omitempty"`
	GroupID    *int `json:"groupId,omitempty"`
}

type TypingRequest struct {
	ConversationTarget
	IsTyping bool `json:"isTyping"`
}

type UserTypingPayload struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
