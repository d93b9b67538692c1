package models

import "time"

const MessageTypeText = "text"

type Message struct {
	ID          int        `json:"id"`
	Content     string     `json:"content"`
	SenderID    int        `json:"senderId"`
	ReceiverID  *int       `json:"receiverId"`
	GroupID     *int       `json:"groupId"`
	MessageType string     `json:"messageType"`
	IsEdited    bool       `json:"isEdited"`
	EditedAt    *time.Time `json:"editedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Participant is the receiver snapshot; unlike the sender it carries no avatar.
type Participant struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// MessageView is a stored message joined with its participants at read time.
type MessageView struct {
	Message
	Sender   *Identity    `json:"sender"`
	Receiver *Participant `json:"receiver"`
}

type SendMessageRequest struct {
	Content    string `json:"content"`
	ReceiverID *int   `json:"receiverId,omitempty"`
	GroupID    *int   `json:"groupId,omitempty"`
}

type MessagePage struct {
	Messages []*MessageView `json:"messages"`
	Page     int            `json:"page"`
	Limit    int            `json:"limit"`
	HasMore  bool           `json:"hasMore"`
}

type Conversation struct {
	User        Identity     `json:"user"`
	LastMessage *MessageView `json:"lastMessage"`
}
