package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Dileepkumar18311/ChatApp/internal/config"
	"github.com/Dileepkumar18311/ChatApp/internal/database"
	"github.com/Dileepkumar18311/ChatApp/internal/models"
)

const MaxContentLength = 5000

type MessageService struct {
	db      database.MessageRepository
	history config.HistoryConfig
}

func NewMessageService(db database.MessageRepository, history config.HistoryConfig) *MessageService {
	return &MessageService{db: db, history: history}
}

// ValidateSendRequest is shared by the realtime and REST send paths: content must be
// non-blank and exactly one positive target id must be set.
func ValidateSendRequest(req *models.SendMessageRequest) error {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return models.Invalid("message content is required")
	}
	if len([]rune(content)) > MaxContentLength {
		return models.Invalid("message content must be at most %d characters", MaxContentLength)
	}

	hasReceiver := req.ReceiverID != nil
	hasGroup := req.GroupID != nil
	switch {
	case hasReceiver && hasGroup:
		return models.Invalid("specify either receiverId or groupId, not both")
	case !hasReceiver && !hasGroup:
		return models.Invalid("receiverId or groupId is required")
	case hasReceiver && *req.ReceiverID <= 0:
		return models.Invalid("receiverId must be positive")
	case hasGroup && *req.GroupID <= 0:
		return models.Invalid("groupId must be positive")
	}
	return nil
}

// Send persists a text message from senderID and returns it joined with its
// participants. Nothing is stored when validation fails.
func (s *MessageService) Send(ctx context.Context, senderID int, req *models.SendMessageRequest) (*models.MessageView, error) {
	if err := ValidateSendRequest(req); err != nil {
		return nil, err
	}

	created, err := s.db.CreateMessage(ctx, &models.Message{
		Content:     strings.TrimSpace(req.Content),
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		GroupID:     req.GroupID,
		MessageType: models.MessageTypeText,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}

	view, err := s.db.GetMessageView(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load message %d: %w", created.ID, err)
	}
	return view, nil
}

// History returns one page of the direct conversation between userID and peerID.
// Pages count back from the newest message; messages inside a page are chronological.
func (s *MessageService) History(ctx context.Context, userID, peerID, page, limit int) (*models.MessagePage, error) {
	if peerID <= 0 {
		return nil, models.Invalid("receiverId must be positive")
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.history.DefaultLimit
	}
	if limit > s.history.MaxLimit {
		limit = s.history.MaxLimit
	}
	if limit < 1 {
		limit = 1
	}

	// A page whose offset would overflow lies past any stored history.
	if page-1 > math.MaxInt/limit {
		return &models.MessagePage{Messages: []*models.MessageView{}, Page: page, Limit: limit}, nil
	}

	messages, err := s.db.ListConversationMessages(ctx, userID, peerID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	// Reverse to show oldest first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return &models.MessagePage{
		Messages: messages,
		Page:     page,
		Limit:    limit,
		HasMore:  len(messages) == limit,
	}, nil
}

func (s *MessageService) Conversations(ctx context.Context, userID int) ([]*models.Conversation, error) {
	return s.db.ListConversations(ctx, userID)
}
