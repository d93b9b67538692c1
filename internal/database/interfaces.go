package database

import (
	"context"
	"errors"

	"github.com/Dileepkumar18311/ChatApp/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int, req *models.UpdateProfileRequest) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int, hash string) error
	ListUsers(ctx context.Context, excludeID int, search string) ([]*models.Identity, error)
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetMessageView(ctx context.Context, id int) (*models.MessageView, error)
	ListConversationMessages(ctx context.Context, userID, peerID, limit, offset int) ([]*models.MessageView, error)
	ListConversations(ctx context.Context, userID int) ([]*models.Conversation, error)
}

type Database interface {
	UserRepository
	MessageRepository
	Close() error
}
