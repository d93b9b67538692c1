// Package dbtest provides an in-memory database.Database for tests.
package dbtest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dileepkumar18311/ChatApp/internal/database"
	"github.com/Dileepkumar18311/ChatApp/internal/models"
)

type Memory struct {
	mu       sync.Mutex
	users    map[int]*models.User
	messages []*models.Message
	nextUser int
	nextMsg  int
	clock    time.Time

	// FailCreateMessage, when set, is returned by CreateMessage.
	FailCreateMessage error
	// FailGetMessage, when set, is returned by GetMessageView.
	FailGetMessage error
}

var _ database.Database = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users: make(map[int]*models.User),
		clock: time.Date(2025, 8, 23, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (m *Memory) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *Memory) Close() error { return nil }

// AddUser stores a user with the given username; email and display name are derived.
func (m *Memory) AddUser(username string) *models.User {
	u, err := m.CreateUser(context.Background(), &models.User{
		Username:     username,
		Email:        username + "@example.com",
		DisplayName:  strings.ToUpper(username[:1]) + username[1:],
		PasswordHash: "x",
	})
	if err != nil {
		panic(err)
	}
	return u
}

func (m *Memory) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, fmt.Errorf("failed to create user: %w", database.ErrConflict)
		}
	}
	m.nextUser++
	created := *user
	created.ID = m.nextUser
	created.CreatedAt = m.tick()
	created.UpdatedAt = created.CreatedAt
	m.users[created.ID] = &created

	out := created
	return &out, nil
}

func (m *Memory) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *Memory) UserExists(ctx context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) UpdateProfile(ctx context.Context, id int, req *models.UpdateProfileRequest) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	for _, other := range m.users {
		if other.ID == id {
			continue
		}
		if (req.Username != "" && other.Username == req.Username) || (req.Email != "" && other.Email == req.Email) {
			return nil, fmt.Errorf("failed to update profile: %w", database.ErrConflict)
		}
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setOptional := func(dst **string, v string) {
		if v != "" {
			s := v
			*dst = &s
		}
	}
	setString(&u.DisplayName, req.DisplayName)
	setString(&u.Username, req.Username)
	setString(&u.Email, req.Email)
	setOptional(&u.Status, req.Status)
	setOptional(&u.ContactNumber, req.ContactNumber)
	setOptional(&u.Avatar, req.Avatar)
	setOptional(&u.Bio, req.Bio)
	u.UpdatedAt = m.tick()

	out := *u
	return &out, nil
}

func (m *Memory) UpdatePasswordHash(ctx context.Context, id int, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return database.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *Memory) ListUsers(ctx context.Context, excludeID int, search string) ([]*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	search = strings.ToLower(search)
	users := []*models.Identity{}
	for _, u := range m.users {
		if u.ID == excludeID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Username), search) &&
			!strings.Contains(strings.ToLower(u.DisplayName), search) {
			continue
		}
		id := u.Identity()
		users = append(users, &id)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *Memory) CreateMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreateMessage != nil {
		return nil, m.FailCreateMessage
	}
	if _, ok := m.users[msg.SenderID]; !ok {
		return nil, fmt.Errorf("failed to save message: unknown sender %d", msg.SenderID)
	}
	if msg.ReceiverID != nil {
		if _, ok := m.users[*msg.ReceiverID]; !ok {
			return nil, fmt.Errorf("failed to save message: unknown receiver %d", *msg.ReceiverID)
		}
	}

	m.nextMsg++
	created := *msg
	created.ID = m.nextMsg
	created.CreatedAt = m.tick()
	created.UpdatedAt = created.CreatedAt
	m.messages = append(m.messages, &created)

	out := created
	return &out, nil
}

func (m *Memory) view(msg *models.Message) *models.MessageView {
	v := &models.MessageView{Message: *msg}
	if s, ok := m.users[msg.SenderID]; ok {
		id := s.Identity()
		v.Sender = &id
	}
	if msg.ReceiverID != nil {
		if r, ok := m.users[*msg.ReceiverID]; ok {
			v.Receiver = &models.Participant{ID: r.ID, Username: r.Username, DisplayName: r.DisplayName}
		}
	}
	return v
}

func (m *Memory) GetMessageView(ctx context.Context, id int) (*models.MessageView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailGetMessage != nil {
		return nil, m.FailGetMessage
	}
	for _, msg := range m.messages {
		if msg.ID == id {
			return m.view(msg), nil
		}
	}
	return nil, database.ErrNotFound
}

func isPair(msg *models.Message, a, b int) bool {
	if msg.GroupID != nil || msg.ReceiverID == nil {
		return false
	}
	r := *msg.ReceiverID
	return (msg.SenderID == a && r == b) || (msg.SenderID == b && r == a)
}

func (m *Memory) ListConversationMessages(ctx context.Context, userID, peerID, limit, offset int) ([]*models.MessageView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*models.MessageView{}
	skipped := 0
	for i := len(m.messages) - 1; i >= 0 && len(out) < limit; i-- {
		msg := m.messages[i]
		if !isPair(msg, userID, peerID) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, m.view(msg))
	}
	return out, nil
}

func (m *Memory) ListConversations(ctx context.Context, userID int) ([]*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := map[int]bool{}
	out := []*models.Conversation{}
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if msg.GroupID != nil || msg.ReceiverID == nil {
			continue
		}
		var peer int
		switch userID {
		case msg.SenderID:
			peer = *msg.ReceiverID
		case *msg.ReceiverID:
			peer = msg.SenderID
		default:
			continue
		}
		if seen[peer] {
			continue
		}
		seen[peer] = true
		out = append(out, &models.Conversation{
			User:        m.users[peer].Identity(),
			LastMessage: &models.MessageView{Message: *msg},
		})
	}
	return out, nil
}

// Messages returns a copy of every stored message in insertion order.
func (m *Memory) Messages() []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Message, len(m.messages))
	for i, msg := range m.messages {
		out[i] = *msg
	}
	return out
}
