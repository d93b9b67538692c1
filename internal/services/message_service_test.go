package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Dileepkumar18311/ChatApp/internal/config"
	"github.com/Dileepkumar18311/ChatApp/internal/database/dbtest"
	"github.com/Dileepkumar18311/ChatApp/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newMessageService() (*MessageService, *dbtest.Memory) {
	db := dbtest.NewMemory()
	return NewMessageService(db, config.HistoryConfig{DefaultLimit: 3, MaxLimit: 5}), db
}

func TestValidateSendRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     models.SendMessageRequest
		wantErr bool
	}{
		{name: "direct message", req: models.SendMessageRequest{Content: "hi", ReceiverID: intPtr(2)}},
		{name: "group message", req: models.SendMessageRequest{Content: "hi all", GroupID: intPtr(7)}},
		{name: "blank content", req: models.SendMessageRequest{Content: "   ", ReceiverID: intPtr(2)}, wantErr: true},
		{name: "no target", req: models.SendMessageRequest{Content: "hi"}, wantErr: true},
		{name: "both targets", req: models.SendMessageRequest{Content: "hi", ReceiverID: intPtr(2), GroupID: intPtr(7)}, wantErr: true},
		{name: "zero receiver", req: models.SendMessageRequest{Content: "hi", ReceiverID: intPtr(0)}, wantErr: true},
		{name: "negative group", req: models.SendMessageRequest{Content: "hi", GroupID: intPtr(-1)}, wantErr: true},
		{name: "too long", req: models.SendMessageRequest{Content: strings.Repeat("a", MaxContentLength+1), ReceiverID: intPtr(2)}, wantErr: true},
		{name: "max length", req: models.SendMessageRequest{Content: strings.Repeat("a", MaxContentLength), ReceiverID: intPtr(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSendRequest(&tt.req)
			if tt.wantErr {
				var ve *models.ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()
	svc, db := newMessageService()
	alice := db.AddUser("alice")
	bob := db.AddUser("bob")

	view, err := svc.Send(ctx, alice.ID, &models.SendMessageRequest{Content: "  hi  ", ReceiverID: intPtr(bob.ID)})
	require.NoError(t, err)

	assert.NotZero(t, view.ID, "Send() returned message without id")
	assert.Equal(t, "hi", view.Content, "content should be trimmed")
	assert.Equal(t, models.MessageTypeText, view.MessageType)
	require.NotNil(t, view.Sender)
	assert.Equal(t, alice.ID, view.Sender.ID)
	assert.Equal(t, "alice", view.Sender.Username)
	require.NotNil(t, view.Receiver)
	assert.Equal(t, bob.ID, view.Receiver.ID)
	assert.False(t, view.CreatedAt.IsZero(), "CreatedAt should be set by the store")
}

func TestMessageService_Send_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("validation stores nothing", func(t *testing.T) {
		svc, db := newMessageService()
		alice := db.AddUser("alice")

		_, err := svc.Send(ctx, alice.ID, &models.SendMessageRequest{Content: ""})
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Empty(t, db.Messages())
	})

	t.Run("store failure", func(t *testing.T) {
		svc, db := newMessageService()
		alice := db.AddUser("alice")
		bob := db.AddUser("bob")
		db.FailCreateMessage = errors.New("db down")

		_, err := svc.Send(ctx, alice.ID, &models.SendMessageRequest{Content: "hi", ReceiverID: intPtr(bob.ID)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("unknown receiver rejected by store", func(t *testing.T) {
		svc, db := newMessageService()
		alice := db.AddUser("alice")

		_, err := svc.Send(ctx, alice.ID, &models.SendMessageRequest{Content: "hi", ReceiverID: intPtr(42)})
		assert.Error(t, err)
	})
}

func TestMessageService_History(t *testing.T) {
	ctx := context.Background()
	svc, db := newMessageService()
	alice := db.AddUser("alice")
	bob := db.AddUser("bob")
	carol := db.AddUser("carol")

	for i := 1; i <= 5; i++ {
		from, to := alice, bob
		if i%2 == 0 {
			from, to = bob, alice
		}
		_, err := svc.Send(ctx, from.ID, &models.SendMessageRequest{Content: string(rune('0' + i)), ReceiverID: intPtr(to.ID)})
		require.NoError(t, err)
	}
	// Unrelated traffic must not leak into the pair.
	_, err := svc.Send(ctx, alice.ID, &models.SendMessageRequest{Content: "x", ReceiverID: intPtr(carol.ID)})
	require.NoError(t, err)

	tests := []struct {
		name        string
		page, limit int
		wantContent []string
		wantHasMore bool
		wantLimit   int
	}{
		{name: "default limit first page", page: 1, limit: 0, wantContent: []string{"3", "4", "5"}, wantHasMore: true, wantLimit: 3},
		{name: "second page", page: 2, limit: 3, wantContent: []string{"1", "2"}, wantHasMore: false, wantLimit: 3},
		{name: "limit capped", page: 1, limit: 50, wantContent: []string{"1", "2", "3", "4", "5"}, wantHasMore: true, wantLimit: 5},
		{name: "page below one", page: 0, limit: 2, wantContent: []string{"4", "5"}, wantHasMore: true, wantLimit: 2},
		{name: "past the end", page: 9, limit: 3, wantContent: []string{}, wantHasMore: false, wantLimit: 3},
		{name: "page beyond addressable offset", page: math.MaxInt/3 + 2, limit: 3, wantContent: []string{}, wantHasMore: false, wantLimit: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.History(ctx, alice.ID, bob.ID, tt.page, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantHasMore, page.HasMore)
			require.Len(t, page.Messages, len(tt.wantContent))
			for i, m := range page.Messages {
				assert.Equal(t, tt.wantContent[i], m.Content, "Messages[%d]", i)
			}
		})
	}

	t.Run("symmetric", func(t *testing.T) {
		a, err := svc.History(ctx, alice.ID, bob.ID, 1, 5)
		require.NoError(t, err)
		b, err := svc.History(ctx, bob.ID, alice.ID, 1, 5)
		require.NoError(t, err)
		require.Len(t, b.Messages, len(a.Messages))
		for i := range a.Messages {
			assert.Equal(t, a.Messages[i].ID, b.Messages[i].ID, "Messages[%d]", i)
		}
	})
}

func TestMessageService_Conversations(t *testing.T) {
	ctx := context.Background()
	svc, db := newMessageService()
	alice := db.AddUser("alice")
	bob := db.AddUser("bob")
	carol := db.AddUser("carol")

	send := func(from, to int, content string) {
		_, err := svc.Send(ctx, from, &models.SendMessageRequest{Content: content, ReceiverID: intPtr(to)})
		require.NoError(t, err)
	}
	send(alice.ID, bob.ID, "hi bob")
	send(carol.ID, alice.ID, "hi alice")
	send(bob.ID, alice.ID, "hey")

	convs, err := svc.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, bob.ID, convs[0].User.ID)
	assert.Equal(t, "hey", convs[0].LastMessage.Content)
	assert.Equal(t, carol.ID, convs[1].User.ID)
}
