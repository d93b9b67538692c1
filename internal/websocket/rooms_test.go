package websocket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectRoomName(t *testing.T) {
	tests := []struct {
		a, b int
		want string
	}{
		{a: 1, b: 2, want: "1_2"},
		{a: 2, b: 1, want: "1_2"},
		{a: 9, b: 10, want: "9_10"},
		{a: 10, b: 9, want: "9_10"},
		{a: 5, b: 5, want: "5_5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DirectRoomName(tt.a, tt.b))
		assert.Equal(t, DirectRoomName(tt.b, tt.a), DirectRoomName(tt.a, tt.b), "DirectRoomName(%d, %d) is not symmetric", tt.a, tt.b)
	}
}

func TestGroupRoomName(t *testing.T) {
	assert.Equal(t, "group_42", GroupRoomName(42))
}

func TestRoomRouter_JoinIsIdempotent(t *testing.T) {
	r := NewRoomRouter()

	require.True(t, r.Join("group_1", "c1"))
	assert.False(t, r.Join("group_1", "c1"), "second Join() should report no change")
	assert.Equal(t, []string{"c1"}, r.Members("group_1"))
}

func TestRoomRouter_LeaveRemovesEmptyRoom(t *testing.T) {
	r := NewRoomRouter()
	r.Join("group_1", "c1")
	r.Join("group_1", "c2")

	require.True(t, r.Leave("group_1", "c1"))
	assert.False(t, r.Leave("group_1", "c1"), "Leave() of a non-member should report no change")
	assert.Equal(t, 1, r.RoomCount())

	r.Leave("group_1", "c2")
	assert.Zero(t, r.RoomCount(), "room should be removed after last member left")
	assert.Empty(t, r.Members("group_1"))
}

func TestRoomRouter_DropConnection(t *testing.T) {
	r := NewRoomRouter()
	r.Join("group_1", "c1")
	r.Join("1_2", "c1")
	r.Join("group_1", "c2")

	require.Len(t, r.RoomsOf("c1"), 2)

	r.DropConnection("c1")

	assert.Empty(t, r.RoomsOf("c1"))
	assert.Equal(t, []string{"c2"}, r.Members("group_1"))
	assert.Equal(t, 1, r.RoomCount())
}

func TestRoomRouter_Concurrent(t *testing.T) {
	r := NewRoomRouter()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn := string(rune('a' + i%26))
			r.Join("group_1", conn)
			r.Members("group_1")
			r.DropConnection(conn)
		}(i)
	}
	wg.Wait()

	assert.Zero(t, r.RoomCount())
}
