package websocket

import (
	"fmt"
	"sort"
	"sync"
)

// DirectRoomName is symmetric: both participants derive the same name.
func DirectRoomName(a, b int) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

func GroupRoomName(groupID int) string {
	return fmt.Sprintf("group_%d", groupID)
}

// RoomRouter tracks which connections joined which broadcast rooms.
// A room exists only while it has members.
type RoomRouter struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]struct{}
	byConn map[string]map[string]struct{}
}

func NewRoomRouter() *RoomRouter {
	return &RoomRouter{
		rooms:  make(map[string]map[string]struct{}),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Join reports whether connID was newly added; joining twice is a no-op.
func (r *RoomRouter) Join(room, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]struct{})
		r.rooms[room] = members
	}
	if _, ok := members[connID]; ok {
		return false
	}
	members[connID] = struct{}{}

	joined, ok := r.byConn[connID]
	if !ok {
		joined = make(map[string]struct{})
		r.byConn[connID] = joined
	}
	joined[room] = struct{}{}
	return true
}

func (r *RoomRouter) Leave(room, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(room, connID)
}

func (r *RoomRouter) leaveLocked(room, connID string) bool {
	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	if _, ok := members[connID]; !ok {
		return false
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	if joined, ok := r.byConn[connID]; ok {
		delete(joined, room)
		if len(joined) == 0 {
			delete(r.byConn, connID)
		}
	}
	return true
}

// DropConnection removes connID from every room it joined.
func (r *RoomRouter) DropConnection(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.byConn[connID] {
		r.leaveLocked(room, connID)
	}
}

// Members returns the connection ids in room, sorted.
func (r *RoomRouter) Members(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]string, 0, len(r.rooms[room]))
	for connID := range r.rooms[room] {
		members = append(members, connID)
	}
	sort.Strings(members)
	return members
}

func (r *RoomRouter) RoomsOf(connID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]string, 0, len(r.byConn[connID]))
	for room := range r.byConn[connID] {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	return rooms
}

func (r *RoomRouter) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
