// Package presence tracks which connection currently reaches each user.
//
// A user has at most one registered connection: a later Register for the same
// user replaces the earlier one. The registry is process-local.
package presence

import "sync"

type Registry struct {
	mu     sync.RWMutex
	byUser map[int]string
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[int]string)}
}

// Register maps userID to connID, replacing any previous connection.
// It returns the replaced connection id, if any.
func (r *Registry) Register(userID int, connID string) (replaced string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byUser[userID]; ok && prev != connID {
		replaced = prev
	}
	r.byUser[userID] = connID
	return replaced
}

func (r *Registry) Lookup(userID int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.byUser[userID]
	return connID, ok
}

// Unregister removes the entry for userID only while connID still owns it,
// so a superseded connection closing late cannot evict its replacement.
func (r *Registry) Unregister(userID int, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.byUser[userID]; ok && current == connID {
		delete(r.byUser, userID)
		return true
	}
	return false
}

func (r *Registry) Online(userID int) bool {
	_, ok := r.Lookup(userID)
	return ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
