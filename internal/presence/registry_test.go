package presence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup(1)
	require.False(t, ok, "Lookup() on empty registry should miss")

	assert.Empty(t, r.Register(1, "conn-a"))

	got, ok := r.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, "conn-a", got)
	assert.True(t, r.Online(1))
}

func TestRegistry_LastWriterWins(t *testing.T) {
	r := NewRegistry()
	r.Register(1, "conn-a")

	assert.Equal(t, "conn-a", r.Register(1, "conn-b"))
	got, _ := r.Lookup(1)
	assert.Equal(t, "conn-b", got)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_ReRegisterSameConnection(t *testing.T) {
	r := NewRegistry()
	r.Register(1, "conn-a")

	assert.Empty(t, r.Register(1, "conn-a"))
}

func TestRegistry_Unregister(t *testing.T) {
	tests := []struct {
		name       string
		connID     string
		wantRemove bool
		wantLookup string
	}{
		{name: "owner connection removes entry", connID: "conn-b", wantRemove: true},
		{name: "superseded connection leaves entry", connID: "conn-a", wantRemove: false, wantLookup: "conn-b"},
		{name: "unknown connection leaves entry", connID: "conn-z", wantRemove: false, wantLookup: "conn-b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.Register(1, "conn-a")
			r.Register(1, "conn-b")

			assert.Equal(t, tt.wantRemove, r.Unregister(1, tt.connID))

			got, ok := r.Lookup(1)
			if tt.wantLookup == "" {
				assert.False(t, ok, "Lookup(1) = %q, want miss", got)
				return
			}
			assert.Equal(t, tt.wantLookup, got)
		})
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			conn := fmt.Sprintf("conn-%d", id)
			r.Register(id, conn)
			r.Lookup(id)
			r.Unregister(id, conn)
		}(i)
	}
	wg.Wait()

	assert.Zero(t, r.Count())
}
