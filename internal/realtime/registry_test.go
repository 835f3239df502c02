package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string) *Client {
	return NewClient(nil, userID, nil)
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	client := newTestClient("user-1")

	prev := registry.Register("user-1", client)
	assert.Nil(t, prev)

	got, ok := registry.Lookup("user-1")
	require.True(t, ok)
	assert.Same(t, client, got)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryLastConnectedWins(t *testing.T) {
	registry := NewRegistry()
	first := newTestClient("user-1")
	second := newTestClient("user-1")

	registry.Register("user-1", first)
	prev := registry.Register("user-1", second)

	require.NotNil(t, prev)
	assert.Same(t, first, prev)

	got, ok := registry.Lookup("user-1")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryConditionalRemove(t *testing.T) {
	registry := NewRegistry()
	first := newTestClient("user-1")
	second := newTestClient("user-1")

	registry.Register("user-1", first)
	registry.Register("user-1", second)

	// The stale connection's disconnect must not erase the fresher entry.
	removed := registry.Remove("user-1", first.ConnID)
	assert.False(t, removed)

	got, ok := registry.Lookup("user-1")
	require.True(t, ok)
	assert.Same(t, second, got)

	removed = registry.Remove("user-1", second.ConnID)
	assert.True(t, removed)

	_, ok = registry.Lookup("user-1")
	assert.False(t, ok)
	assert.Equal(t, 0, registry.Count())
}

func TestRegistryRemoveAbsentUser(t *testing.T) {
	registry := NewRegistry()
	assert.False(t, registry.Remove("nobody", "conn"))
}

func TestRegistryOnline(t *testing.T) {
	registry := NewRegistry()
	registry.Register("user-1", newTestClient("user-1"))
	registry.Register("user-2", newTestClient("user-2"))

	online := registry.Online()
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, online)
}
