package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case payload := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHubRegisterBroadcastsOnlineUsers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, "user-1", nil)
	hub.Register <- client

	event := receiveEvent(t, client)
	assert.Equal(t, EventOnlineUsers, event.Event)

	users, ok := event.Data.([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"user-1"}, users)
}

func TestHubUnidentifiedClientSeesBroadcastsOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	anon := NewClient(hub, "", nil)
	hub.Register <- anon

	event := receiveEvent(t, anon)
	assert.Equal(t, EventOnlineUsers, event.Event)
	assert.Empty(t, event.Data)

	// An unidentified client is not reachable by direct push.
	assert.False(t, hub.SendToUser("", []byte("x")))
}

func TestHubSendToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, "user-1", nil)
	hub.Register <- client
	receiveEvent(t, client) // drain the presence broadcast

	payload, err := MarshalEvent(EventNewMessage, map[string]string{"text": "hello"})
	require.NoError(t, err)

	assert.True(t, hub.SendToUser("user-1", payload))

	event := receiveEvent(t, client)
	assert.Equal(t, EventNewMessage, event.Event)

	data, ok := event.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hello", data["text"])
}

func TestHubSendToOfflineUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	assert.False(t, hub.SendToUser("user-1", []byte("x")))
}

func TestHubDisconnectRemovesPresence(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, "user-1", nil)
	hub.Register <- client
	receiveEvent(t, client)

	hub.Unregister <- client

	// The unregister is processed before the next register, both run on
	// the hub goroutine.
	probe := NewClient(hub, "user-2", nil)
	hub.Register <- probe

	event := receiveEvent(t, probe)
	assert.Equal(t, EventOnlineUsers, event.Event)
	assert.Equal(t, []interface{}{"user-2"}, event.Data)

	assert.False(t, hub.SendToUser("user-1", []byte("x")))
}

func TestCallRelay(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	caller := NewClient(hub, "user-1", nil)
	callee := NewClient(hub, "user-2", nil)
	hub.Register <- caller
	receiveEvent(t, caller)
	hub.Register <- callee
	receiveEvent(t, caller)
	receiveEvent(t, callee)

	frame := []byte(`{"event":"user:call","data":{"to":"user-2","offer":{"type":"offer","sdp":"v=0"}}}`)
	caller.handleInbound(frame)

	event := receiveEvent(t, callee)
	assert.Equal(t, EventIncomingCall, event.Event)

	data, ok := event.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "user-1", data["from"])

	offer, ok := data["offer"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "v=0", offer["sdp"])
}

func TestCallRelayDropsInvalidFrames(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	caller := NewClient(hub, "user-1", nil)
	callee := NewClient(hub, "user-2", nil)
	anon := NewClient(hub, "", nil)
	hub.Register <- caller
	receiveEvent(t, caller)
	hub.Register <- callee
	receiveEvent(t, caller)
	receiveEvent(t, callee)

	// Unidentified callers, unknown events, garbage, and missing targets
	// all relay nothing.
	anon.handleInbound([]byte(`{"event":"user:call","data":{"to":"user-2","offer":{}}}`))
	caller.handleInbound([]byte(`{"event":"something:else","data":{"to":"user-2"}}`))
	caller.handleInbound([]byte(`not json`))
	caller.handleInbound([]byte(`{"event":"user:call","data":{"offer":{}}}`))

	select {
	case payload := <-callee.Send:
		t.Fatalf("unexpected push: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCallRelayToOfflineUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	assert.False(t, hub.RelayCall("user-1", CallPayload{To: "user-2"}))
}

func TestHubReconnectSurvivesStaleDisconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := NewClient(hub, "user-1", nil)
	hub.Register <- first
	receiveEvent(t, first)

	second := NewClient(hub, "user-1", nil)
	hub.Register <- second
	receiveEvent(t, first)
	receiveEvent(t, second)

	// The stale session disconnecting must not take down the fresh one.
	hub.Unregister <- first
	receiveEvent(t, second)

	payload, err := MarshalEvent(EventNewMessage, "ping")
	require.NoError(t, err)
	assert.True(t, hub.SendToUser("user-1", payload))

	event := receiveEvent(t, second)
	assert.Equal(t, EventNewMessage, event.Event)
}
