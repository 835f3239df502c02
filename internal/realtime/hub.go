package realtime

import (
	"encoding/json"
	"log/slog"
)

// Event names pushed to clients.
const (
	EventOnlineUsers  = "getOnlineUsers"
	EventNewMessage   = "newMessage"
	EventIncomingCall = "incoming:call"
)

// Event names accepted from clients.
const (
	EventUserCall = "user:call"
)

// Event is the envelope for every payload pushed over a websocket.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// MarshalEvent encodes an event envelope for the wire.
func MarshalEvent(name string, data interface{}) ([]byte, error) {
	return json.Marshal(Event{Event: name, Data: data})
}

// Hub maintains the set of active clients and the presence registry. All
// connection lifecycle handling runs on the hub goroutine; direct pushes go
// through the registry, which is safe for concurrent use.
type Hub struct {
	// Every connected client, identified or not. Broadcasts reach all of
	// them; only identified clients appear in the registry.
	conns map[*Client]bool

	// Presence: user ID -> most recent identified client.
	registry *Registry

	// Register requests from new connections.
	Register chan *Client

	// Unregister requests from closing connections.
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		conns:      make(map[*Client]bool),
		registry:   NewRegistry(),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Registry exposes the presence registry for read-side collaborators.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	slog.Info("websocket hub started")
	for {
		select {
		case client := <-h.Register:
			h.conns[client] = true
			if client.UserID != "" {
				if prev := h.registry.Register(client.UserID, client); prev != nil {
					// The previous session stays connected but no longer
					// receives direct pushes (last-connected-wins).
					slog.Debug("presence overwritten", "user", client.UserID, "prevConn", prev.ConnID, "conn", client.ConnID)
				}
			}
			h.broadcastOnline()

		case client := <-h.Unregister:
			if _, ok := h.conns[client]; !ok {
				continue
			}
			delete(h.conns, client)
			if client.UserID != "" {
				// Conditional removal: a reconnect may already own the
				// user's entry.
				h.registry.Remove(client.UserID, client.ConnID)
			}
			h.broadcastOnline()
		}
	}
}

// SendToUser pushes a payload to the user's live connection, if one exists.
// Delivery is best-effort: an offline user, a stale entry, or a full send
// buffer all report false and are never treated as errors.
func (h *Hub) SendToUser(userID string, payload []byte) bool {
	client, ok := h.registry.Lookup(userID)
	if !ok {
		return false
	}
	select {
	case client.Send <- payload:
		return true
	default:
		slog.Warn("send buffer full, dropping push", "user", userID, "conn", client.ConnID)
		return false
	}
}

// CallPayload carries call signaling between two live connections. The
// offer is relayed opaquely; the server never inspects it.
type CallPayload struct {
	To    string          `json:"to,omitempty"`
	From  string          `json:"from,omitempty"`
	Offer json.RawMessage `json:"offer"`
}

// RelayCall forwards a caller's offer to the callee's live connection as an
// incoming-call event. Same best-effort contract as any other push.
func (h *Hub) RelayCall(from string, payload CallPayload) bool {
	out, err := MarshalEvent(EventIncomingCall, CallPayload{From: from, Offer: payload.Offer})
	if err != nil {
		slog.Error("failed to encode incoming-call event", "err", err)
		return false
	}
	return h.SendToUser(payload.To, out)
}

// broadcastOnline emits the current online-user set to every connection,
// including unidentified ones.
func (h *Hub) broadcastOnline() {
	payload, err := MarshalEvent(EventOnlineUsers, h.registry.Online())
	if err != nil {
		slog.Error("failed to encode online-users event", "err", err)
		return
	}
	for client := range h.conns {
		select {
		case client.Send <- payload:
		default:
			slog.Warn("broadcast buffer full", "user", client.UserID, "conn", client.ConnID)
		}
	}
}
