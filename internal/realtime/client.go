package realtime

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lithammer/shortuuid/v4"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Call offers carry session
	// descriptions, which run well past a typical chat frame.
	maxMessageSize = 8192
)

// Client is a middleman between a websocket connection and the hub. UserID
// is empty for connections that did not identify themselves at handshake
// time; such clients receive broadcasts but are never registered for
// presence or direct pushes.
type Client struct {
	Hub *Hub

	// The user ID this client claims, taken verbatim from the handshake.
	UserID string

	// ConnID identifies this particular connection, so removal on
	// disconnect can be conditional on the registry still pointing here.
	ConnID string

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte
}

func NewClient(hub *Hub, userID string, conn *websocket.Conn) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		ConnID: shortuuid.New(),
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
}

// ReadPump pumps messages from the websocket connection to the hub. The
// only inbound event the socket accepts is call signaling; everything else
// just keeps the connection alive.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("websocket read error", "user", c.UserID, "conn", c.ConnID, "err", err)
			}
			break
		}
		c.handleInbound(raw)
	}
}

// handleInbound decodes a client event and dispatches it. Malformed or
// unknown events are dropped; only identified clients may place calls.
func (c *Client) handleInbound(raw []byte) {
	var event struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &event); err != nil || event.Event != EventUserCall {
		return
	}
	if c.UserID == "" {
		return
	}
	var payload CallPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil || payload.To == "" {
		return
	}
	c.Hub.RelayCall(c.UserID, payload)
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Debug("websocket write error", "user", c.UserID, "conn", c.ConnID, "err", err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
