package handlers

import (
	"log/slog"
	"net/http"

	"ripple-social/internal/realtime"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection and attaches it to the hub. The
// client passes its user ID as a query parameter at handshake time; a
// missing, "undefined" or malformed ID still gets a connection, it just
// stays unidentified and never receives direct pushes.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		if userID == "undefined" {
			userID = ""
		}
		if userID != "" {
			if _, err := uuid.Parse(userID); err != nil {
				slog.Warn("websocket handshake with malformed user ID", "userId", userID)
				userID = ""
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "error", err)
			return
		}

		client := realtime.NewClient(s.Hub, userID, conn)
		s.Hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
