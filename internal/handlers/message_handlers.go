package handlers

import (
	"encoding/json"
	"net/http"

	"ripple-social/internal/engine/actors"
	"ripple-social/internal/middleware"

	"github.com/google/uuid"
)

// SendMessageRequest represents a request to send a direct message
type SendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Message     string `json:"message"`
}

// HandleSendMessage persists a direct message and triggers best-effort
// real-time delivery to the recipient.
func (s *Server) HandleSendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		senderID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		var req SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		recipientID, err := uuid.Parse(req.RecipientID)
		if err != nil {
			http.Error(w, "Invalid recipient ID", http.StatusBadRequest)
			return
		}

		msg := &actors.SendMessageMsg{
			From: senderID,
			To:   recipientID,
			Text: req.Message,
		}

		result, ok := s.request(w, s.Engine.GetMessagingActor(), msg)
		if !ok {
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}

// HandleGetMessages returns the full message history with another user,
// oldest first.
func (s *Server) HandleGetMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		otherID, err := uuid.Parse(r.PathValue("otherUserId"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		msg := &actors.GetConversationMsg{
			UserID:      userID,
			OtherUserID: otherID,
		}

		result, ok := s.request(w, s.Engine.GetMessagingActor(), msg)
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// HandleConversations lists the caller's conversations, most recently
// active first, each with the other participant's public profile and the
// last-message summary.
func (s *Server) HandleConversations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		result, ok := s.request(w, s.Engine.GetMessagingActor(), &actors.ListConversationsMsg{UserID: userID})
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
