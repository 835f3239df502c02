package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation pairs exactly two participants for direct messaging. It is
// created lazily on the first message between a pair and carries a
// denormalized summary of the most recent message for list views.
type Conversation struct {
	ID           uuid.UUID      `json:"id"`
	Participants []uuid.UUID    `json:"participants"`
	LastMessage  MessageSummary `json:"lastMessage"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// MessageSummary is the denormalized last-message cache stored on a
// conversation.
type MessageSummary struct {
	Text   string    `json:"text"`
	Sender uuid.UUID `json:"sender"`
}

// Message is a single direct message. Immutable once created.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversationId"`
	Sender         uuid.UUID `json:"sender"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ConversationSummary is the list-view projection of a conversation: the
// other participant's public profile plus the last-message summary. The
// caller's own profile is never included.
type ConversationSummary struct {
	ID          uuid.UUID      `json:"id"`
	Participant *PublicProfile `json:"participant"`
	LastMessage MessageSummary `json:"lastMessage"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// OtherParticipant returns the participant that is not the given user.
// Self-conversations fall back to the user itself.
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return userID
}
