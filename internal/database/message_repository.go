package database

import (
	"context"
	"fmt"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageDocument represents the MongoDB document structure for a direct message
type MessageDocument struct {
	ID             string    `bson:"_id"`
	ConversationID string    `bson:"conversationId"`
	Sender         string    `bson:"sender"`
	Text           string    `bson:"text"`
	CreatedAt      time.Time `bson:"createdAt"`
}

// InsertMessage persists a new direct message.
func (m *MongoDB) InsertMessage(ctx context.Context, message *models.Message) error {
	doc := MessageDocument{
		ID:             message.ID.String(),
		ConversationID: message.ConversationID.String(),
		Sender:         message.Sender.String(),
		Text:           message.Text,
		CreatedAt:      message.CreatedAt,
	}

	if _, err := m.Messages.InsertOne(ctx, doc); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save message", err)
	}
	return nil
}

// ConversationMessages returns the full message history for a conversation,
// oldest first.
func (m *MongoDB) ConversationMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := m.Messages.Find(ctx, bson.M{"conversationId": conversationID.String()}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get messages", err)
	}
	defer cursor.Close(ctx)

	var messages []*models.Message
	for cursor.Next(ctx) {
		var doc MessageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode message", err)
		}

		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid message ID in database: %v", err)
		}
		convID, err := uuid.Parse(doc.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("invalid conversation ID in database: %v", err)
		}
		sender, err := uuid.Parse(doc.Sender)
		if err != nil {
			return nil, fmt.Errorf("invalid sender ID in database: %v", err)
		}

		messages = append(messages, &models.Message{
			ID:             id,
			ConversationID: convID,
			Sender:         sender,
			Text:           doc.Text,
			CreatedAt:      doc.CreatedAt,
		})
	}

	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "message cursor iteration failed", err)
	}

	return messages, nil
}
