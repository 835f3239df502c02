package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationDocument represents the MongoDB document structure for a
// direct-message conversation. ParticipantKey is the sorted participant
// pair and carries a unique index, so an unordered pair maps to at most
// one conversation.
type ConversationDocument struct {
	ID             string                 `bson:"_id"`
	Participants   []string               `bson:"participants"`
	ParticipantKey string                 `bson:"participantKey"`
	LastMessage    MessageSummaryDocument `bson:"lastMessage"`
	CreatedAt      time.Time              `bson:"createdAt"`
	UpdatedAt      time.Time              `bson:"updatedAt"`
}

type MessageSummaryDocument struct {
	Text   string `bson:"text"`
	Sender string `bson:"sender"`
}

// ParticipantKey normalizes an unordered user pair into the unique lookup
// key used by the conversations collection.
func ParticipantKey(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

func conversationDocumentToModel(doc *ConversationDocument) (*models.Conversation, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation ID in database: %v", err)
	}

	participants := make([]uuid.UUID, len(doc.Participants))
	for i, p := range doc.Participants {
		participants[i], err = uuid.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("invalid participant ID in database: %v", err)
		}
	}

	sender, err := uuid.Parse(doc.LastMessage.Sender)
	if err != nil {
		return nil, fmt.Errorf("invalid sender ID in database: %v", err)
	}

	return &models.Conversation{
		ID:           id,
		Participants: participants,
		LastMessage: models.MessageSummary{
			Text:   doc.LastMessage.Text,
			Sender: sender,
		},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// FindConversation looks up the conversation for an unordered user pair.
func (m *MongoDB) FindConversation(ctx context.Context, a, b uuid.UUID) (*models.Conversation, error) {
	var doc ConversationDocument

	err := m.Conversations.FindOne(ctx, bson.M{"participantKey": ParticipantKey(a, b)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewConversationNotFoundError()
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to find conversation", err)
	}

	return conversationDocumentToModel(&doc)
}

// CreateConversation inserts a conversation for the pair with the given
// initial last-message summary. If another writer inserted the same pair
// first, the duplicate-key error is treated as losing the race and the
// winner's conversation is fetched and returned instead.
func (m *MongoDB) CreateConversation(ctx context.Context, a, b uuid.UUID, last models.MessageSummary) (*models.Conversation, error) {
	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:           uuid.New(),
		Participants: []uuid.UUID{a, b},
		LastMessage:  last,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc := ConversationDocument{
		ID:             conv.ID.String(),
		Participants:   []string{a.String(), b.String()},
		ParticipantKey: ParticipantKey(a, b),
		LastMessage: MessageSummaryDocument{
			Text:   last.Text,
			Sender: last.Sender.String(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := m.Conversations.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return m.FindConversation(ctx, a, b)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to create conversation", err)
	}

	return conv, nil
}

// UpdateLastMessage overwrites the conversation's last-message summary.
func (m *MongoDB) UpdateLastMessage(ctx context.Context, conversationID uuid.UUID, last models.MessageSummary, at time.Time) error {
	filter := bson.M{"_id": conversationID.String()}
	update := bson.M{"$set": bson.M{
		"lastMessage": MessageSummaryDocument{
			Text:   last.Text,
			Sender: last.Sender.String(),
		},
		"updatedAt": at,
	}}

	result, err := m.Conversations.UpdateOne(ctx, filter, update)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update conversation summary", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewConversationNotFoundError()
	}
	return nil
}

// UserConversations returns every conversation the user participates in,
// most recently active first.
func (m *MongoDB) UserConversations(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := m.Conversations.Find(ctx, bson.M{"participants": userID.String()}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list conversations", err)
	}
	defer cursor.Close(ctx)

	var conversations []*models.Conversation
	for cursor.Next(ctx) {
		var doc ConversationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode conversation", err)
		}

		conv, err := conversationDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}

	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "conversation cursor iteration failed", err)
	}

	return conversations, nil
}
