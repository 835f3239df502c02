package actors

import (
	"log/slog"
	"strings"
	"time"

	stdctx "context"

	"ripple-social/internal/models"
	"ripple-social/internal/realtime"
	"ripple-social/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for MessagingActor
type (
	SendMessageMsg struct {
		From uuid.UUID `json:"from"`
		To   uuid.UUID `json:"to"`
		Text string    `json:"text"`
	}

	GetConversationMsg struct {
		UserID      uuid.UUID `json:"userId"`
		OtherUserID uuid.UUID `json:"otherUserId"`
	}

	ListConversationsMsg struct {
		UserID uuid.UUID `json:"userId"`
	}
)

// MessagingActor coordinates direct-message delivery: it persists each
// message, overwrites the conversation's last-message summary, and then
// attempts a best-effort real-time push to the recipient. Persistence is
// the source of truth; a recipient without a live connection simply sees
// the message on their next fetch.
type MessagingActor struct {
	conversations ConversationStore
	messages      MessageStore
	profiles      UserStore
	push          Pusher
	metrics       *utils.MetricsCollector
}

func NewMessagingActor(conversations ConversationStore, messages MessageStore, profiles UserStore, push Pusher, metrics *utils.MetricsCollector) actor.Actor {
	return &MessagingActor{
		conversations: conversations,
		messages:      messages,
		profiles:      profiles,
		push:          push,
		metrics:       metrics,
	}
}

func (a *MessagingActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *SendMessageMsg:
		a.handleSend(context, msg)
	case *GetConversationMsg:
		a.handleGetConversation(context, msg)
	case *ListConversationsMsg:
		a.handleListConversations(context, msg)
	}
}

func (a *MessagingActor) handleSend(context actor.Context, msg *SendMessageMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if strings.TrimSpace(msg.Text) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Message text is required", nil))
		return
	}

	summary := models.MessageSummary{Text: msg.Text, Sender: msg.From}

	conv, err := a.conversations.FindConversation(ctx, msg.From, msg.To)
	if err != nil {
		if !utils.IsErrorCode(err, utils.ErrConversationNotFound) {
			context.Respond(err)
			return
		}
		conv, err = a.conversations.CreateConversation(ctx, msg.From, msg.To, summary)
		if err != nil {
			context.Respond(err)
			return
		}
	}

	message := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Sender:         msg.From,
		Text:           msg.Text,
		CreatedAt:      time.Now().UTC(),
	}

	// Both writes must succeed for the send to succeed. They are not
	// transactional: a summary-update failure after the insert leaves a
	// persisted message behind a stale summary.
	if err := a.messages.InsertMessage(ctx, message); err != nil {
		context.Respond(err)
		return
	}
	if err := a.conversations.UpdateLastMessage(ctx, conv.ID, summary, message.CreatedAt); err != nil {
		context.Respond(err)
		return
	}

	a.deliver(msg.To, message)

	a.metrics.AddOperationLatency("send_message", time.Since(startTime))
	context.Respond(message)
}

// deliver pushes the persisted message to the recipient's live connection.
// Failures are logged and never surfaced to the sender: an offline
// recipient is indistinguishable from a dropped push.
func (a *MessagingActor) deliver(to uuid.UUID, message *models.Message) {
	payload, err := realtime.MarshalEvent(realtime.EventNewMessage, message)
	if err != nil {
		slog.Error("failed to encode message event", "err", err)
		return
	}
	if a.push.SendToUser(to.String(), payload) {
		slog.Debug("message pushed", "to", to, "message", message.ID)
	}
}

func (a *MessagingActor) handleGetConversation(context actor.Context, msg *GetConversationMsg) {
	ctx := stdctx.Background()

	conv, err := a.conversations.FindConversation(ctx, msg.UserID, msg.OtherUserID)
	if err != nil {
		context.Respond(err)
		return
	}

	messages, err := a.messages.ConversationMessages(ctx, conv.ID)
	if err != nil {
		context.Respond(err)
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	context.Respond(messages)
}

func (a *MessagingActor) handleListConversations(context actor.Context, msg *ListConversationsMsg) {
	ctx := stdctx.Background()

	conversations, err := a.conversations.UserConversations(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	summaries := make([]*models.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		other := conv.OtherParticipant(msg.UserID)
		profile, err := a.profiles.GetPublicProfile(ctx, other)
		if err != nil {
			// A deleted counterpart should not break the whole listing.
			slog.Warn("skipping conversation with unknown participant", "conversation", conv.ID, "participant", other)
			continue
		}
		summaries = append(summaries, &models.ConversationSummary{
			ID:          conv.ID,
			Participant: profile,
			LastMessage: conv.LastMessage,
			UpdatedAt:   conv.UpdatedAt,
		})
	}
	context.Respond(summaries)
}
