package actors

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/realtime"
	"ripple-social/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requestTimeout = 2 * time.Second

func testUser(name string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     name + "@example.com",
		Username:  name,
		Followers: []uuid.UUID{},
		Following: []uuid.UUID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type messagingFixture struct {
	system        *actor.ActorSystem
	pid           *actor.PID
	conversations *fakeConversationStore
	messages      *fakeMessageStore
	users         *fakeUserStore
	push          *fakePusher
}

func newMessagingFixture(t *testing.T, users *fakeUserStore, push *fakePusher) *messagingFixture {
	t.Helper()
	conversations := newFakeConversationStore()
	messages := newFakeMessageStore()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMessagingActor(conversations, messages, users, push, utils.NewMetricsCollector())
	})
	return &messagingFixture{
		system:        system,
		pid:           system.Root.Spawn(props),
		conversations: conversations,
		messages:      messages,
		users:         users,
		push:          push,
	}
}

func (f *messagingFixture) request(t *testing.T, msg interface{}) interface{} {
	t.Helper()
	result, err := f.system.Root.RequestFuture(f.pid, msg, requestTimeout).Result()
	require.NoError(t, err)
	return result
}

func TestSendMessageCreatesConversation(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	f := newMessagingFixture(t, newFakeUserStore(alice, bob), newFakePusher())

	result := f.request(t, &SendMessageMsg{From: alice.ID, To: bob.ID, Text: "hey"})

	message, ok := result.(*models.Message)
	require.True(t, ok, "expected a message, got %T: %v", result, result)
	assert.Equal(t, alice.ID, message.Sender)
	assert.Equal(t, "hey", message.Text)
	assert.Equal(t, 1, f.conversations.count())

	conv, err := f.conversations.FindConversation(nil, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "hey", conv.LastMessage.Text)
	assert.Equal(t, alice.ID, conv.LastMessage.Sender)
}

func TestSendMessageReusesConversation(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	f := newMessagingFixture(t, newFakeUserStore(alice, bob), newFakePusher())

	f.request(t, &SendMessageMsg{From: alice.ID, To: bob.ID, Text: "first"})
	// Direction reversed: still the same conversation.
	f.request(t, &SendMessageMsg{From: bob.ID, To: alice.ID, Text: "second"})

	assert.Equal(t, 1, f.conversations.count())

	conv, err := f.conversations.FindConversation(nil, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", conv.LastMessage.Text)
	assert.Equal(t, bob.ID, conv.LastMessage.Sender)
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	f := newMessagingFixture(t, newFakeUserStore(alice, bob), newFakePusher())

	result := f.request(t, &SendMessageMsg{From: alice.ID, To: bob.ID, Text: "   "})

	err, ok := result.(error)
	require.True(t, ok)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
	assert.Equal(t, 0, f.conversations.count())
}

func TestSendMessagePushesToOnlineRecipient(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	push := newFakePusher(bob.ID.String())
	f := newMessagingFixture(t, newFakeUserStore(alice, bob), push)

	result := f.request(t, &SendMessageMsg{From: alice.ID, To: bob.ID, Text: "ping"})
	message := result.(*models.Message)

	pushed := push.pushedTo(bob.ID.String())
	require.Len(t, pushed, 1)

	var event realtime.Event
	require.NoError(t, json.Unmarshal(pushed[0], &event))
	assert.Equal(t, realtime.EventNewMessage, event.Event)

	data := event.Data.(map[string]interface{})
	assert.Equal(t, message.ID.String(), data["id"])
	assert.Equal(t, "ping", data["text"])
	assert.Equal(t, alice.ID.String(), data["sender"])
}

func TestSendMessagePersistsWhenRecipientOffline(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	push := newFakePusher(bob.ID.String())
	f := newMessagingFixture(t, newFakeUserStore(alice, bob), push)

	f.request(t, &SendMessageMsg{From: alice.ID, To: bob.ID, Text: "one"})
	push.setOnline(bob.ID.String(), false)
	f.request(t, &SendMessageMsg{From: alice.ID, To: bob.ID, Text: "two"})

	// Only the first send reached a live connection.
	assert.Len(t, push.pushedTo(bob.ID.String()), 1)

	// Both messages are persisted regardless.
	result := f.request(t, &GetConversationMsg{UserID: bob.ID, OtherUserID: alice.ID})
	messages := result.([]*models.Message)
	require.Len(t, messages, 2)
	assert.Equal(t, "one", messages[0].Text)
	assert.Equal(t, "two", messages[1].Text)
}

func TestGetConversationReturnsMessagesInOrder(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	f := newMessagingFixture(t, newFakeUserStore(alice, bob), newFakePusher())

	for i := 1; i <= 5; i++ {
		f.request(t, &SendMessageMsg{From: alice.ID, To: bob.ID, Text: fmt.Sprintf("msg %d", i)})
	}

	result := f.request(t, &GetConversationMsg{UserID: alice.ID, OtherUserID: bob.ID})
	messages := result.([]*models.Message)
	require.Len(t, messages, 5)
	for i, m := range messages {
		assert.Equal(t, fmt.Sprintf("msg %d", i+1), m.Text)
	}
}

func TestGetConversationNotFound(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	f := newMessagingFixture(t, newFakeUserStore(alice, bob), newFakePusher())

	result := f.request(t, &GetConversationMsg{UserID: alice.ID, OtherUserID: bob.ID})

	err, ok := result.(error)
	require.True(t, ok)
	assert.True(t, utils.IsErrorCode(err, utils.ErrConversationNotFound))
}

func TestListConversationsShowsOtherParticipant(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	carol := testUser("carol")
	f := newMessagingFixture(t, newFakeUserStore(alice, bob, carol), newFakePusher())

	f.request(t, &SendMessageMsg{From: alice.ID, To: bob.ID, Text: "to bob"})
	f.request(t, &SendMessageMsg{From: carol.ID, To: alice.ID, Text: "from carol"})

	result := f.request(t, &ListConversationsMsg{UserID: alice.ID})
	summaries := result.([]*models.ConversationSummary)
	require.Len(t, summaries, 2)

	// Sorted by last activity, most recent first. The caller's own profile
	// never appears.
	assert.Equal(t, carol.ID, summaries[0].Participant.ID)
	assert.Equal(t, "from carol", summaries[0].LastMessage.Text)
	assert.Equal(t, bob.ID, summaries[1].Participant.ID)
	assert.Equal(t, "to bob", summaries[1].LastMessage.Text)
}

func TestListConversationsSkipsDeletedParticipant(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	users := newFakeUserStore(alice, bob)
	f := newMessagingFixture(t, users, newFakePusher())

	f.request(t, &SendMessageMsg{From: alice.ID, To: bob.ID, Text: "hello"})

	users.mu.Lock()
	delete(users.users, bob.ID)
	users.mu.Unlock()

	result := f.request(t, &ListConversationsMsg{UserID: alice.ID})
	summaries := result.([]*models.ConversationSummary)
	assert.Empty(t, summaries)
}
