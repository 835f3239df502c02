package engine

import (
	"ripple-social/internal/engine/actors"
	"ripple-social/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Deps carries everything the actors need. In production all store fields
// are the shared *database.MongoDB; tests wire in fakes.
type Deps struct {
	Conversations actors.ConversationStore
	Messages      actors.MessageStore
	Users         actors.UserStore
	Posts         actors.PostStore
	Push          actors.Pusher
	Tokens        actors.TokenIssuer
	Metrics       *utils.MetricsCollector
}

// Engine spawns and holds the domain actors.
type Engine struct {
	messagingActor *actor.PID
	userActor      *actor.PID
	postActor      *actor.PID
}

func NewEngine(system *actor.ActorSystem, deps Deps) *Engine {
	context := system.Root

	messagingProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewMessagingActor(deps.Conversations, deps.Messages, deps.Users, deps.Push, deps.Metrics)
	})
	messagingPID := context.Spawn(messagingProps)

	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(deps.Users, deps.Tokens, deps.Metrics)
	})
	userPID := context.Spawn(userProps)

	postProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPostActor(deps.Posts, deps.Users, deps.Metrics)
	})
	postPID := context.Spawn(postProps)

	return &Engine{
		messagingActor: messagingPID,
		userActor:      userPID,
		postActor:      postPID,
	}
}

// GetMessagingActor returns the PID of the messaging actor
func (e *Engine) GetMessagingActor() *actor.PID {
	return e.messagingActor
}

// GetUserActor returns the PID of the user actor
func (e *Engine) GetUserActor() *actor.PID {
	return e.userActor
}

// GetPostActor returns the PID of the post actor
func (e *Engine) GetPostActor() *actor.PID {
	return e.postActor
}
