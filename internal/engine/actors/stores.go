package actors

import (
	"context"
	"time"

	"ripple-social/internal/models"

	"github.com/google/uuid"
)

// Store interfaces consumed by the actors. *database.MongoDB satisfies all
// of them; tests substitute in-memory fakes.

type ConversationStore interface {
	FindConversation(ctx context.Context, a, b uuid.UUID) (*models.Conversation, error)
	CreateConversation(ctx context.Context, a, b uuid.UUID, last models.MessageSummary) (*models.Conversation, error)
	UpdateLastMessage(ctx context.Context, conversationID uuid.UUID, last models.MessageSummary, at time.Time) error
	UserConversations(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error)
}

type MessageStore interface {
	InsertMessage(ctx context.Context, message *models.Message) error
	ConversationMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error)
}

type UserStore interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetPublicProfile(ctx context.Context, id uuid.UUID) (*models.PublicProfile, error)
	SetFollow(ctx context.Context, targetID, followerID uuid.UUID, follow bool) error
	SearchUsers(ctx context.Context, query string) ([]*models.User, error)
}

type PostStore interface {
	SavePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	SetLike(ctx context.Context, postID, userID uuid.UUID, like bool) error
	AddReply(ctx context.Context, postID uuid.UUID, reply *models.Reply) error
	RecentPosts(ctx context.Context, page int) ([]*models.Post, error)
	PostsByAuthors(ctx context.Context, authorIDs []uuid.UUID, page int) ([]*models.Post, error)
	PostsByAuthor(ctx context.Context, authorID uuid.UUID, page int) ([]*models.Post, error)
}

// Pusher delivers a payload to a user's live connection. Best-effort: the
// return value only says whether the payload was queued.
type Pusher interface {
	SendToUser(userID string, payload []byte) bool
}

// TokenIssuer mints an auth token for a user.
type TokenIssuer interface {
	Generate(userID uuid.UUID) (string, error)
}
