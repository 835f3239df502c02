package actors

import (
	"strings"
	"time"

	stdctx "context"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Posts longer than this are rejected.
const maxPostLength = 500

// Message types for PostActor
type (
	CreatePostMsg struct {
		AuthorID uuid.UUID
		Text     string
		Img      string
	}

	GetPostMsg struct {
		PostID uuid.UUID
	}

	DeletePostMsg struct {
		PostID      uuid.UUID
		RequesterID uuid.UUID
	}

	LikePostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	ReplyToPostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
		Text   string
	}

	GetFeedMsg struct {
		UserID uuid.UUID
		Page   int
	}

	GetUserPostsMsg struct {
		Username string
		Page     int
	}
)

// LikeResult reports which direction a like toggle took.
type LikeResult struct {
	Liked bool `json:"liked"`
}

// PostActor owns the post lifecycle: creation, deletion, likes, replies and
// feed assembly.
type PostActor struct {
	posts   PostStore
	users   UserStore
	metrics *utils.MetricsCollector
}

func NewPostActor(posts PostStore, users UserStore, metrics *utils.MetricsCollector) actor.Actor {
	return &PostActor{
		posts:   posts,
		users:   users,
		metrics: metrics,
	}
}

func (a *PostActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreatePostMsg:
		a.handleCreate(context, msg)
	case *GetPostMsg:
		a.handleGet(context, msg)
	case *DeletePostMsg:
		a.handleDelete(context, msg)
	case *LikePostMsg:
		a.handleLike(context, msg)
	case *ReplyToPostMsg:
		a.handleReply(context, msg)
	case *GetFeedMsg:
		a.handleFeed(context, msg)
	case *GetUserPostsMsg:
		a.handleUserPosts(context, msg)
	}
}

func (a *PostActor) handleCreate(context actor.Context, msg *CreatePostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if strings.TrimSpace(msg.Text) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Text field is required", nil))
		return
	}
	if len(msg.Text) > maxPostLength {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Text length should be less than 500 characters", nil))
		return
	}

	if _, err := a.users.GetUser(ctx, msg.AuthorID); err != nil {
		context.Respond(err)
		return
	}

	post := &models.Post{
		ID:        uuid.New(),
		AuthorID:  msg.AuthorID,
		Text:      msg.Text,
		Img:       msg.Img,
		Likes:     []uuid.UUID{},
		Replies:   []models.Reply{},
		CreatedAt: time.Now().UTC(),
	}

	if err := a.posts.SavePost(ctx, post); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	context.Respond(post)
}

func (a *PostActor) handleGet(context actor.Context, msg *GetPostMsg) {
	post, err := a.posts.GetPost(stdctx.Background(), msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(post)
}

func (a *PostActor) handleDelete(context actor.Context, msg *DeletePostMsg) {
	ctx := stdctx.Background()

	post, err := a.posts.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}
	if post.AuthorID != msg.RequesterID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "You are unauthorized to delete this post", nil))
		return
	}

	if err := a.posts.DeletePost(ctx, msg.PostID); err != nil {
		context.Respond(err)
		return
	}
	context.Respond(true)
}

func (a *PostActor) handleLike(context actor.Context, msg *LikePostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	post, err := a.posts.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}

	like := !post.LikedBy(msg.UserID)
	if err := a.posts.SetLike(ctx, msg.PostID, msg.UserID, like); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("like_post", time.Since(startTime))
	context.Respond(&LikeResult{Liked: like})
}

func (a *PostActor) handleReply(context actor.Context, msg *ReplyToPostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if strings.TrimSpace(msg.Text) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Text field is required", nil))
		return
	}

	user, err := a.users.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	reply := &models.Reply{
		ID:             uuid.New(),
		UserID:         user.ID,
		Text:           msg.Text,
		Username:       user.Username,
		UserProfilePic: user.ProfilePic,
		Name:           user.Name,
		CreatedAt:      time.Now().UTC(),
	}

	if err := a.posts.AddReply(ctx, msg.PostID, reply); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("reply_post", time.Since(startTime))
	context.Respond(reply)
}

func (a *PostActor) handleFeed(context actor.Context, msg *GetFeedMsg) {
	ctx := stdctx.Background()

	user, err := a.users.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	// Users who follow nobody get the global recent stream, as does page 1
	// when the follow feed comes back empty.
	if len(user.Following) == 0 {
		recent, err := a.posts.RecentPosts(ctx, msg.Page)
		a.respondPosts(context, recent, err)
		return
	}

	posts, err := a.posts.PostsByAuthors(ctx, user.Following, msg.Page)
	if err != nil {
		context.Respond(err)
		return
	}
	if msg.Page <= 1 && len(posts) == 0 {
		recent, err := a.posts.RecentPosts(ctx, msg.Page)
		a.respondPosts(context, recent, err)
		return
	}
	a.respondPosts(context, posts, nil)
}

func (a *PostActor) handleUserPosts(context actor.Context, msg *GetUserPostsMsg) {
	ctx := stdctx.Background()

	user, err := a.users.GetUserByUsername(ctx, strings.ToLower(msg.Username))
	if err != nil {
		context.Respond(err)
		return
	}

	posts, err := a.posts.PostsByAuthor(ctx, user.ID, msg.Page)
	a.respondPosts(context, posts, err)
}

func (a *PostActor) respondPosts(context actor.Context, posts []*models.Post, err error) {
	if err != nil {
		context.Respond(err)
		return
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	context.Respond(posts)
}
