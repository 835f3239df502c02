// internal/database/post_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const feedPageSize = 10

// PostDocument represents the MongoDB schema for a post.
type PostDocument struct {
	ID        string          `bson:"_id"`
	AuthorID  string          `bson:"postedBy"`
	Text      string          `bson:"text"`
	Img       string          `bson:"img,omitempty"`
	Likes     []string        `bson:"likes"`
	Replies   []ReplyDocument `bson:"replies"`
	CreatedAt time.Time       `bson:"createdAt"`
}

// ReplyDocument is a reply embedded in its post document.
type ReplyDocument struct {
	ID             string    `bson:"_id"`
	UserID         string    `bson:"userId"`
	Text           string    `bson:"text"`
	Username       string    `bson:"username"`
	UserProfilePic string    `bson:"userProfilePic"`
	Name           string    `bson:"name"`
	CreatedAt      time.Time `bson:"createdAt"`
}

func postModelToDocument(post *models.Post) *PostDocument {
	doc := &PostDocument{
		ID:        post.ID.String(),
		AuthorID:  post.AuthorID.String(),
		Text:      post.Text,
		Img:       post.Img,
		Likes:     make([]string, len(post.Likes)),
		Replies:   make([]ReplyDocument, len(post.Replies)),
		CreatedAt: post.CreatedAt,
	}
	for i, l := range post.Likes {
		doc.Likes[i] = l.String()
	}
	for i, r := range post.Replies {
		doc.Replies[i] = replyModelToDocument(&r)
	}
	return doc
}

func replyModelToDocument(reply *models.Reply) ReplyDocument {
	return ReplyDocument{
		ID:             reply.ID.String(),
		UserID:         reply.UserID.String(),
		Text:           reply.Text,
		Username:       reply.Username,
		UserProfilePic: reply.UserProfilePic,
		Name:           reply.Name,
		CreatedAt:      reply.CreatedAt,
	}
}

func postDocumentToModel(doc *PostDocument) (*models.Post, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID in database: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID in database: %v", err)
	}

	likes := make([]uuid.UUID, len(doc.Likes))
	for i, l := range doc.Likes {
		likes[i], err = uuid.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("invalid like reference in database: %v", err)
		}
	}

	replies := make([]models.Reply, len(doc.Replies))
	for i, r := range doc.Replies {
		replyID, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid reply ID in database: %v", err)
		}
		replyUserID, err := uuid.Parse(r.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid reply author in database: %v", err)
		}
		replies[i] = models.Reply{
			ID:             replyID,
			UserID:         replyUserID,
			Text:           r.Text,
			Username:       r.Username,
			UserProfilePic: r.UserProfilePic,
			Name:           r.Name,
			CreatedAt:      r.CreatedAt,
		}
	}

	return &models.Post{
		ID:        id,
		AuthorID:  authorID,
		Text:      doc.Text,
		Img:       doc.Img,
		Likes:     likes,
		Replies:   replies,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// SavePost creates or updates a post.
func (m *MongoDB) SavePost(ctx context.Context, post *models.Post) error {
	doc := postModelToDocument(post)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": post.ID.String()}
	update := bson.M{"$set": doc}

	if _, err := m.Posts.UpdateOne(ctx, filter, update, opts); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save post", err)
	}
	return nil
}

// GetPost retrieves a post by its ID.
func (m *MongoDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", err)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get post", err)
	}

	return postDocumentToModel(&doc)
}

// DeletePost removes a post by its ID.
func (m *MongoDB) DeletePost(ctx context.Context, id uuid.UUID) error {
	result, err := m.Posts.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete post", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	return nil
}

// SetLike adds or removes a user's like on a post.
func (m *MongoDB) SetLike(ctx context.Context, postID, userID uuid.UUID, like bool) error {
	op := "$pull"
	if like {
		op = "$addToSet"
	}

	result, err := m.Posts.UpdateOne(ctx,
		bson.M{"_id": postID.String()},
		bson.M{op: bson.M{"likes": userID.String()}},
	)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update likes", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	return nil
}

// AddReply appends a reply to a post.
func (m *MongoDB) AddReply(ctx context.Context, postID uuid.UUID, reply *models.Reply) error {
	result, err := m.Posts.UpdateOne(ctx,
		bson.M{"_id": postID.String()},
		bson.M{"$push": bson.M{"replies": replyModelToDocument(reply)}},
	)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to add reply", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	return nil
}

func (m *MongoDB) findPosts(ctx context.Context, filter bson.M, page int) ([]*models.Post, error) {
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * feedPageSize)).
		SetLimit(feedPageSize)

	cursor, err := m.Posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query posts", err)
	}
	defer cursor.Close(ctx)

	var posts []*models.Post
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode post", err)
		}
		post, err := postDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "post cursor iteration failed", err)
	}

	return posts, nil
}

// RecentPosts returns the newest posts across all authors, paginated.
func (m *MongoDB) RecentPosts(ctx context.Context, page int) ([]*models.Post, error) {
	return m.findPosts(ctx, bson.M{}, page)
}

// PostsByAuthors returns the newest posts by any of the given authors,
// paginated. Used for the follow feed.
func (m *MongoDB) PostsByAuthors(ctx context.Context, authorIDs []uuid.UUID, page int) ([]*models.Post, error) {
	ids := make([]string, len(authorIDs))
	for i, id := range authorIDs {
		ids[i] = id.String()
	}
	return m.findPosts(ctx, bson.M{"postedBy": bson.M{"$in": ids}}, page)
}

// PostsByAuthor returns one author's posts, newest first, paginated.
func (m *MongoDB) PostsByAuthor(ctx context.Context, authorID uuid.UUID, page int) ([]*models.Post, error) {
	return m.findPosts(ctx, bson.M{"postedBy": authorID.String()}, page)
}
