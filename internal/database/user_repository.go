// internal/database/user_repository.go
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

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	Email          string    `bson:"email"`
	Username       string    `bson:"username"`
	HashedPassword string    `bson:"hashedPassword"`
	Bio            string    `bson:"bio"`
	ProfilePic     string    `bson:"profilePic"`
	Followers      []string  `bson:"followers"`
	Following      []string  `bson:"following"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

func userModelToDocument(user *models.User) *UserDocument {
	doc := &UserDocument{
		ID:             user.ID.String(),
		Name:           user.Name,
		Email:          user.Email,
		Username:       user.Username,
		HashedPassword: user.HashedPassword,
		Bio:            user.Bio,
		ProfilePic:     user.ProfilePic,
		Followers:      make([]string, len(user.Followers)),
		Following:      make([]string, len(user.Following)),
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
	for i, f := range user.Followers {
		doc.Followers[i] = f.String()
	}
	for i, f := range user.Following {
		doc.Following[i] = f.String()
	}
	return doc
}

func userDocumentToModel(doc *UserDocument) (*models.User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	parseIDs := func(raw []string) ([]uuid.UUID, error) {
		ids := make([]uuid.UUID, len(raw))
		for i, s := range raw {
			ids[i], err = uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("invalid user reference in database: %v", err)
			}
		}
		return ids, nil
	}

	followers, err := parseIDs(doc.Followers)
	if err != nil {
		return nil, err
	}
	following, err := parseIDs(doc.Following)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:             id,
		Name:           doc.Name,
		Email:          doc.Email,
		Username:       doc.Username,
		HashedPassword: doc.HashedPassword,
		Bio:            doc.Bio,
		ProfilePic:     doc.ProfilePic,
		Followers:      followers,
		Following:      following,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

// SaveUser creates or updates a user in MongoDB
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := userModelToDocument(user)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": user.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewAppError(utils.ErrUserAlreadyExists, "Email or username already exists", err)
	}
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save user", err)
	}
	return nil
}

func (m *MongoDB) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", err)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get user", err)
	}

	return userDocumentToModel(&doc)
}

// GetUser retrieves a user by their ID
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.findUser(ctx, bson.M{"_id": id.String()})
}

// GetUserByEmail retrieves a user by their email address
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUser(ctx, bson.M{"email": email})
}

// GetUserByUsername retrieves a user by their username
func (m *MongoDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.findUser(ctx, bson.M{"username": username})
}

// GetPublicProfile retrieves only the publicly visible fields of a user.
func (m *MongoDB) GetPublicProfile(ctx context.Context, id uuid.UUID) (*models.PublicProfile, error) {
	opts := options.FindOne().SetProjection(bson.M{
		"_id":        1,
		"name":       1,
		"username":   1,
		"profilePic": 1,
	})

	var doc UserDocument
	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", err)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get user profile", err)
	}

	userID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	return &models.PublicProfile{
		ID:         userID,
		Name:       doc.Name,
		Username:   doc.Username,
		ProfilePic: doc.ProfilePic,
	}, nil
}

// SetFollow adds or removes a follow edge: the target's followers list and
// the follower's following list are updated together.
func (m *MongoDB) SetFollow(ctx context.Context, targetID, followerID uuid.UUID, follow bool) error {
	op := "$pull"
	if follow {
		op = "$addToSet"
	}

	result, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": targetID.String()},
		bson.M{op: bson.M{"followers": followerID.String()}},
	)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update followers", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewUserNotFoundError(targetID.String())
	}

	result, err = m.Users.UpdateOne(ctx,
		bson.M{"_id": followerID.String()},
		bson.M{op: bson.M{"following": targetID.String()}},
	)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update following", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewUserNotFoundError(followerID.String())
	}

	return nil
}

// SearchUsers finds users whose name or username matches the query,
// case-insensitive. An empty query returns the five earliest accounts,
// matching the discovery endpoint's default listing.
func (m *MongoDB) SearchUsers(ctx context.Context, query string) ([]*models.User, error) {
	var filter bson.M
	opts := options.Find()

	if query != "" {
		filter = bson.M{"$or": []bson.M{
			{"name": bson.M{"$regex": query, "$options": "i"}},
			{"username": bson.M{"$regex": query, "$options": "i"}},
		}}
	} else {
		filter = bson.M{}
		opts.SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(5)
	}

	cursor, err := m.Users.Find(ctx, filter, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to search users", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode user", err)
		}
		user, err := userDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "user cursor iteration failed", err)
	}

	return users, nil
}
