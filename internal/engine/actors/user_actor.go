package actors

import (
	"strings"
	"time"

	stdctx "context"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for UserActor
type (
	RegisterUserMsg struct {
		Name     string
		Email    string
		Username string
		Password string
	}

	LoginMsg struct {
		Username string
		Password string
	}

	GetProfileMsg struct {
		// Query is either a user ID or a username.
		Query string
	}

	FollowUserMsg struct {
		UserID   uuid.UUID
		TargetID uuid.UUID
	}

	UpdateProfileMsg struct {
		UserID     uuid.UUID
		Name       string
		Email      string
		Username   string
		Bio        string
		ProfilePic string
		Password   string
	}

	SearchUsersMsg struct {
		Query string
	}
)

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Bio        string    `json:"bio"`
	ProfilePic string    `json:"profilePic"`
	Token      string    `json:"token"`
}

// FollowResult reports which direction a follow toggle took.
type FollowResult struct {
	Following bool `json:"following"`
}

// UserActor owns account lifecycle and the follow graph.
type UserActor struct {
	users   UserStore
	tokens  TokenIssuer
	metrics *utils.MetricsCollector
}

func NewUserActor(users UserStore, tokens TokenIssuer, metrics *utils.MetricsCollector) actor.Actor {
	return &UserActor{
		users:   users,
		tokens:  tokens,
		metrics: metrics,
	}
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *RegisterUserMsg:
		a.handleRegister(context, msg)
	case *LoginMsg:
		a.handleLogin(context, msg)
	case *GetProfileMsg:
		a.handleGetProfile(context, msg)
	case *FollowUserMsg:
		a.handleFollow(context, msg)
	case *UpdateProfileMsg:
		a.handleUpdateProfile(context, msg)
	case *SearchUsersMsg:
		a.handleSearch(context, msg)
	}
}

func (a *UserActor) authResponse(user *models.User) (*AuthResponse, error) {
	token, err := a.tokens.Generate(user.ID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to issue token", err)
	}
	return &AuthResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Username:   user.Username,
		Bio:        user.Bio,
		ProfilePic: user.ProfilePic,
		Token:      token,
	}, nil
}

func (a *UserActor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Email == "" || msg.Username == "" || msg.Password == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Email, username and password are required", nil))
		return
	}

	username := strings.ToLower(msg.Username)

	if existing, _ := a.users.GetUserByEmail(ctx, msg.Email); existing != nil {
		context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "Email or username already exists", nil))
		return
	}
	if existing, _ := a.users.GetUserByUsername(ctx, username); existing != nil {
		context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "Email or username already exists", nil))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(msg.Password), bcrypt.DefaultCost)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to hash password", err))
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:             uuid.New(),
		Name:           msg.Name,
		Email:          msg.Email,
		Username:       username,
		HashedPassword: string(hashed),
		Followers:      []uuid.UUID{},
		Following:      []uuid.UUID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := a.users.SaveUser(ctx, user); err != nil {
		context.Respond(err)
		return
	}

	resp, err := a.authResponse(user)
	if err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("register_user", time.Since(startTime))
	context.Respond(resp)
}

func (a *UserActor) handleLogin(context actor.Context, msg *LoginMsg) {
	ctx := stdctx.Background()

	user, err := a.users.GetUserByUsername(ctx, strings.ToLower(msg.Username))
	if err != nil {
		// Same response for unknown user and wrong password.
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Invalid username or password", nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Invalid username or password", nil))
		return
	}

	resp, err := a.authResponse(user)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(resp)
}

func (a *UserActor) handleGetProfile(context actor.Context, msg *GetProfileMsg) {
	ctx := stdctx.Background()

	var user *models.User
	var err error
	if id, parseErr := uuid.Parse(msg.Query); parseErr == nil {
		user, err = a.users.GetUser(ctx, id)
	} else {
		user, err = a.users.GetUserByUsername(ctx, strings.ToLower(msg.Query))
	}
	if err != nil {
		context.Respond(err)
		return
	}

	// Profile lookups never expose credentials.
	user.HashedPassword = ""
	context.Respond(user)
}

func (a *UserActor) handleFollow(context actor.Context, msg *FollowUserMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.UserID == msg.TargetID {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "You can not follow/unfollow yourself", nil))
		return
	}

	current, err := a.users.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	if _, err := a.users.GetUser(ctx, msg.TargetID); err != nil {
		context.Respond(err)
		return
	}

	follow := !current.IsFollowing(msg.TargetID)
	if err := a.users.SetFollow(ctx, msg.TargetID, msg.UserID, follow); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("follow_user", time.Since(startTime))
	context.Respond(&FollowResult{Following: follow})
}

func (a *UserActor) handleUpdateProfile(context actor.Context, msg *UpdateProfileMsg) {
	ctx := stdctx.Background()

	user, err := a.users.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	if msg.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(msg.Password), bcrypt.DefaultCost)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "failed to hash password", err))
			return
		}
		user.HashedPassword = string(hashed)
	}

	if msg.Name != "" {
		user.Name = msg.Name
	}
	if msg.Email != "" {
		user.Email = msg.Email
	}
	if msg.Username != "" {
		user.Username = strings.ToLower(msg.Username)
	}
	if msg.Bio != "" {
		user.Bio = msg.Bio
	}
	if msg.ProfilePic != "" {
		user.ProfilePic = msg.ProfilePic
	}
	user.UpdatedAt = time.Now().UTC()

	if err := a.users.SaveUser(ctx, user); err != nil {
		context.Respond(err)
		return
	}

	user.HashedPassword = ""
	context.Respond(user)
}

func (a *UserActor) handleSearch(context actor.Context, msg *SearchUsersMsg) {
	ctx := stdctx.Background()

	users, err := a.users.SearchUsers(ctx, msg.Query)
	if err != nil {
		context.Respond(err)
		return
	}

	results := make([]*models.PublicProfile, len(users))
	for i, u := range users {
		results[i] = u.Public()
	}
	context.Respond(results)
}
