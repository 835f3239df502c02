package actors

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
)

// In-memory store fakes. They reproduce the repository contracts closely
// enough for actor behavior tests: same error codes, same ordering, same
// find-or-create semantics.

func pairKey(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

type fakeConversationStore struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{conversations: make(map[string]*models.Conversation)}
}

func (s *fakeConversationStore) FindConversation(_ context.Context, a, b uuid.UUID) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[pairKey(a, b)]
	if !ok {
		return nil, utils.NewConversationNotFoundError()
	}
	return conv, nil
}

func (s *fakeConversationStore) CreateConversation(_ context.Context, a, b uuid.UUID, last models.MessageSummary) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(a, b)
	if existing, ok := s.conversations[key]; ok {
		// Mirrors the unique-index race resolution: the loser gets the
		// winner's document back.
		return existing, nil
	}
	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:           uuid.New(),
		Participants: []uuid.UUID{a, b},
		LastMessage:  last,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.conversations[key] = conv
	return conv, nil
}

func (s *fakeConversationStore) UpdateLastMessage(_ context.Context, conversationID uuid.UUID, last models.MessageSummary, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conv := range s.conversations {
		if conv.ID == conversationID {
			conv.LastMessage = last
			conv.UpdatedAt = at
			return nil
		}
	}
	return utils.NewConversationNotFoundError()
}

func (s *fakeConversationStore) UserConversations(_ context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*models.Conversation
	for _, conv := range s.conversations {
		for _, p := range conv.Participants {
			if p == userID {
				result = append(result, conv)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (s *fakeConversationStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []*models.Message
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{}
}

func (s *fakeMessageStore) InsertMessage(_ context.Context, message *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return nil
}

func (s *fakeMessageStore) ConversationMessages(_ context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*models.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) SaveUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	return user, nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, utils.NewUserNotFoundError(email)
}

func (s *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, utils.NewUserNotFoundError(username)
}

func (s *fakeUserStore) GetPublicProfile(_ context.Context, id uuid.UUID) (*models.PublicProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	return user.Public(), nil
}

func (s *fakeUserStore) SetFollow(_ context.Context, targetID, followerID uuid.UUID, follow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.users[targetID]
	if !ok {
		return utils.NewUserNotFoundError(targetID.String())
	}
	follower, ok := s.users[followerID]
	if !ok {
		return utils.NewUserNotFoundError(followerID.String())
	}
	if follow {
		target.Followers = append(target.Followers, followerID)
		follower.Following = append(follower.Following, targetID)
		return nil
	}
	target.Followers = removeID(target.Followers, followerID)
	follower.Following = removeID(follower.Following, targetID)
	return nil
}

func (s *fakeUserStore) SearchUsers(_ context.Context, query string) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*models.User
	for _, u := range s.users {
		if query == "" || strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) {
			result = append(result, u)
		}
	}
	return result, nil
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type fakePostStore struct {
	mu    sync.Mutex
	posts []*models.Post
}

func newFakePostStore(posts ...*models.Post) *fakePostStore {
	return &fakePostStore{posts: posts}
}

func (s *fakePostStore) SavePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID == post.ID {
			s.posts[i] = post
			return nil
		}
	}
	s.posts = append(s.posts, post)
	return nil
}

func (s *fakePostStore) GetPost(_ context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
}

func (s *fakePostStore) DeletePost(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
}

func (s *fakePostStore) SetLike(_ context.Context, postID, userID uuid.UUID, like bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == postID {
			if like {
				p.Likes = append(p.Likes, userID)
			} else {
				p.Likes = removeID(p.Likes, userID)
			}
			return nil
		}
	}
	return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
}

func (s *fakePostStore) AddReply(_ context.Context, postID uuid.UUID, reply *models.Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == postID {
			p.Replies = append(p.Replies, *reply)
			return nil
		}
	}
	return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
}

func (s *fakePostStore) page(posts []*models.Post, page int) []*models.Post {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	const size = 10
	start := (page - 1) * size
	if start >= len(posts) {
		return nil
	}
	end := start + size
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}

func (s *fakePostStore) RecentPosts(_ context.Context, page int) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := append([]*models.Post(nil), s.posts...)
	return s.page(all, page), nil
}

func (s *fakePostStore) PostsByAuthors(_ context.Context, authorIDs []uuid.UUID, page int) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	authors := make(map[uuid.UUID]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}
	var matched []*models.Post
	for _, p := range s.posts {
		if authors[p.AuthorID] {
			matched = append(matched, p)
		}
	}
	return s.page(matched, page), nil
}

func (s *fakePostStore) PostsByAuthor(_ context.Context, authorID uuid.UUID, page int) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*models.Post
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			matched = append(matched, p)
		}
	}
	return s.page(matched, page), nil
}

// fakePusher records pushed payloads per user ID. Only users marked online
// accept a push, mirroring the hub's best-effort delivery.
type fakePusher struct {
	mu     sync.Mutex
	online map[string]bool
	pushed map[string][][]byte
}

func newFakePusher(onlineUsers ...string) *fakePusher {
	online := make(map[string]bool, len(onlineUsers))
	for _, u := range onlineUsers {
		online[u] = true
	}
	return &fakePusher{online: online, pushed: make(map[string][][]byte)}
}

func (p *fakePusher) SendToUser(userID string, payload []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.online[userID] {
		return false
	}
	p.pushed[userID] = append(p.pushed[userID], payload)
	return true
}

func (p *fakePusher) setOnline(userID string, online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[userID] = online
}

func (p *fakePusher) pushedTo(userID string) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pushed[userID]
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Generate(userID uuid.UUID) (string, error) {
	return "test-token-" + userID.String(), nil
}
