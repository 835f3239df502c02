package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ripple-social/internal/engine/actors"
	"ripple-social/internal/middleware"

	"github.com/google/uuid"
)

// CreatePostRequest represents a request to create a new post
type CreatePostRequest struct {
	Text string `json:"text"`
	Img  string `json:"img"`
}

// ReplyRequest represents a reply to a post
type ReplyRequest struct {
	Text string `json:"text"`
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (s *Server) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		msg := &actors.CreatePostMsg{
			AuthorID: userID,
			Text:     req.Text,
			Img:      req.Img,
		}

		result, ok := s.request(w, s.Engine.GetPostActor(), msg)
		if !ok {
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}

func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		result, ok := s.request(w, s.Engine.GetPostActor(), &actors.GetPostMsg{PostID: postID})
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) HandleDeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		postID, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		msg := &actors.DeletePostMsg{
			PostID:      postID,
			RequesterID: userID,
		}

		if _, ok := s.request(w, s.Engine.GetPostActor(), msg); !ok {
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
	}
}

func (s *Server) HandleLikePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		postID, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		msg := &actors.LikePostMsg{
			PostID: postID,
			UserID: userID,
		}

		result, ok := s.request(w, s.Engine.GetPostActor(), msg)
		if !ok {
			return
		}

		likeResult := result.(*actors.LikeResult)
		message := "Post unliked successfully"
		if likeResult.Liked {
			message = "Post liked successfully"
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

func (s *Server) HandleReplyToPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		postID, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		var req ReplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		msg := &actors.ReplyToPostMsg{
			PostID: postID,
			UserID: userID,
			Text:   req.Text,
		}

		result, ok := s.request(w, s.Engine.GetPostActor(), msg)
		if !ok {
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}

func (s *Server) HandleFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		msg := &actors.GetFeedMsg{
			UserID: userID,
			Page:   pageParam(r),
		}

		result, ok := s.request(w, s.Engine.GetPostActor(), msg)
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) HandleUserPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		if username == "" {
			http.Error(w, "Username required", http.StatusBadRequest)
			return
		}

		msg := &actors.GetUserPostsMsg{
			Username: username,
			Page:     pageParam(r),
		}

		result, ok := s.request(w, s.Engine.GetPostActor(), msg)
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
