package handlers

import (
	"encoding/json"
	"net/http"

	"ripple-social/internal/engine/actors"
	"ripple-social/internal/middleware"

	"github.com/google/uuid"
)

// RegisterUserRequest represents a request to create a new account
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the fields a user may change on their profile
type UpdateProfileRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Bio        string `json:"bio"`
	ProfilePic string `json:"profilePic"`
	Password   string `json:"password"`
}

func (s *Server) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		msg := &actors.RegisterUserMsg{
			Name:     req.Name,
			Email:    req.Email,
			Username: req.Username,
			Password: req.Password,
		}

		result, ok := s.request(w, s.Engine.GetUserActor(), msg)
		if !ok {
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}

func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		msg := &actors.LoginMsg{
			Username: req.Username,
			Password: req.Password,
		}

		result, ok := s.request(w, s.Engine.GetUserActor(), msg)
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// HandleLogout exists for client symmetry: tokens are stateless, so logout
// is simply the client discarding its token.
func (s *Server) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "User logged out successfully"})
	}
}

// HandleGetProfile fetches a profile by user ID or username.
func (s *Server) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if query == "" {
			http.Error(w, "Query parameter required", http.StatusBadRequest)
			return
		}

		result, ok := s.request(w, s.Engine.GetUserActor(), &actors.GetProfileMsg{Query: query})
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// HandleSearchUsers finds users by name or username substring; without a
// search term it returns the earliest accounts.
func (s *Server) HandleSearchUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("search")

		result, ok := s.request(w, s.Engine.GetUserActor(), &actors.SearchUsersMsg{Query: query})
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// HandleFollow toggles a follow edge from the caller to the target user.
func (s *Server) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		targetID, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		msg := &actors.FollowUserMsg{
			UserID:   userID,
			TargetID: targetID,
		}

		result, ok := s.request(w, s.Engine.GetUserActor(), msg)
		if !ok {
			return
		}

		followResult := result.(*actors.FollowResult)
		message := "User unfollowed successfully"
		if followResult.Following {
			message = "User followed successfully"
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

// HandleUpdateProfile lets a user edit their own profile only.
func (s *Server) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		if id := r.URL.Query().Get("id"); id != "" && id != userID.String() {
			http.Error(w, "Unauthorized to edit this profile", http.StatusForbidden)
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		msg := &actors.UpdateProfileMsg{
			UserID:     userID,
			Name:       req.Name,
			Email:      req.Email,
			Username:   req.Username,
			Bio:        req.Bio,
			ProfilePic: req.ProfilePic,
			Password:   req.Password,
		}

		result, ok := s.request(w, s.Engine.GetUserActor(), msg)
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
