package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"ripple-social/internal/engine"
	"ripple-social/internal/realtime"
	"ripple-social/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Hub            *realtime.Hub
	Metrics        *utils.MetricsCollector
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	hub *realtime.Hub,
	metrics *utils.MetricsCollector,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Hub:            hub,
		Metrics:        metrics,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// Routes builds the ServeMux with every endpoint registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HandleHealth())

	mux.HandleFunc("POST /api/users/register", s.HandleRegister())
	mux.HandleFunc("POST /api/users/login", s.HandleLogin())
	mux.HandleFunc("POST /api/users/logout", s.HandleLogout())
	mux.HandleFunc("GET /api/users/profile", s.HandleGetProfile())
	mux.HandleFunc("GET /api/users", s.HandleSearchUsers())
	mux.HandleFunc("POST /api/users/follow", s.HandleFollow())
	mux.HandleFunc("PUT /api/users/update", s.HandleUpdateProfile())

	mux.HandleFunc("POST /api/posts", s.HandleCreatePost())
	mux.HandleFunc("GET /api/posts", s.HandleGetPost())
	mux.HandleFunc("DELETE /api/posts", s.HandleDeletePost())
	mux.HandleFunc("POST /api/posts/like", s.HandleLikePost())
	mux.HandleFunc("POST /api/posts/reply", s.HandleReplyToPost())
	mux.HandleFunc("GET /api/posts/feed", s.HandleFeed())
	mux.HandleFunc("GET /api/posts/user", s.HandleUserPosts())

	mux.HandleFunc("POST /api/messages", s.HandleSendMessage())
	mux.HandleFunc("GET /api/messages/conversations", s.HandleConversations())
	mux.HandleFunc("GET /api/messages/{otherUserId}", s.HandleGetMessages())

	mux.HandleFunc("GET /ws", s.HandleWebSocket())

	return mux
}

// request sends msg to the actor and unwraps the response. AppError
// responses are translated to an HTTP status and reported as handled.
func (s *Server) request(w http.ResponseWriter, pid *actor.PID, msg interface{}) (interface{}, bool) {
	s.Metrics.IncrementRequests()

	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		s.Metrics.IncrementErrors()
		http.Error(w, "Request timed out", http.StatusInternalServerError)
		return nil, false
	}

	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Message, utils.AppErrorToHTTPStatus(appErr.Code))
		return nil, false
	}

	return result, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, errors, uptime := s.Metrics.Snapshot()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":       "healthy",
			"uptime":       uptime.String(),
			"requests":     requests,
			"errors":       errors,
			"operations":   s.Metrics.OperationStats(),
			"online_users": s.Hub.Registry().Count(),
			"server_time":  time.Now(),
		})
	}
}
