package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"moodmap/internal/engine"
	"moodmap/internal/utils"
	"moodmap/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Hub            *websocket.Hub
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	context *actor.RootContext,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	hub *websocket.Hub,
) *Server {
	return &Server{
		System:         system,
		Context:        context,
		Engine:         eng,
		Metrics:        metrics,
		Hub:            hub,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// request sends msg to an actor and writes the result as JSON, translating
// AppError responses into their HTTP status. Every handler funnels through
// here so error mapping stays in one place.
func (s *Server) request(w http.ResponseWriter, pid *actor.PID, msg interface{}) {
	s.Metrics.IncrementRequests()

	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		s.Metrics.IncrementErrors()
		http.Error(w, utils.NewActorTimeoutError("engine").Error(), http.StatusGatewayTimeout)
		return
	}

	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}
	if respErr, ok := result.(error); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, respErr.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
