package handlers

import (
	"encoding/json"
	"net/http"

	"moodmap/internal/engine/actors"
)

// HandleUsers handles registration and profile lookup.
func (s *Server) HandleUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var msg actors.RegisterUserMsg
			if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetFollowActor(), &msg)

		case http.MethodGet:
			username := r.URL.Query().Get("username")
			if username == "" {
				http.Error(w, "username is required", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetFollowActor(), &actors.GetUserMsg{Username: username})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleFollowRequests creates follow requests and lists the pending ones
// awaiting a user's decision.
func (s *Server) HandleFollowRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var msg actors.SendFollowRequestMsg
			if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetFollowActor(), &msg)

		case http.MethodGet:
			target := r.URL.Query().Get("target")
			if target == "" {
				http.Error(w, "target is required", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetFollowActor(), &actors.PendingRequestsMsg{Target: target})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleFollowResponse accepts or declines a pending follow request.
func (s *Server) HandleFollowResponse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var msg actors.RespondFollowRequestMsg
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		s.request(w, s.Engine.GetFollowActor(), &msg)
	}
}

// HandleFollowing lists the usernames a follower has accepted follows for.
func (s *Server) HandleFollowing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		follower := r.URL.Query().Get("follower")
		if follower == "" {
			http.Error(w, "follower is required", http.StatusBadRequest)
			return
		}
		s.request(w, s.Engine.GetFollowActor(), &actors.GetFollowingMsg{Follower: follower})
	}
}
