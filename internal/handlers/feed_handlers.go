package handlers

import (
	"net/http"

	"moodmap/internal/engine/actors"
	"moodmap/internal/feed"
)

// HandleFeed serves the following feed: records from the user's accepted
// follows, bounded per author, newest first, narrowed by the filter query
// parameters. Passing cached=true returns the last accepted feed without
// hitting the store.
func (s *Server) HandleFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		username := r.URL.Query().Get("user")
		if username == "" {
			http.Error(w, "user is required", http.StatusBadRequest)
			return
		}

		if r.URL.Query().Get("cached") == "true" {
			s.request(w, s.Engine.GetFeedActor(), &actors.GetFeedMsg{Username: username})
			return
		}

		var criteria *feed.Criteria
		emotion := r.URL.Query().Get("emotion")
		timeRange := r.URL.Query().Get("timeRange")
		keyword := r.URL.Query().Get("keyword")
		if emotion != "" || timeRange != "" || keyword != "" {
			criteria = &feed.Criteria{
				Emotion:   emotion,
				TimeRange: timeRange,
				Keyword:   keyword,
			}
		}

		s.request(w, s.Engine.GetFeedActor(), &actors.RefreshFeedMsg{
			Username: username,
			Criteria: criteria,
		})
	}
}
