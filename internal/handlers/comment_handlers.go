package handlers

import (
	"encoding/json"
	"net/http"

	"moodmap/internal/engine/actors"
)

// HandleComments serves a record's top-level thread and accepts new
// top-level comments.
func (s *Server) HandleComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			recordID := r.URL.Query().Get("recordId")
			if recordID == "" {
				http.Error(w, "recordId is required", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetCommentActor(), &actors.RequestTopLevelMsg{RecordID: recordID})

		case http.MethodPost:
			var msg actors.PostTopLevelMsg
			if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetCommentActor(), &msg)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleReplies serves one top-level comment's sub-replies and accepts new
// sub-replies. A reply targeting a reply is rejected; threads never exceed
// two levels.
func (s *Server) HandleReplies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			commentID := r.URL.Query().Get("commentId")
			if commentID == "" {
				http.Error(w, "commentId is required", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetCommentActor(), &actors.RequestSubRepliesMsg{CommentID: commentID})

		case http.MethodPost:
			var msg actors.PostSubReplyMsg
			if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetCommentActor(), &msg)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
