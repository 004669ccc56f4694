package handlers

import (
	"encoding/json"
	"net/http"

	"moodmap/internal/engine/actors"
)

// HandleRecords handles creation, editing, deletion and lookup of mood
// records.
func (s *Server) HandleRecords() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var msg actors.CreateRecordMsg
			if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetRecordActor(), &msg)

		case http.MethodPut:
			var msg actors.EditRecordMsg
			if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			if msg.RecordID == "" {
				http.Error(w, "recordId is required", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetRecordActor(), &msg)

		case http.MethodDelete:
			recordID := r.URL.Query().Get("id")
			author := r.URL.Query().Get("author")
			if recordID == "" || author == "" {
				http.Error(w, "id and author are required", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetRecordActor(), &actors.DeleteRecordMsg{
				RecordID: recordID,
				Author:   author,
			})

		case http.MethodGet:
			recordID := r.URL.Query().Get("id")
			if recordID == "" {
				http.Error(w, "id is required", http.StatusBadRequest)
				return
			}
			s.request(w, s.Engine.GetRecordActor(), &actors.GetRecordMsg{RecordID: recordID})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleMoodHistory returns a user's own records, all visibilities, newest
// first.
func (s *Server) HandleMoodHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		author := r.URL.Query().Get("author")
		if author == "" {
			http.Error(w, "author is required", http.StatusBadRequest)
			return
		}
		s.request(w, s.Engine.GetRecordActor(), &actors.GetMoodHistoryMsg{Author: author})
	}
}
