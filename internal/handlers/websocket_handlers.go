package handlers

import (
	"log"
	"net/http"

	"moodmap/internal/websocket"

	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection and subscribes the user to live
// feed change events.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("user")
		if username == "" {
			log.Println("WebSocket connection failed: missing user")
			http.Error(w, "user is required", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for %s: %v", username, err)
			return
		}
		log.Printf("WebSocket connection upgraded for %s", username)

		client := &websocket.Client{
			Hub:      s.Hub,
			Username: username,
			Conn:     conn,
			Send:     make(chan []byte, 256),
		}
		client.Hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
