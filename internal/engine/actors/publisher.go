package actors

import "moodmap/internal/models"

// EventPublisher delivers feed change events to a user's connected
// presentation clients. The websocket hub implements it; tests substitute
// a recorder. A nil publisher disables push.
type EventPublisher interface {
	PublishToUser(username string, event *models.FeedChangeEvent)
}
