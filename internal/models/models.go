package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// FollowStatus tracks the lifecycle of a follow request.
type FollowStatus string

const (
	FollowPending  FollowStatus = "pending"
	FollowAccepted FollowStatus = "accepted"
	FollowDeclined FollowStatus = "declined"
)

// FollowRequest links a follower to the user they asked to follow. The
// following feed only aggregates records from accepted follows.
type FollowRequest struct {
	ID        string       `json:"id"`
	Follower  string       `json:"follower"`
	Target    string       `json:"target"`
	Status    FollowStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
