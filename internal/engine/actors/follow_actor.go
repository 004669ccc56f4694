package actors

import (
	stdctx "context"
	"log"
	"time"

	"moodmap/internal/database"
	"moodmap/internal/models"
	"moodmap/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for FollowActor
type (
	RegisterUserMsg struct {
		Username string `json:"username"`
	}

	GetUserMsg struct {
		Username string `json:"username"`
	}

	SendFollowRequestMsg struct {
		Follower string `json:"follower"`
		Target   string `json:"target"`
	}

	RespondFollowRequestMsg struct {
		RequestID string `json:"requestId"`
		Target    string `json:"target"`
		Accept    bool   `json:"accept"`
	}

	PendingRequestsMsg struct {
		Target string `json:"target"`
	}

	GetFollowingMsg struct {
		Follower string `json:"follower"`
	}
)

// FollowActor owns user profiles and the follow graph: registration,
// follow requests, and the accept/decline decision that admits an author
// into a follower's feed.
type FollowActor struct {
	store   database.StoreAdapter
	metrics *utils.MetricsCollector
}

func NewFollowActor(store database.StoreAdapter, metrics *utils.MetricsCollector) actor.Actor {
	return &FollowActor{
		store:   store,
		metrics: metrics,
	}
}

func (a *FollowActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("FollowActor started with PID: %v", context.Self())

	case *RegisterUserMsg:
		a.handleRegisterUser(context, msg)

	case *GetUserMsg:
		user, err := a.store.GetUserByUsername(stdctx.Background(), msg.Username)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(user)

	case *SendFollowRequestMsg:
		a.handleSendRequest(context, msg)

	case *RespondFollowRequestMsg:
		a.handleRespondRequest(context, msg)

	case *PendingRequestsMsg:
		requests, err := a.store.PendingFollowRequests(stdctx.Background(), msg.Target)
		if err != nil {
			a.metrics.IncrementErrors()
			context.Respond(err)
			return
		}
		context.Respond(requests)

	case *GetFollowingMsg:
		following, err := a.store.Following(stdctx.Background(), msg.Follower)
		if err != nil {
			a.metrics.IncrementErrors()
			context.Respond(err)
			return
		}
		context.Respond(following)
	}
}

func (a *FollowActor) handleRegisterUser(context actor.Context, msg *RegisterUserMsg) {
	startTime := time.Now()

	if msg.Username == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "username is required", nil))
		return
	}

	user := &models.User{
		ID:        uuid.New(),
		Username:  msg.Username,
		CreatedAt: time.Now(),
	}
	if err := a.store.SaveUser(stdctx.Background(), user); err != nil {
		a.metrics.IncrementErrors()
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("register_user", time.Since(startTime))
	context.Respond(user)
}

func (a *FollowActor) handleSendRequest(context actor.Context, msg *SendFollowRequestMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Follower == msg.Target {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "cannot follow yourself", nil))
		return
	}

	// The target must exist before a request can be queued for them.
	if _, err := a.store.GetUserByUsername(ctx, msg.Target); err != nil {
		context.Respond(err)
		return
	}

	request := &models.FollowRequest{
		Follower:  msg.Follower,
		Target:    msg.Target,
		Status:    models.FollowPending,
		CreatedAt: time.Now(),
	}
	if err := a.store.SaveFollowRequest(ctx, request); err != nil {
		a.metrics.IncrementErrors()
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("send_follow_request", time.Since(startTime))
	context.Respond(request)
}

func (a *FollowActor) handleRespondRequest(context actor.Context, msg *RespondFollowRequestMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	request, err := a.store.GetFollowRequest(ctx, msg.RequestID)
	if err != nil {
		context.Respond(err)
		return
	}
	if request.Target != msg.Target {
		context.Respond(utils.NewUnauthorizedError("only the requested user can respond"))
		return
	}
	if request.Status != models.FollowPending {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "follow request already resolved", nil))
		return
	}

	status := models.FollowDeclined
	if msg.Accept {
		status = models.FollowAccepted
	}
	if err := a.store.UpdateFollowStatus(ctx, msg.RequestID, status); err != nil {
		a.metrics.IncrementErrors()
		context.Respond(err)
		return
	}

	request.Status = status
	a.metrics.AddOperationLatency("respond_follow_request", time.Since(startTime))
	context.Respond(request)
}
