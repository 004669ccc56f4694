package engine

import (
	"moodmap/internal/database"
	"moodmap/internal/engine/actors"
	"moodmap/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine spawns the domain actors and hands out their PIDs. Every actor
// receives the store as an injected capability; nothing in the system
// reaches persistence through a global.
type Engine struct {
	recordActor  *actor.PID
	feedActor    *actor.PID
	commentActor *actor.PID
	followActor  *actor.PID
}

func NewEngine(system *actor.ActorSystem, store database.StoreAdapter, publisher actors.EventPublisher, metrics *utils.MetricsCollector) *Engine {
	context := system.Root

	recordProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewRecordActor(store, publisher, metrics)
	})
	recordPID := context.Spawn(recordProps)

	feedProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewFeedActor(store, metrics)
	})
	feedPID := context.Spawn(feedProps)

	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(store, metrics)
	})
	commentPID := context.Spawn(commentProps)

	followProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewFollowActor(store, metrics)
	})
	followPID := context.Spawn(followProps)

	return &Engine{
		recordActor:  recordPID,
		feedActor:    feedPID,
		commentActor: commentPID,
		followActor:  followPID,
	}
}

// GetRecordActor returns the PID of the mood record actor
func (e *Engine) GetRecordActor() *actor.PID {
	return e.recordActor
}

// GetFeedActor returns the PID of the following-feed actor
func (e *Engine) GetFeedActor() *actor.PID {
	return e.feedActor
}

// GetCommentActor returns the PID of the comment thread actor
func (e *Engine) GetCommentActor() *actor.PID {
	return e.commentActor
}

// GetFollowActor returns the PID of the follow graph actor
func (e *Engine) GetFollowActor() *actor.PID {
	return e.followActor
}
