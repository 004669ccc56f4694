package actors

import (
	stdctx "context"
	"log"
	"time"

	"moodmap/internal/database"
	"moodmap/internal/feed"
	"moodmap/internal/models"
	"moodmap/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Message types for FeedActor
type (
	// RefreshFeedMsg re-fetches a user's following feed from the store,
	// bounds and orders it, applies the given criteria, and responds with
	// the shaped feed.
	RefreshFeedMsg struct {
		Username string         `json:"username"`
		Criteria *feed.Criteria `json:"criteria,omitempty"`
	}

	// GetFeedMsg responds with the last accepted feed for a user without
	// touching the store.
	GetFeedMsg struct {
		Username string `json:"username"`
	}

	// feedFetchedMsg carries a completed store fetch back onto the actor
	// goroutine, tagged with the sequence number of the request that
	// issued it.
	feedFetchedMsg struct {
		Username string
		Seq      uint64
		Records  []*models.MoodRecord
		Err      error
		Criteria *feed.Criteria
		ReplyTo  *actor.PID
		Started  time.Time
	}
)

// FeedActor is the following-feed view model. Fetches run off the actor
// goroutine; each one is tagged with a per-user sequence number and a
// response older than the currently accepted one is discarded, so a slow
// first fetch can never overwrite the result of a later one. On a failed
// fetch the last-good feed is kept, not cleared, and the failure is
// surfaced to the caller.
type FeedActor struct {
	store        database.StoreAdapter
	metrics      *utils.MetricsCollector
	perAuthorCap int

	feeds    map[string][]*models.MoodRecord
	issued   map[string]uint64
	accepted map[string]uint64
}

func NewFeedActor(store database.StoreAdapter, metrics *utils.MetricsCollector) actor.Actor {
	return &FeedActor{
		store:        store,
		metrics:      metrics,
		perAuthorCap: feed.DefaultPerAuthorCap,
		feeds:        make(map[string][]*models.MoodRecord),
		issued:       make(map[string]uint64),
		accepted:     make(map[string]uint64),
	}
}

func (a *FeedActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("FeedActor started with PID: %v", context.Self())

	case *RefreshFeedMsg:
		a.handleRefresh(context, msg)

	case *feedFetchedMsg:
		a.handleFetched(context, msg)

	case *GetFeedMsg:
		if current, ok := a.feeds[msg.Username]; ok {
			context.Respond(current)
		} else {
			context.Respond([]*models.MoodRecord{})
		}
	}
}

func (a *FeedActor) handleRefresh(context actor.Context, msg *RefreshFeedMsg) {
	a.metrics.IncrementRequests()
	a.issued[msg.Username]++

	result := &feedFetchedMsg{
		Username: msg.Username,
		Seq:      a.issued[msg.Username],
		Criteria: msg.Criteria,
		ReplyTo:  context.Sender(),
		Started:  time.Now(),
	}
	self := context.Self()
	root := context.ActorSystem().Root
	store := a.store

	go func() {
		ctx := stdctx.Background()
		following, err := store.Following(ctx, msg.Username)
		if err != nil {
			result.Err = err
			root.Send(self, result)
			return
		}
		records, err := store.GetPublicRecordsByAuthors(ctx, following)
		if err != nil {
			result.Err = err
			root.Send(self, result)
			return
		}
		result.Records = records
		root.Send(self, result)
	}()
}

func (a *FeedActor) handleFetched(context actor.Context, msg *feedFetchedMsg) {
	if msg.Err != nil {
		// The held feed stays as it was; the failure is surfaced, not
		// swallowed.
		log.Printf("Feed fetch for %s failed: %v", msg.Username, msg.Err)
		a.metrics.IncrementErrors()
		if msg.ReplyTo != nil {
			context.Send(msg.ReplyTo, msg.Err)
		}
		return
	}

	if msg.Seq <= a.accepted[msg.Username] {
		// A newer response already landed; drop the stale one and serve
		// the accepted feed to whoever was waiting on this request.
		log.Printf("Dropping stale feed response %d for %s (accepted %d)",
			msg.Seq, msg.Username, a.accepted[msg.Username])
		if msg.ReplyTo != nil {
			context.Send(msg.ReplyTo, a.feeds[msg.Username])
		}
		return
	}

	shaped := feed.Filter(feed.Aggregate(msg.Records, a.perAuthorCap), msg.Criteria)
	a.accepted[msg.Username] = msg.Seq
	a.feeds[msg.Username] = shaped

	a.metrics.AddOperationLatency("refresh_feed", time.Since(msg.Started))
	if msg.ReplyTo != nil {
		context.Send(msg.ReplyTo, shaped)
	}
}
