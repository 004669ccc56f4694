package actors

import (
	stdctx "context"
	"log"
	"time"

	"moodmap/internal/database"
	"moodmap/internal/models"
	"moodmap/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Message types for CommentActor
type (
	RequestTopLevelMsg struct {
		RecordID string `json:"recordId"`
	}

	RequestSubRepliesMsg struct {
		CommentID string `json:"commentId"`
	}

	PostTopLevelMsg struct {
		RecordID string `json:"recordId"`
		Author   string `json:"author"`
		Text     string `json:"text"`
	}

	PostSubReplyMsg struct {
		ParentCommentID string `json:"parentCommentId"`
		Author          string `json:"author"`
		Text            string `json:"text"`
	}

	// commentsFetchedMsg carries a completed thread fetch back onto the
	// actor goroutine, tagged with its request sequence.
	commentsFetchedMsg struct {
		Scope   string
		Seq     uint64
		Nodes   []*models.CommentNode
		Err     error
		ReplyTo *actor.PID
		Started time.Time
	}
)

// CommentActor serves and maintains the two-level comment tree per scope
// (a record's top-level thread, or one top-level comment's sub-replies).
// Fetches are asynchronous and sequence-guarded exactly like the feed
// actor's: a stale response never overwrites a fresher thread, and a
// failed fetch leaves the held thread untouched while surfacing the error.
// Posting writes through the store and then triggers a re-fetch of the
// affected scope.
type CommentActor struct {
	store   database.StoreAdapter
	metrics *utils.MetricsCollector

	threads  map[string][]*models.CommentNode
	issued   map[string]uint64
	accepted map[string]uint64
}

func NewCommentActor(store database.StoreAdapter, metrics *utils.MetricsCollector) actor.Actor {
	return &CommentActor{
		store:    store,
		metrics:  metrics,
		threads:  make(map[string][]*models.CommentNode),
		issued:   make(map[string]uint64),
		accepted: make(map[string]uint64),
	}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("CommentActor started with PID: %v", context.Self())

	case *RequestTopLevelMsg:
		recordID := msg.RecordID
		a.requestThread(context, "record:"+recordID, func(ctx stdctx.Context) ([]*models.CommentNode, error) {
			return a.store.TopLevelComments(ctx, recordID)
		})

	case *RequestSubRepliesMsg:
		commentID := msg.CommentID
		a.requestThread(context, "comment:"+commentID, func(ctx stdctx.Context) ([]*models.CommentNode, error) {
			return a.store.SubReplies(ctx, commentID)
		})

	case *commentsFetchedMsg:
		a.handleFetched(context, msg)

	case *PostTopLevelMsg:
		a.handlePostTopLevel(context, msg)

	case *PostSubReplyMsg:
		a.handlePostSubReply(context, msg)
	}
}

func (a *CommentActor) requestThread(context actor.Context, scope string, fetch func(stdctx.Context) ([]*models.CommentNode, error)) {
	a.metrics.IncrementRequests()
	a.issued[scope]++

	result := &commentsFetchedMsg{
		Scope:   scope,
		Seq:     a.issued[scope],
		ReplyTo: context.Sender(),
		Started: time.Now(),
	}
	self := context.Self()
	root := context.ActorSystem().Root

	go func() {
		result.Nodes, result.Err = fetch(stdctx.Background())
		root.Send(self, result)
	}()
}

func (a *CommentActor) handleFetched(context actor.Context, msg *commentsFetchedMsg) {
	if msg.Err != nil {
		log.Printf("Comment fetch for %s failed: %v", msg.Scope, msg.Err)
		a.metrics.IncrementErrors()
		if msg.ReplyTo != nil {
			context.Send(msg.ReplyTo, msg.Err)
		}
		return
	}

	if msg.Seq <= a.accepted[msg.Scope] {
		log.Printf("Dropping stale comment response %d for %s (accepted %d)",
			msg.Seq, msg.Scope, a.accepted[msg.Scope])
		if msg.ReplyTo != nil {
			context.Send(msg.ReplyTo, a.threads[msg.Scope])
		}
		return
	}

	a.accepted[msg.Scope] = msg.Seq
	a.threads[msg.Scope] = msg.Nodes

	a.metrics.AddOperationLatency("fetch_comments", time.Since(msg.Started))
	if msg.ReplyTo != nil {
		context.Send(msg.ReplyTo, msg.Nodes)
	}
}

func (a *CommentActor) handlePostTopLevel(context actor.Context, msg *PostTopLevelMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Text == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "comment text is required", nil))
		return
	}

	record, err := a.store.GetRecord(ctx, msg.RecordID)
	if err != nil {
		context.Respond(err)
		return
	}

	node := models.NewTopLevelComment(record, msg.Author, msg.Text)
	if err := a.store.SubmitComment(ctx, node); err != nil {
		log.Printf("Error submitting top-level comment on %s: %v", msg.RecordID, err)
		a.metrics.IncrementErrors()
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("post_comment", time.Since(startTime))
	context.Respond(node)

	// Refresh the thread so the held list includes the new node.
	context.Send(context.Self(), &RequestTopLevelMsg{RecordID: msg.RecordID})
}

func (a *CommentActor) handlePostSubReply(context actor.Context, msg *PostSubReplyMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Text == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "comment text is required", nil))
		return
	}

	parent, err := a.store.GetComment(ctx, msg.ParentCommentID)
	if err != nil {
		context.Respond(err)
		return
	}

	node, err := models.NewSubReply(parent, msg.Author, msg.Text)
	if err != nil {
		// Replying to a sub-level comment would create a third level.
		context.Respond(utils.NewAppError(utils.ErrReplyDepthExceeded, "cannot reply to a reply", err))
		return
	}

	if err := a.store.SubmitComment(ctx, node); err != nil {
		log.Printf("Error submitting sub-reply under %s: %v", msg.ParentCommentID, err)
		a.metrics.IncrementErrors()
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("post_reply", time.Since(startTime))
	context.Respond(node)

	context.Send(context.Self(), &RequestSubRepliesMsg{CommentID: msg.ParentCommentID})
}
