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

// Message types for RecordActor
type (
	CreateRecordMsg struct {
		Author    string   `json:"author"`
		Emotion   string   `json:"emotion"`
		Trigger   string   `json:"trigger,omitempty"`
		Reason    string   `json:"reason,omitempty"`
		Situation string   `json:"situation,omitempty"`
		Latitude  *float64 `json:"latitude,omitempty"`
		Longitude *float64 `json:"longitude,omitempty"`
		ImageRef  string   `json:"imageRef,omitempty"`
		Private   bool     `json:"private"`
	}

	EditRecordMsg struct {
		RecordID  string   `json:"recordId"`
		Author    string   `json:"author"`
		Emotion   *string  `json:"emotion,omitempty"`
		Trigger   *string  `json:"trigger,omitempty"`
		Reason    *string  `json:"reason,omitempty"`
		Situation *string  `json:"situation,omitempty"`
		Latitude  *float64 `json:"latitude,omitempty"`
		Longitude *float64 `json:"longitude,omitempty"`
		Private   *bool    `json:"private,omitempty"`
	}

	DeleteRecordMsg struct {
		RecordID string `json:"recordId"`
		Author   string `json:"author"`
	}

	GetRecordMsg struct {
		RecordID string `json:"recordId"`
	}

	GetMoodHistoryMsg struct {
		Author string `json:"author"`
	}
)

// RecordActor owns the mood record lifecycle: creation, edits, deletion.
// Every change is written through the store and then pushed to the
// author's followers as a tagged change event.
type RecordActor struct {
	store     database.StoreAdapter
	publisher EventPublisher
	metrics   *utils.MetricsCollector
}

func NewRecordActor(store database.StoreAdapter, publisher EventPublisher, metrics *utils.MetricsCollector) actor.Actor {
	return &RecordActor{
		store:     store,
		publisher: publisher,
		metrics:   metrics,
	}
}

func (a *RecordActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("RecordActor started with PID: %v", context.Self())

	case *CreateRecordMsg:
		a.handleCreateRecord(context, msg)

	case *EditRecordMsg:
		a.handleEditRecord(context, msg)

	case *DeleteRecordMsg:
		a.handleDeleteRecord(context, msg)

	case *GetRecordMsg:
		a.handleGetRecord(context, msg)

	case *GetMoodHistoryMsg:
		a.handleGetMoodHistory(context, msg)
	}
}

func (a *RecordActor) handleCreateRecord(context actor.Context, msg *CreateRecordMsg) {
	startTime := time.Now()

	if msg.Author == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "author is required", nil))
		return
	}

	emotion, err := models.ParseEmotion(msg.Emotion)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid emotion", err))
		return
	}

	record := models.NewMoodRecord(msg.Author, emotion)
	record.SetTrigger(msg.Trigger)
	record.SetReason(msg.Reason)
	record.ImageRef = msg.ImageRef
	if msg.Private {
		record.Visibility = models.VisibilityPrivate
	}

	if msg.Situation != "" {
		situation, err := models.ParseSituation(msg.Situation)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid social situation", err))
			return
		}
		record.Situation = situation
	}

	// Out-of-range coordinates clamp rather than fail.
	if msg.Latitude != nil && msg.Longitude != nil {
		record.SetLocation(*msg.Latitude, *msg.Longitude)
	}

	ctx := stdctx.Background()
	if err := a.store.SaveRecord(ctx, record); err != nil {
		log.Printf("Error saving mood record for %s: %v", msg.Author, err)
		a.metrics.IncrementErrors()
		context.Respond(err)
		return
	}

	a.publishToFollowers(record, models.ChangeAdded)
	a.metrics.AddOperationLatency("create_record", time.Since(startTime))
	context.Respond(record)
}

func (a *RecordActor) handleEditRecord(context actor.Context, msg *EditRecordMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	record, err := a.store.GetRecord(ctx, msg.RecordID)
	if err != nil {
		context.Respond(err)
		return
	}
	if record.Author != msg.Author {
		context.Respond(utils.NewUnauthorizedError("only the author can edit a mood record"))
		return
	}

	if msg.Emotion != nil {
		emotion, err := models.ParseEmotion(*msg.Emotion)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid emotion", err))
			return
		}
		record.Emotion = emotion
	}
	if msg.Situation != nil {
		if *msg.Situation == "" {
			record.Situation = ""
		} else {
			situation, err := models.ParseSituation(*msg.Situation)
			if err != nil {
				context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid social situation", err))
				return
			}
			record.Situation = situation
		}
	}
	if msg.Trigger != nil {
		record.SetTrigger(*msg.Trigger)
	}
	if msg.Reason != nil {
		record.SetReason(*msg.Reason)
	}
	if msg.Latitude != nil && msg.Longitude != nil {
		record.SetLocation(*msg.Latitude, *msg.Longitude)
	}
	if msg.Private != nil {
		if *msg.Private {
			record.Visibility = models.VisibilityPrivate
		} else {
			record.Visibility = models.VisibilityPublic
		}
	}

	// CreatedAt stays untouched; only the edited flag records the change.
	record.Edited = true

	if err := a.store.UpdateRecord(ctx, record); err != nil {
		log.Printf("Error updating mood record %s: %v", msg.RecordID, err)
		a.metrics.IncrementErrors()
		context.Respond(err)
		return
	}

	a.publishToFollowers(record, models.ChangeUpdated)
	a.metrics.AddOperationLatency("edit_record", time.Since(startTime))
	context.Respond(record)
}

func (a *RecordActor) handleDeleteRecord(context actor.Context, msg *DeleteRecordMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	record, err := a.store.GetRecord(ctx, msg.RecordID)
	if err != nil {
		context.Respond(err)
		return
	}

	if err := a.store.RemoveRecord(ctx, msg.Author, msg.RecordID); err != nil {
		log.Printf("Error removing mood record %s: %v", msg.RecordID, err)
		a.metrics.IncrementErrors()
		context.Respond(err)
		return
	}

	a.publishToFollowers(record, models.ChangeRemoved)
	a.metrics.AddOperationLatency("delete_record", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "Mood record deleted"})
}

func (a *RecordActor) handleGetRecord(context actor.Context, msg *GetRecordMsg) {
	record, err := a.store.GetRecord(stdctx.Background(), msg.RecordID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(record)
}

func (a *RecordActor) handleGetMoodHistory(context actor.Context, msg *GetMoodHistoryMsg) {
	records, err := a.store.GetRecordsByAuthor(stdctx.Background(), msg.Author)
	if err != nil {
		a.metrics.IncrementErrors()
		context.Respond(err)
		return
	}
	context.Respond(records)
}

// publishToFollowers pushes a change event to everyone following the
// record's author. Private records are never pushed.
func (a *RecordActor) publishToFollowers(record *models.MoodRecord, kind models.ChangeKind) {
	if a.publisher == nil || record.Visibility != models.VisibilityPublic {
		return
	}

	followers, err := a.store.Followers(stdctx.Background(), record.Author)
	if err != nil {
		log.Printf("Failed to resolve followers of %s for push: %v", record.Author, err)
		return
	}

	event := &models.FeedChangeEvent{Kind: kind, Records: []*models.MoodRecord{record}}
	for _, follower := range followers {
		a.publisher.PublishToUser(follower, event)
	}
}
