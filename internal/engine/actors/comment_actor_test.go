package actors

import (
	"context"
	"testing"
	"time"

	"moodmap/internal/models"
	"moodmap/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnCommentActor(t *testing.T, store *fakeStore) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommentActor(store, utils.NewMetricsCollector())
	})
	return system, system.Root.Spawn(props)
}

func seedRecord(t *testing.T, store *fakeStore, author string) *models.MoodRecord {
	t.Helper()
	record := models.NewMoodRecord(author, models.EmotionHappy)
	require.NoError(t, store.SaveRecord(context.Background(), record))
	return record
}

func TestCommentThreadGrowsFromEmpty(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnCommentActor(t, store)

	record := seedRecord(t, store, "gator1")

	// A fresh record has no thread.
	future := system.Root.RequestFuture(pid, &RequestTopLevelMsg{RecordID: record.ID}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	thread, ok := result.([]*models.CommentNode)
	require.True(t, ok, "expected a comment list, got %T", result)
	assert.Empty(t, thread)

	// Post a top-level comment.
	future = system.Root.RequestFuture(pid, &PostTopLevelMsg{
		RecordID: record.ID,
		Author:   "alice",
		Text:     "hope tomorrow is better",
	}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	posted, ok := result.(*models.CommentNode)
	require.True(t, ok, "expected a comment node, got %T", result)
	assert.True(t, posted.IsTopLevel())
	assert.NotEmpty(t, posted.ID)
	assert.Equal(t, record.ID, posted.RootRecordID)

	// The thread now contains it.
	future = system.Root.RequestFuture(pid, &RequestTopLevelMsg{RecordID: record.ID}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	thread, ok = result.([]*models.CommentNode)
	require.True(t, ok)
	require.Len(t, thread, 1)
	assert.Equal(t, posted.ID, thread[0].ID)
	assert.Equal(t, 1, record.TopLevelCommentCount)
}

func TestSubRepliesAppearUnderParent(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnCommentActor(t, store)

	record := seedRecord(t, store, "gator1")

	future := system.Root.RequestFuture(pid, &PostTopLevelMsg{
		RecordID: record.ID,
		Author:   "alice",
		Text:     "rough week",
	}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	parent := result.(*models.CommentNode)
	assert.Equal(t, 0, parent.SubReplyCount)

	// The parent starts with no replies.
	future = system.Root.RequestFuture(pid, &RequestSubRepliesMsg{CommentID: parent.ID}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	replies, ok := result.([]*models.CommentNode)
	require.True(t, ok)
	assert.Empty(t, replies)

	future = system.Root.RequestFuture(pid, &PostSubReplyMsg{
		ParentCommentID: parent.ID,
		Author:          "bob",
		Text:            "hang in there",
	}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	reply, ok := result.(*models.CommentNode)
	require.True(t, ok, "expected a comment node, got %T", result)
	assert.False(t, reply.IsTopLevel())
	assert.Equal(t, parent.ID, reply.ParentCommentID)
	assert.Equal(t, record.ID, reply.RootRecordID)

	future = system.Root.RequestFuture(pid, &RequestSubRepliesMsg{CommentID: parent.ID}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	replies, ok = result.([]*models.CommentNode)
	require.True(t, ok)
	require.Len(t, replies, 1)
	assert.Equal(t, reply.ID, replies[0].ID)
	assert.Equal(t, 1, parent.SubReplyCount)
}

func TestReplyToReplyIsRejected(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnCommentActor(t, store)

	record := seedRecord(t, store, "gator1")

	future := system.Root.RequestFuture(pid, &PostTopLevelMsg{
		RecordID: record.ID,
		Author:   "alice",
		Text:     "top",
	}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	parent := result.(*models.CommentNode)

	future = system.Root.RequestFuture(pid, &PostSubReplyMsg{
		ParentCommentID: parent.ID,
		Author:          "bob",
		Text:            "reply",
	}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	reply := result.(*models.CommentNode)

	// Replying to a sub-level comment would create a third level.
	future = system.Root.RequestFuture(pid, &PostSubReplyMsg{
		ParentCommentID: reply.ID,
		Author:          "carol",
		Text:            "reply to reply",
	}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected an AppError, got %T", result)
	assert.Equal(t, utils.ErrReplyDepthExceeded, appErr.Code)

	// Nothing was written.
	future = system.Root.RequestFuture(pid, &RequestSubRepliesMsg{CommentID: reply.ID}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	replies, ok := result.([]*models.CommentNode)
	require.True(t, ok)
	assert.Empty(t, replies)
}

func TestPostRejectsEmptyTextAndMissingRecord(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnCommentActor(t, store)

	record := seedRecord(t, store, "gator1")

	future := system.Root.RequestFuture(pid, &PostTopLevelMsg{
		RecordID: record.ID,
		Author:   "alice",
		Text:     "",
	}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	future = system.Root.RequestFuture(pid, &PostTopLevelMsg{
		RecordID: "missing",
		Author:   "alice",
		Text:     "hi",
	}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrRecordNotFound, appErr.Code)
}

func TestThreadDropsStaleFetchResponse(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnCommentActor(t, store)

	record := seedRecord(t, store, "gator1")
	first := models.NewTopLevelComment(record, "alice", "first")
	require.NoError(t, store.SubmitComment(context.Background(), first))

	gates := store.gateFetches(2)

	// The first fetch snapshots a one-comment thread, then stalls.
	slow := system.Root.RequestFuture(pid, &RequestTopLevelMsg{RecordID: record.ID}, 5*time.Second)
	waitForFetches(t, store, 1)

	second := models.NewTopLevelComment(record, "bob", "second")
	require.NoError(t, store.SubmitComment(context.Background(), second))
	fast := system.Root.RequestFuture(pid, &RequestTopLevelMsg{RecordID: record.ID}, 5*time.Second)
	waitForFetches(t, store, 2)

	// The later fetch completes first.
	close(gates[1])
	result, err := fast.Result()
	require.NoError(t, err)
	fresh, ok := result.([]*models.CommentNode)
	require.True(t, ok, "expected a comment list, got %T", result)
	require.Len(t, fresh, 2)

	// The stale one-comment snapshot is dropped; its caller gets the
	// accepted two-comment thread.
	close(gates[0])
	result, err = slow.Result()
	require.NoError(t, err)
	served, ok := result.([]*models.CommentNode)
	require.True(t, ok, "expected a comment list, got %T", result)
	assert.Len(t, served, 2)
}
