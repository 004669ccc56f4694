package actors

import (
	"context"
	"fmt"
	"testing"
	"time"

	"moodmap/internal/feed"
	"moodmap/internal/models"
	"moodmap/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnFeedActor(t *testing.T, store *fakeStore) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewFeedActor(store, utils.NewMetricsCollector())
	})
	return system, system.Root.Spawn(props)
}

func acceptFollow(t *testing.T, store *fakeStore, follower, target string) {
	t.Helper()
	ctx := context.Background()
	req := &models.FollowRequest{
		Follower:  follower,
		Target:    target,
		Status:    models.FollowPending,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.SaveFollowRequest(ctx, req))
	require.NoError(t, store.UpdateFollowStatus(ctx, req.ID, models.FollowAccepted))
}

func seedRecordAt(t *testing.T, store *fakeStore, author string, emotion models.Emotion, createdAt time.Time) *models.MoodRecord {
	t.Helper()
	record := models.NewMoodRecord(author, emotion)
	record.CreatedAt = createdAt
	require.NoError(t, store.SaveRecord(context.Background(), record))
	return record
}

func refreshFeed(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg *RefreshFeedMsg) []*models.MoodRecord {
	t.Helper()
	future := system.Root.RequestFuture(pid, msg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	records, ok := result.([]*models.MoodRecord)
	require.True(t, ok, "expected a record list, got %T", result)
	return records
}

func TestFeedBoundsAuthorsAndOrdersNewestFirst(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnFeedActor(t, store)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	acceptFollow(t, store, "reader", "alice")
	acceptFollow(t, store, "reader", "bob")

	// Alice floods; only her three newest survive the per-author bound.
	for i := 0; i < 5; i++ {
		seedRecordAt(t, store, "alice", models.EmotionHappy, base.Add(time.Duration(i)*time.Minute))
	}
	bobRecord := seedRecordAt(t, store, "bob", models.EmotionAnger, base.Add(10*time.Minute))

	// Records from authors the reader does not follow never appear.
	seedRecordAt(t, store, "stranger", models.EmotionHappy, base.Add(20*time.Minute))

	got := refreshFeed(t, system, pid, &RefreshFeedMsg{Username: "reader"})

	require.Len(t, got, 4)
	assert.Equal(t, bobRecord.ID, got[0].ID)
	for _, rec := range got {
		assert.NotEqual(t, "stranger", rec.Author)
	}
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt))
	}
}

func TestFeedExcludesPrivateRecords(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnFeedActor(t, store)

	acceptFollow(t, store, "reader", "alice")

	public := seedRecordAt(t, store, "alice", models.EmotionHappy, time.Now())
	private := models.NewMoodRecord("alice", models.EmotionShame)
	private.Visibility = models.VisibilityPrivate
	require.NoError(t, store.SaveRecord(context.Background(), private))

	got := refreshFeed(t, system, pid, &RefreshFeedMsg{Username: "reader"})

	require.Len(t, got, 1)
	assert.Equal(t, public.ID, got[0].ID)
}

func TestFeedAppliesCriteriaAfterAggregation(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnFeedActor(t, store)

	acceptFollow(t, store, "reader", "alice")

	now := time.Now()
	sad := seedRecordAt(t, store, "alice", models.EmotionSadness, now.Add(-time.Hour))
	sad.SetReason("failed midterm exam")
	seedRecordAt(t, store, "alice", models.EmotionHappy, now.Add(-2*time.Hour))
	old := seedRecordAt(t, store, "alice", models.EmotionSadness, now.Add(-10*24*time.Hour))
	old.SetReason("failed midterm exam")

	got := refreshFeed(t, system, pid, &RefreshFeedMsg{
		Username: "reader",
		Criteria: &feed.Criteria{
			Emotion:   "SADNESS",
			TimeRange: feed.RangeLastWeek,
			Keyword:   "midterm",
		},
	})

	require.Len(t, got, 1)
	assert.Equal(t, sad.ID, got[0].ID)
}

func waitForFetches(t *testing.T, store *fakeStore, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for store.fetchesStarted() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d fetches to start", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFeedDropsStaleFetchResponse(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnFeedActor(t, store)

	acceptFollow(t, store, "reader", "alice")
	first := seedRecordAt(t, store, "alice", models.EmotionHappy, time.Now().Add(-time.Hour))

	gates := store.gateFetches(2)

	// The first refresh snapshots a one-record feed, then stalls.
	slow := system.Root.RequestFuture(pid, &RefreshFeedMsg{Username: "reader"}, 5*time.Second)
	waitForFetches(t, store, 1)

	// A second record lands and a second refresh snapshots both.
	second := seedRecordAt(t, store, "alice", models.EmotionSadness, time.Now())
	fast := system.Root.RequestFuture(pid, &RefreshFeedMsg{Username: "reader"}, 5*time.Second)
	waitForFetches(t, store, 2)

	// The later refresh completes first.
	close(gates[1])
	result, err := fast.Result()
	require.NoError(t, err)
	fresh, ok := result.([]*models.MoodRecord)
	require.True(t, ok, "expected a record list, got %T", result)
	require.Len(t, fresh, 2)
	assert.Equal(t, second.ID, fresh[0].ID)

	// The straggler carries only the old record; it must not overwrite the
	// fresher feed, and its caller is served the accepted one instead.
	close(gates[0])
	result, err = slow.Result()
	require.NoError(t, err)
	served, ok := result.([]*models.MoodRecord)
	require.True(t, ok, "expected a record list, got %T", result)
	require.Len(t, served, 2)
	assert.Equal(t, second.ID, served[0].ID)

	future := system.Root.RequestFuture(pid, &GetFeedMsg{Username: "reader"}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	held, ok := result.([]*models.MoodRecord)
	require.True(t, ok)
	require.Len(t, held, 2)
	assert.Equal(t, second.ID, held[0].ID)
	assert.Equal(t, first.ID, held[1].ID)
}

func TestFeedKeepsLastGoodOnFetchFailure(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnFeedActor(t, store)

	acceptFollow(t, store, "reader", "alice")
	record := seedRecordAt(t, store, "alice", models.EmotionHappy, time.Now())

	got := refreshFeed(t, system, pid, &RefreshFeedMsg{Username: "reader"})
	require.Len(t, got, 1)

	// The next fetch fails; the error reaches the caller.
	store.mu.Lock()
	store.failNextFetch = fmt.Errorf("connection reset")
	store.mu.Unlock()

	future := system.Root.RequestFuture(pid, &RefreshFeedMsg{Username: "reader"}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	_, isErr := result.(error)
	assert.True(t, isErr, "expected an error, got %T", result)

	// The held feed is the last good one, not cleared.
	future = system.Root.RequestFuture(pid, &GetFeedMsg{Username: "reader"}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	cached, ok := result.([]*models.MoodRecord)
	require.True(t, ok)
	require.Len(t, cached, 1)
	assert.Equal(t, record.ID, cached[0].ID)
}

func TestGetFeedBeforeAnyRefreshIsEmpty(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnFeedActor(t, store)

	future := system.Root.RequestFuture(pid, &GetFeedMsg{Username: "reader"}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	got, ok := result.([]*models.MoodRecord)
	require.True(t, ok)
	assert.Empty(t, got)
}
