package feed

import (
	"fmt"
	"testing"
	"time"

	"moodmap/internal/models"

	"github.com/stretchr/testify/assert"
)

func makeRecord(id, author string, createdAt time.Time) *models.MoodRecord {
	return &models.MoodRecord{
		ID:         id,
		Author:     author,
		Emotion:    models.EmotionHappy,
		Visibility: models.VisibilityPublic,
		CreatedAt:  createdAt,
	}
}

func TestAggregateKeepsNewestPerAuthor(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// Five records from one author, arriving oldest first. With a cap of
	// three, each newcomer evicts the bucket's current oldest, leaving the
	// three newest.
	records := []*models.MoodRecord{
		makeRecord("r1", "gator1", base.Add(1*time.Minute)),
		makeRecord("r2", "gator1", base.Add(2*time.Minute)),
		makeRecord("r3", "gator1", base.Add(3*time.Minute)),
		makeRecord("r4", "gator1", base.Add(4*time.Minute)),
		makeRecord("r5", "gator1", base.Add(5*time.Minute)),
	}

	got := Aggregate(records, 3)

	assert.Len(t, got, 3)
	assert.Equal(t, "r5", got[0].ID)
	assert.Equal(t, "r4", got[1].ID)
	assert.Equal(t, "r3", got[2].ID)
}

func TestAggregateSortsAcrossAuthorsNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []*models.MoodRecord{
		makeRecord("a1", "alice", base.Add(1*time.Minute)),
		makeRecord("b1", "bob", base.Add(4*time.Minute)),
		makeRecord("a2", "alice", base.Add(3*time.Minute)),
		makeRecord("b2", "bob", base.Add(2*time.Minute)),
	}

	got := Aggregate(records, 3)

	assert.Len(t, got, 4)
	assert.Equal(t, []string{"b1", "a2", "b2", "a1"}, ids(got))
}

func TestAggregateCapProperty(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var records []*models.MoodRecord
	for _, author := range []string{"alice", "bob", "carol"} {
		for i := 0; i < 7; i++ {
			id := fmt.Sprintf("%s-%d", author, i)
			records = append(records, makeRecord(id, author, base.Add(time.Duration(i)*time.Minute)))
		}
	}

	got := Aggregate(records, 3)

	counts := make(map[string]int)
	for _, rec := range got {
		counts[rec.Author]++
	}
	for author, count := range counts {
		assert.LessOrEqual(t, count, 3, "author %s", author)
	}
	assert.Len(t, got, 9)

	// Ordering is non-increasing by timestamp.
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt))
	}
}

func TestAggregateEqualTimestampNeverReplaces(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []*models.MoodRecord{
		makeRecord("r1", "gator1", at),
		makeRecord("r2", "gator1", at),
	}

	got := Aggregate(records, 1)

	// The newcomer ties with the bucket's oldest, so the incumbent stays.
	assert.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
}

func TestAggregateEqualTimestampsOrderByID(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []*models.MoodRecord{
		makeRecord("r9", "alice", at),
		makeRecord("r2", "bob", at),
		makeRecord("r5", "carol", at),
	}

	got := Aggregate(records, 3)

	assert.Equal(t, []string{"r2", "r5", "r9"}, ids(got))
}

func TestAggregateNonPositiveCap(t *testing.T) {
	records := []*models.MoodRecord{
		makeRecord("r1", "gator1", time.Now()),
	}

	assert.Empty(t, Aggregate(records, 0))
	assert.Empty(t, Aggregate(records, -1))
	assert.Empty(t, Aggregate(nil, 3))
}

func ids(records []*models.MoodRecord) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.ID
	}
	return out
}
