// Package feed holds the pure feed-shaping logic: bounding per-author
// contributions, global ordering, and compound filtering. Everything here
// operates on materialized snapshots and is safe to call from any goroutine.
package feed

import (
	"sort"

	"moodmap/internal/models"
)

// DefaultPerAuthorCap bounds how many records one followed author can
// contribute to the following feed.
const DefaultPerAuthorCap = 3

// Aggregate bounds each author's contribution to at most perAuthorCap
// records and returns a single feed sorted by CreatedAt descending.
//
// Buckets fill with the first perAuthorCap records seen for an author. Once
// a bucket is full, an incoming record replaces the bucket's current oldest
// member only when the newcomer is strictly newer than it; equal timestamps
// never replace. The result is exactly the union of the retained buckets.
// Records with equal timestamps order by ID ascending so output is
// deterministic. The input slice is not modified.
func Aggregate(records []*models.MoodRecord, perAuthorCap int) []*models.MoodRecord {
	if perAuthorCap <= 0 {
		return []*models.MoodRecord{}
	}

	buckets := make(map[string][]*models.MoodRecord)
	order := make([]string, 0)

	for _, rec := range records {
		bucket, seen := buckets[rec.Author]
		if !seen {
			order = append(order, rec.Author)
		}
		if len(bucket) < perAuthorCap {
			buckets[rec.Author] = append(bucket, rec)
			continue
		}

		oldest := 0
		for i := 1; i < len(bucket); i++ {
			if bucket[i].CreatedAt.Before(bucket[oldest].CreatedAt) {
				oldest = i
			}
		}
		if rec.CreatedAt.After(bucket[oldest].CreatedAt) {
			bucket[oldest] = rec
		}
	}

	merged := make([]*models.MoodRecord, 0, len(records))
	for _, author := range order {
		merged = append(merged, buckets[author]...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].ID < merged[j].ID
		}
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}
