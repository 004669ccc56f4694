package feed

import (
	"strings"
	"time"

	"moodmap/internal/models"
)

// EmotionAll is the criteria sentinel matching every emotion.
const EmotionAll = "ALL"

// Recognized time range labels, as presented to the user. Any other value
// (including the empty string) means no lower time bound.
const (
	RangeAllTime   = "All time"
	RangeLastDay   = "Last 24 hours"
	RangeLastWeek  = "Last 7 days"
	RangeLastMonth = "Last 30 days"
)

// Criteria is the compound filter chosen by the user. The three predicates
// are independent and applied simultaneously; a record must pass all of
// them. A nil *Criteria matches everything.
type Criteria struct {
	Emotion   string `json:"emotion"`
	TimeRange string `json:"timeRange"`
	Keyword   string `json:"keyword"`
}

// Filter narrows records to those passing all criteria. Input order is
// preserved; callers that need both aggregation and filtering aggregate
// first. The input slice is not modified.
func Filter(records []*models.MoodRecord, criteria *Criteria) []*models.MoodRecord {
	out := make([]*models.MoodRecord, 0, len(records))
	now := time.Now()
	for _, rec := range records {
		if matches(rec, criteria, now) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec *models.MoodRecord, c *Criteria, now time.Time) bool {
	if c == nil {
		return true
	}
	return matchesEmotion(rec, c.Emotion) &&
		matchesTime(rec, c.TimeRange, now) &&
		matchesKeyword(rec, c.Keyword)
}

func matchesEmotion(rec *models.MoodRecord, emotion string) bool {
	if emotion == "" || strings.EqualFold(emotion, EmotionAll) {
		return true
	}
	return strings.EqualFold(emotion, string(rec.Emotion))
}

func matchesTime(rec *models.MoodRecord, timeRange string, now time.Time) bool {
	var offset time.Duration
	switch timeRange {
	case RangeLastDay:
		offset = 24 * time.Hour
	case RangeLastWeek:
		offset = 7 * 24 * time.Hour
	case RangeLastMonth:
		offset = 30 * 24 * time.Hour
	default:
		// "All time" and anything unrecognized impose no lower bound.
		return true
	}
	return !rec.CreatedAt.Before(now.Add(-offset))
}

func matchesKeyword(rec *models.MoodRecord, keyword string) bool {
	if keyword == "" {
		return true
	}
	// A record without a reason never matches a non-empty keyword.
	if rec.Reason == "" {
		return false
	}
	return strings.Contains(strings.ToLower(rec.Reason), strings.ToLower(keyword))
}
