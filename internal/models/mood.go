package models

import (
	"strings"
	"time"
)

// Visibility controls who may see a mood record.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// InvalidCoordinate is the sentinel stored in both Latitude and Longitude
// when a record carries no location. It is outside the valid range of
// either axis.
const InvalidCoordinate = 999.0

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// MoodRecord is a single mood journal entry.
//
// ID is the document identifier assigned by the store; it is empty until
// the record has been persisted. Trigger, Reason, Situation and ImageRef
// are optional and empty when unset. Latitude/Longitude are either a valid
// pair or both InvalidCoordinate.
type MoodRecord struct {
	ID                   string          `json:"id"`
	Author               string          `json:"author"`
	Emotion              Emotion         `json:"emotion"`
	Trigger              string          `json:"trigger,omitempty"`
	Reason               string          `json:"reason,omitempty"`
	Situation            SocialSituation `json:"situation,omitempty"`
	Latitude             float64         `json:"latitude"`
	Longitude            float64         `json:"longitude"`
	ImageRef             string          `json:"imageRef,omitempty"`
	Visibility           Visibility      `json:"visibility"`
	CreatedAt            time.Time       `json:"createdAt"`
	Edited               bool            `json:"edited"`
	TopLevelCommentCount int             `json:"topLevelCommentCount"`
}

// NewMoodRecord creates a record for the posting flow. Author and emotion
// are the only required fields; CreatedAt is set once here and is immutable
// afterwards except when rehydrating from storage.
func NewMoodRecord(author string, emotion Emotion) *MoodRecord {
	return &MoodRecord{
		Author:     author,
		Emotion:    emotion,
		Latitude:   InvalidCoordinate,
		Longitude:  InvalidCoordinate,
		Visibility: VisibilityPublic,
		CreatedAt:  time.Now(),
	}
}

// SetReason stores a sanitized reason (at most 20 chars and 3 words).
func (m *MoodRecord) SetReason(raw string) {
	m.Reason = SanitizeReason(raw)
}

// SetTrigger stores the trigger, keeping only the first word.
func (m *MoodRecord) SetTrigger(raw string) {
	if fields := strings.Fields(raw); len(fields) > 0 {
		m.Trigger = fields[0]
	} else {
		m.Trigger = ""
	}
}

// SetLocation stores a coordinate pair. Out-of-range values are clamped to
// the nearest valid bound rather than rejected.
func (m *MoodRecord) SetLocation(lat, lon float64) {
	m.Latitude = clamp(lat, minLatitude, maxLatitude)
	m.Longitude = clamp(lon, minLongitude, maxLongitude)
}

// ClearLocation marks the record as having no location.
func (m *MoodRecord) ClearLocation() {
	m.Latitude = InvalidCoordinate
	m.Longitude = InvalidCoordinate
}

// HasLocation reports whether the record carries a coordinate pair.
func (m *MoodRecord) HasLocation() bool {
	return m.Latitude != InvalidCoordinate && m.Longitude != InvalidCoordinate
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
