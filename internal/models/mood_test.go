package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMoodRecordDefaults(t *testing.T) {
	record := NewMoodRecord("gator1", EmotionHappy)

	assert.Equal(t, "gator1", record.Author)
	assert.Equal(t, EmotionHappy, record.Emotion)
	assert.Equal(t, VisibilityPublic, record.Visibility)
	assert.False(t, record.HasLocation())
	assert.Empty(t, record.ID, "ID is assigned by the store")
	assert.False(t, record.CreatedAt.IsZero())
}

func TestSetLocationClampsOutOfRange(t *testing.T) {
	record := NewMoodRecord("gator1", EmotionFear)

	record.SetLocation(95.0, -200.0)

	assert.True(t, record.HasLocation())
	assert.Equal(t, 90.0, record.Latitude)
	assert.Equal(t, -180.0, record.Longitude)
}

func TestSetLocationKeepsValidCoordinates(t *testing.T) {
	record := NewMoodRecord("gator1", EmotionFear)

	record.SetLocation(29.6516, -82.3248)

	assert.Equal(t, 29.6516, record.Latitude)
	assert.Equal(t, -82.3248, record.Longitude)
}

func TestClearLocation(t *testing.T) {
	record := NewMoodRecord("gator1", EmotionAnger)
	record.SetLocation(10, 10)
	assert.True(t, record.HasLocation())

	record.ClearLocation()

	assert.False(t, record.HasLocation())
	assert.Equal(t, InvalidCoordinate, record.Latitude)
	assert.Equal(t, InvalidCoordinate, record.Longitude)
}

func TestSetTriggerKeepsFirstWord(t *testing.T) {
	record := NewMoodRecord("gator1", EmotionSadness)

	record.SetTrigger("midterm grades came out")
	assert.Equal(t, "midterm", record.Trigger)

	record.SetTrigger("   ")
	assert.Equal(t, "", record.Trigger)
}

func TestSetReasonSanitizes(t *testing.T) {
	record := NewMoodRecord("gator1", EmotionSadness)

	record.SetReason("This explanation is definitely far too long")
	assert.Equal(t, "This explanation is", record.Reason)
}
