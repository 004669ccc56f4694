package models

import (
	"fmt"
	"strings"
)

// Emotion is the emotional state attached to a mood record.
type Emotion string

const (
	EmotionAnger     Emotion = "ANGER"
	EmotionConfused  Emotion = "CONFUSED"
	EmotionDisgusted Emotion = "DISGUSTED"
	EmotionFear      Emotion = "FEAR"
	EmotionHappy     Emotion = "HAPPY"
	EmotionSadness   Emotion = "SADNESS"
	EmotionShame     Emotion = "SHAME"
	EmotionSurprised Emotion = "SURPRISED"
)

// AllEmotions lists every valid emotion, in display order.
var AllEmotions = []Emotion{
	EmotionAnger,
	EmotionConfused,
	EmotionDisgusted,
	EmotionFear,
	EmotionHappy,
	EmotionSadness,
	EmotionShame,
	EmotionSurprised,
}

// ParseEmotion parses a stored emotion name. Unrecognized values are an
// error, not a default: a bad document should be rejected loudly rather
// than silently reclassified.
func ParseEmotion(s string) (Emotion, error) {
	e := Emotion(strings.ToUpper(s))
	for _, known := range AllEmotions {
		if e == known {
			return e, nil
		}
	}
	return "", fmt.Errorf("unrecognized emotion %q", s)
}

// EmotionStyle is the presentation metadata for an emotion. It lives in a
// lookup table rather than on the Emotion values themselves so the data
// model stays free of display concerns.
type EmotionStyle struct {
	Emoji       string
	Color       string
	Description string
}

var emotionStyles = map[Emotion]EmotionStyle{
	EmotionAnger:     {Emoji: "😠", Color: "#E53935", Description: "Anger"},
	EmotionConfused:  {Emoji: "😕", Color: "#8E24AA", Description: "Confused"},
	EmotionDisgusted: {Emoji: "🤢", Color: "#43A047", Description: "Disgusted"},
	EmotionFear:      {Emoji: "😨", Color: "#5E35B1", Description: "Fear"},
	EmotionHappy:     {Emoji: "😄", Color: "#FDD835", Description: "Happy"},
	EmotionSadness:   {Emoji: "😢", Color: "#1E88E5", Description: "Sadness"},
	EmotionShame:     {Emoji: "😳", Color: "#F4511E", Description: "Shame"},
	EmotionSurprised: {Emoji: "😮", Color: "#00ACC1", Description: "Surprised"},
}

// StyleFor returns the presentation metadata for an emotion.
func StyleFor(e Emotion) EmotionStyle {
	return emotionStyles[e]
}
