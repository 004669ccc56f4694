package models

import (
	"strings"
	"unicode/utf8"
)

const (
	// ReasonMaxChars is the hard character cap on a mood reason.
	ReasonMaxChars = 20
	// ReasonMaxWords is the hard word cap on a mood reason.
	ReasonMaxWords = 3
)

// SanitizeReason enforces the reason constraints: at most 20 characters AND
// at most 3 space-separated words.
//
// Order matters and is deliberate: the string is truncated to 20 characters
// first, and only then split on single spaces for the word cap. Truncation
// can cut a word mid-token before the word count is ever taken; the word cap
// applies to the truncated string, not the original. No trimming or case
// folding is performed. The empty string sanitizes to itself.
func SanitizeReason(raw string) string {
	// The cap counts characters, not bytes; cutting on a byte index would
	// split a multi-byte rune.
	if utf8.RuneCountInString(raw) > ReasonMaxChars {
		raw = string([]rune(raw)[:ReasonMaxChars])
	}
	words := strings.Split(raw, " ")
	if len(words) > ReasonMaxWords {
		raw = strings.Join(words[:ReasonMaxWords], " ")
	}
	return raw
}
