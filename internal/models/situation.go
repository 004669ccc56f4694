package models

import (
	"fmt"
	"strings"
)

// SocialSituation describes who the author was with when the mood occurred.
type SocialSituation string

const (
	SituationAlone          SocialSituation = "ALONE"
	SituationOnePerson      SocialSituation = "ONE_PERSON"
	SituationMultiplePeople SocialSituation = "MULTIPLE_PEOPLE"
	SituationCrowd          SocialSituation = "CROWD"
)

// AllSituations lists every valid social situation.
var AllSituations = []SocialSituation{
	SituationAlone,
	SituationOnePerson,
	SituationMultiplePeople,
	SituationCrowd,
}

// ParseSituation parses a stored situation name. Like ParseEmotion, it
// rejects unknown values instead of defaulting.
func ParseSituation(s string) (SocialSituation, error) {
	v := SocialSituation(strings.ToUpper(s))
	for _, known := range AllSituations {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unrecognized social situation %q", s)
}
