package model

import "strings"

// Job status
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCanceled  JobStatus = "canceled"
)

// Mood describes the emotional direction of a soundtrack
type Mood string

const (
	MoodUplifting   Mood = "uplifting"
	MoodMelancholic Mood = "melancholic"
	MoodTense       Mood = "tense"
	MoodCalm        Mood = "calm"
	MoodEpic        Mood = "epic"
	MoodPlayful     Mood = "playful"
	MoodDark        Mood = "dark"
	MoodRomantic    Mood = "romantic"
)

var ValidMoods = []Mood{
	MoodUplifting, MoodMelancholic, MoodTense, MoodCalm,
	MoodEpic, MoodPlayful, MoodDark, MoodRomantic,
}

// CanonicalMood maps a free-text mood onto the known set. The model often
// capitalizes or pads the mood it returns; an unrecognized mood is passed
// through lowercased with ok=false.
func CanonicalMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range ValidMoods {
		if m == v {
			return m, true
		}
	}
	return m, false
}
