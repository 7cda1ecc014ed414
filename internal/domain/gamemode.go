package domain

import "encoding/json"

// GameMode is supplied by the caller and mostly opaque here: the room
// only ever reads Duration and TargetQuestions. Questions pass through
// untouched.
type GameMode struct {
	Label           string          `json:"label"`
	Difficulty      string          `json:"difficulty,omitempty"`
	Questions       json.RawMessage `json:"questions,omitempty"`
	Duration        int             `json:"duration,omitempty"`
	TargetQuestions int             `json:"targetQuestions,omitempty"`
}

// Speedrun modes race to a fixed question target; score is elapsed
// seconds and lower is better. Otherwise the mode is timed: score is
// the correct-answer count within Duration and higher is better.
func (m GameMode) Speedrun() bool {
	return m.TargetQuestions > 0
}
