package models

import "time"

// Milestone marks a participant's progress point in the program.
type Milestone struct {
	ID            int       `json:"id"`
	ParticipantID int       `json:"participant_id"`
	Title         string    `json:"title"`
	AchievedAt    time.Time `json:"achieved_at"`
	Notes         string    `json:"notes,omitempty"`
}
