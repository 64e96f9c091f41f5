package models

import "time"

// Participant is a person enrolled in the outreach program.
type Participant struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
	Notes    string    `json:"notes,omitempty"`
}
