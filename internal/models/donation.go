package models

import "time"

// Donation is a received gift. Amounts are stored in cents to avoid
// floating-point money.
type Donation struct {
	ID            int       `json:"id"`
	DonorName     string    `json:"donor_name"`
	AmountCents   int64     `json:"amount_cents"`
	DonatedAt     time.Time `json:"donated_at"`
	ParticipantID int       `json:"participant_id,omitempty"` // 0 means unlinked
	EventID       int       `json:"event_id,omitempty"`       // 0 means unlinked
	Note          string    `json:"note,omitempty"`
}
