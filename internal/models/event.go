package models

import "time"

// Event is a scheduled program activity (fundraiser, workshop, outing).
type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    int       `json:"capacity,omitempty"` // 0 means unlimited
	Description string    `json:"description,omitempty"`
}
