package models

import "time"

// SessionUser is the snapshot of an account carried by a session. It is a
// copy taken at login time; account edits show up on the next login.
type SessionUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Session is a server-side record of a logged-in user, referenced by an
// opaque client-held token.
type Session struct {
	Token        string      `json:"-"`
	User         SessionUser `json:"user"`
	CreatedAt    time.Time   `json:"created_at"`
	LastAccessAt time.Time   `json:"last_access_at"`
}

// IdleSince reports how long the session has gone without being touched.
func (s Session) IdleSince(now time.Time) time.Duration {
	return now.Sub(s.LastAccessAt)
}
