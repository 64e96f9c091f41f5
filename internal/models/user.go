package models

import "fmt"

// Role is the closed set of permission tiers an account can hold.
// Authorization decisions must match on it exhaustively so that adding a
// role surfaces every place that needs a policy decision.
type Role string

const (
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// ParseRole maps a stored role code to a Role. Unknown codes are rejected
// rather than defaulted, so a corrupted row can never widen permissions.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleManager:
		return RoleManager, nil
	case RoleMember:
		return RoleMember, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// CredentialKind tags how a stored credential is encoded.
type CredentialKind int

const (
	// CredentialHashed is a bcrypt hash.
	CredentialHashed CredentialKind = iota
	// CredentialLegacy is a plaintext password from before hashing was
	// introduced. Supported only so it can be upgraded on next login.
	CredentialLegacy
)

// Credential is the stored password material, tagged with its format.
// The tag is decided once, at the storage-read boundary.
type Credential struct {
	Kind  CredentialKind
	Value string
}

// User is a staff account.
type User struct {
	ID         int        `json:"id"`
	Username   string     `json:"username"`
	Credential Credential `json:"-"` // never expose password material
	Role       Role       `json:"role"`
}

// Snapshot returns the session copy of the account. It is taken at login
// time and does not track later account edits until the next login.
func (u User) Snapshot() SessionUser {
	return SessionUser{ID: u.ID, Username: u.Username, Role: u.Role}
}
