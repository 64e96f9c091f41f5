// Package session holds the in-process store mapping opaque cookie tokens to
// logged-in user snapshots.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"outreach_admin/internal/models"
)

// DefaultIdleTTL is how long a session may sit untouched before it expires.
const DefaultIdleTTL = 30 * time.Minute

// Store is a process-wide session store. All methods are safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	idleTTL  time.Duration
	now      func() time.Time // swappable for tests
}

// NewStore creates a Store with the given idle TTL. A non-positive TTL
// falls back to DefaultIdleTTL.
func NewStore(idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Store{
		sessions: make(map[string]models.Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Create allocates an opaque token for the user snapshot and stores the
// session. The token is what gets set as the cookie value.
func (s *Store) Create(user models.SessionUser) string {
	token := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = models.Session{
		Token:        token,
		User:         user,
		CreatedAt:    now,
		LastAccessAt: now,
	}
	return token
}

// Get looks up a session by token and refreshes its last-access time.
// An unknown or expired token returns ok=false; that is a normal state for
// callers, not an error.
func (s *Store) Get(token string) (models.SessionUser, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return models.SessionUser{}, false
	}
	if sess.IdleSince(now) > s.idleTTL {
		delete(s.sessions, token)
		return models.SessionUser{}, false
	}
	sess.LastAccessAt = now
	s.sessions[token] = sess
	return sess.User, true
}

// Destroy removes a session. Destroying an absent session is a no-op.
func (s *Store) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len reports the number of live (possibly stale) sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run sweeps expired sessions every tick until ctx is cancelled. Expired
// sessions already behave as absent; the sweep just bounds memory.
func (s *Store) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep()
		}
	}
}

func (s *Store) sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.IdleSince(now) > s.idleTTL {
			delete(s.sessions, token)
		}
	}
}
