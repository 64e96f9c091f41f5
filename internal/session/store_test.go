package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outreach_admin/internal/models"
)

func testUser() models.SessionUser {
	return models.SessionUser{ID: 7, Username: "alice", Role: models.RoleManager}
}

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore(time.Hour)

	token := s.Create(testUser())
	require.NotEmpty(t, token)

	got, ok := s.Get(token)
	require.True(t, ok)
	assert.Equal(t, testUser(), got)
	assert.Equal(t, 1, s.Len())
}

func TestStore_GetUnknownToken(t *testing.T) {
	s := NewStore(time.Hour)

	_, ok := s.Get("no-such-token")
	assert.False(t, ok)
}

func TestStore_TokensAreUnique(t *testing.T) {
	s := NewStore(time.Hour)

	a := s.Create(testUser())
	b := s.Create(testUser())
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Len())
}

func TestStore_DestroyIsIdempotent(t *testing.T) {
	s := NewStore(time.Hour)
	token := s.Create(testUser())

	s.Destroy(token)
	_, ok := s.Get(token)
	assert.False(t, ok)

	// second destroy of the same token must not panic or error
	s.Destroy(token)
	assert.Equal(t, 0, s.Len())
}

func TestStore_ExpiryOnIdle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(30 * time.Minute)
	s.now = func() time.Time { return now }

	token := s.Create(testUser())

	// touching the session just inside the TTL refreshes it
	now = now.Add(29 * time.Minute)
	_, ok := s.Get(token)
	require.True(t, ok)

	// the refresh restarted the idle clock
	now = now.Add(29 * time.Minute)
	_, ok = s.Get(token)
	require.True(t, ok)

	// idle past the TTL expires it
	now = now.Add(31 * time.Minute)
	_, ok = s.Get(token)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len(), "expired session should be removed on access")
}

func TestStore_SweepDropsOnlyExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(30 * time.Minute)
	s.now = func() time.Time { return now }

	stale := s.Create(testUser())
	now = now.Add(31 * time.Minute)
	fresh := s.Create(testUser())

	s.sweep()

	assert.Equal(t, 1, s.Len())
	_, ok := s.Get(stale)
	assert.False(t, ok)
	_, ok = s.Get(fresh)
	assert.True(t, ok)
}
