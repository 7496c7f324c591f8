package revocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStore_Revoke(t *testing.T) {
	s := New(0)

	s.Revoke("a", time.Now().Add(time.Hour))
	assert.True(t, s.IsRevoked("a"))
	assert.False(t, s.IsRevoked("b"))
	assert.Equal(t, 1, s.Len())
}

func TestStore_SkipsExpiredTokens(t *testing.T) {
	s := New(0)

	s.Revoke("old", time.Now().Add(-time.Minute))
	assert.False(t, s.IsRevoked("old"))
	assert.Equal(t, 0, s.Len())
}

func TestStore_Sweep(t *testing.T) {
	s := New(0)

	s.Revoke("short", time.Now().Add(20*time.Millisecond))
	s.Revoke("long", time.Now().Add(time.Hour))
	assert.Equal(t, 2, s.Len())

	time.Sleep(50 * time.Millisecond)
	assert.False(t, s.IsRevoked("short"))

	s.Sweep()
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.IsRevoked("long"))
}
