// Package revocation keeps the ids of logged-out tokens until they would have expired anyway.
package revocation

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type Store struct {
	cache *cache.Cache
	now   func() time.Time
}

// New starts a store whose janitor drops expired entries every sweepInterval.
// A non-positive interval disables the janitor; call Sweep instead.
func New(sweepInterval time.Duration) *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, sweepInterval),
		now:   time.Now,
	}
}

// Revoke marks jti as revoked until expiresAt. Tokens already past expiry are not stored.
func (s *Store) Revoke(jti string, expiresAt time.Time) {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}
	s.cache.Set(jti, struct{}{}, ttl)
}

func (s *Store) IsRevoked(jti string) bool {
	_, ok := s.cache.Get(jti)
	return ok
}

func (s *Store) Sweep() {
	s.cache.DeleteExpired()
}

// Len counts stored entries, including expired ones not yet swept.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
