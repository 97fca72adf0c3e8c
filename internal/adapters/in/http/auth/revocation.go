package auth

import (
	"sync"
	"time"
)

// RevocationStore remembers logged-out token ids until they expire. It is
// process-local and starts empty on every boot; tokens revoked before a
// restart are still bounded by their own expiry.
type RevocationStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
	now     func() time.Time
}

// NewRevocationStore keeps each entry for at most ttl.
func NewRevocationStore(ttl time.Duration) *RevocationStore {
	return &RevocationStore{
		ttl:     ttl,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks id as logged out until the earlier of tokenExpiry and now+ttl.
func (s *RevocationStore) Revoke(id string, tokenExpiry time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until := s.now().Add(s.ttl)
	if !tokenExpiry.IsZero() && tokenExpiry.Before(until) {
		until = tokenExpiry
	}
	s.entries[id] = until
}

func (s *RevocationStore) IsRevoked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.entries[id]
	if !ok {
		return false
	}
	if !s.now().Before(until) {
		delete(s.entries, id)
		return false
	}
	return true
}

// Sweep drops expired entries and reports how many are left.
func (s *RevocationStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, until := range s.entries {
		if !now.Before(until) {
			delete(s.entries, id)
		}
	}
	return len(s.entries)
}

// Clear forgets every entry.
func (s *RevocationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]time.Time)
}
