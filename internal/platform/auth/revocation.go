package auth

import (
	"sync"
	"time"
)

// revocationEntry stores metadata about a blacklisted refresh token.
type revocationEntry struct {
	ExpiresAt time.Time
	UserID    string
}

// TokenRevocationStore tracks blacklisted refresh token JTIs in memory.
// Entries are dropped automatically once the underlying token would have
// expired anyway. Thread-safe for concurrent access.
type TokenRevocationStore struct {
	mu       sync.RWMutex
	entries  map[string]revocationEntry // JTI -> entry
	userJTIs map[string][]string        // userID -> []JTI
	done     chan struct{}
}

// NewTokenRevocationStore creates a new store and starts a background
// goroutine that cleans up expired entries every 5 minutes.
func NewTokenRevocationStore() *TokenRevocationStore {
	s := &TokenRevocationStore{
		entries:  make(map[string]revocationEntry),
		userJTIs: make(map[string][]string),
		done:     make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Revoke blacklists a token's JTI until its natural expiry.
func (s *TokenRevocationStore) Revoke(jti string, expiresAt time.Time) {
	s.RevokeForUser(jti, "", expiresAt)
}

// RevokeForUser blacklists a token's JTI and associates it with a user ID
// so a user's outstanding revocations can be counted together.
func (s *TokenRevocationStore) RevokeForUser(jti, userID string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[jti] = revocationEntry{
		ExpiresAt: expiresAt,
		UserID:    userID,
	}

	if userID != "" {
		s.userJTIs[userID] = append(s.userJTIs[userID], jti)
	}
}

// IsRevoked checks if a token JTI has been blacklisted.
func (s *TokenRevocationStore) IsRevoked(jti string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[jti]
	return ok
}

// RevokedCountForUser returns the number of currently blacklisted tokens
// held for a specific user ID.
func (s *TokenRevocationStore) RevokedCountForUser(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	jtis, ok := s.userJTIs[userID]
	if !ok {
		return 0
	}

	count := 0
	for _, jti := range jtis {
		if _, exists := s.entries[jti]; exists {
			count++
		}
	}
	return count
}

// Count returns the number of currently blacklisted tokens.
func (s *TokenRevocationStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Close stops the background cleanup goroutine. It is safe to call
// multiple times but only the first call has effect.
func (s *TokenRevocationStore) Close() {
	select {
	case <-s.done:
		// already closed
	default:
		close(s.done)
	}
}

// cleanupLoop periodically removes expired revocation entries.
func (s *TokenRevocationStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes entries whose tokens are past their natural expiry.
func (s *TokenRevocationStore) cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for jti, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			userID := entry.UserID
			delete(s.entries, jti)

			if userID != "" {
				jtis := s.userJTIs[userID]
				for i, id := range jtis {
					if id == jti {
						s.userJTIs[userID] = append(jtis[:i], jtis[i+1:]...)
						break
					}
				}
				if len(s.userJTIs[userID]) == 0 {
					delete(s.userJTIs, userID)
				}
			}
		}
	}
}
