package auth

import (
	"sync"
	"time"
)

// TokenRevocationStore tracks access tokens that stopped being valid before
// their natural expiry: tokens logged out individually by jti, and every
// token held by a removed staff member. Entries are dropped once the
// tokens they cover would have expired anyway.
type TokenRevocationStore struct {
	mu      sync.RWMutex
	tokens  map[string]time.Time // jti -> token expiry
	users   map[string]userCutoff
	maxTTL  time.Duration
	now     func() time.Time
	done    chan struct{}
	stopped sync.Once
}

type userCutoff struct {
	before time.Time // tokens issued before this are revoked
	until  time.Time // entry can be forgotten after this
}

// NewTokenRevocationStore creates a store and starts a background goroutine
// that prunes expired entries every interval. maxTTL is the longest lifetime
// of any issued token.
func NewTokenRevocationStore(maxTTL, interval time.Duration) *TokenRevocationStore {
	s := &TokenRevocationStore{
		tokens: make(map[string]time.Time),
		users:  make(map[string]userCutoff),
		maxTTL: maxTTL,
		now:    time.Now,
		done:   make(chan struct{}),
	}
	if interval > 0 {
		go s.cleanupLoop(interval)
	}
	return s
}

// Revoke invalidates a single token until expiresAt.
func (s *TokenRevocationStore) Revoke(jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[jti] = expiresAt
}

// RevokeUser invalidates every token issued to userID up to now.
func (s *TokenRevocationStore) RevokeUser(userID string) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = userCutoff{before: now.Add(time.Second), until: now.Add(s.maxTTL)}
}

// IsRevoked reports whether the token identified by jti, issued to userID
// at issuedAt, has been revoked.
func (s *TokenRevocationStore) IsRevoked(jti, userID string, issuedAt time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.tokens[jti]; ok && jti != "" {
		return true
	}
	if cut, ok := s.users[userID]; ok && issuedAt.Before(cut.before) {
		return true
	}
	return false
}

// Count returns the number of tracked revocations.
func (s *TokenRevocationStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens) + len(s.users)
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (s *TokenRevocationStore) Close() {
	s.stopped.Do(func() { close(s.done) })
}

func (s *TokenRevocationStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
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

func (s *TokenRevocationStore) cleanup() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for jti, exp := range s.tokens {
		if now.After(exp) {
			delete(s.tokens, jti)
		}
	}
	for uid, cut := range s.users {
		if now.After(cut.until) {
			delete(s.users, uid)
		}
	}
}
