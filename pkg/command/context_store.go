package command

import (
	"sync"
	"time"

	"github.com/crewdeck/crewdeck/internal/utils"
)

// SessionContext remembers what a session last talked about so follow-up
// commands like "approve it" can resolve their target.
type SessionContext struct {
	LastTaskID     string
	LastEmployeeID string
	LastProjectID  string
}

type contextEntry struct {
	ctx      SessionContext
	lastUsed time.Time
}

// ContextStore keeps one SessionContext per session token with TTL eviction,
// so abandoned sessions do not accumulate for the lifetime of the process.
type ContextStore struct {
	mu      sync.Mutex
	entries map[string]contextEntry
	ttl     time.Duration
	clock   utils.Clock
}

func NewContextStore(ttl time.Duration, clock utils.Clock) *ContextStore {
	return &ContextStore{
		entries: make(map[string]contextEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

func (s *ContextStore) Get(sessionKey string) SessionContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	entry, ok := s.entries[sessionKey]
	if !ok {
		return SessionContext{}
	}
	entry.lastUsed = s.clock.Now()
	s.entries[sessionKey] = entry
	return entry.ctx
}

// Update applies mutate to the session's context and refreshes its TTL.
func (s *ContextStore) Update(sessionKey string, mutate func(*SessionContext)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	entry := s.entries[sessionKey]
	mutate(&entry.ctx)
	entry.lastUsed = s.clock.Now()
	s.entries[sessionKey] = entry
}

func (s *ContextStore) evictExpired() {
	deadline := s.clock.Now().Add(-s.ttl)
	for key, entry := range s.entries {
		if entry.lastUsed.Before(deadline) {
			delete(s.entries, key)
		}
	}
}
