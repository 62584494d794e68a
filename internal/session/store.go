package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps live sessions in memory, keyed by an opaque uuid carried in
// a cookie. Sessions are dropped after TTL of inactivity; nothing is ever
// persisted, so state dies with the session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Get returns the live session for id, or nil when unknown or expired.
func (st *Store) Get(id string) *Session {
	now := time.Now()

	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok || s.expired(now, st.ttl) {
		return nil
	}
	s.touch(now)
	return s
}

// Ensure returns the session for id, creating a fresh one (with a new id)
// when id is unknown or expired.
func (st *Store) Ensure(id string) *Session {
	if s := st.Get(id); s != nil {
		return s
	}

	s := &Session{
		id:       uuid.NewString(),
		lastSeen: time.Now(),
	}

	st.mu.Lock()
	delete(st.sessions, id) // drop any expired entry under the old key
	st.sessions[s.id] = s
	st.mu.Unlock()

	return s
}

// Sweep removes expired sessions.
func (st *Store) Sweep() {
	now := time.Now()

	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		if s.expired(now, st.ttl) {
			delete(st.sessions, id)
		}
	}
}

// StartSweeper runs Sweep periodically until ctx is done.
func (st *Store) StartSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.Sweep()
			}
		}
	}()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
