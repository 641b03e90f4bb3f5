package core

// session.go keeps uploaded datasets for the lifetime of a user session.
//
// A Dataset is immutable once loaded, so sessions hand out the same pointer
// to every request. The store itself is the only shared mutable state and is
// guarded by a mutex. Idle sessions are removed by the eviction scheduler;
// when the store is full the least recently used session is dropped.

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSessionTTL       = 2 * time.Hour
	DefaultMaxSessions      = 100
	DefaultEvictionInterval = 5 * time.Minute
)

// Session holds one uploaded dataset.
type Session struct {
	ID        uuid.UUID
	FileName  string
	Format    Format
	Dataset   *Dataset
	CreatedAt time.Time

	lastAccess time.Time
}

// SessionStore is an in-memory, concurrency-safe session registry.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// NewSessionStore creates a store. Non-positive arguments fall back to defaults.
func NewSessionStore(ttl time.Duration, maxSessions int) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		max:      maxSessions,
		now:      time.Now,
	}
}

// Create stores a new session for a loaded dataset.
func (s *SessionStore) Create(fileName string, format Format, d *Dataset) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		ID:         uuid.New(),
		FileName:   fileName,
		Format:     format,
		Dataset:    d,
		CreatedAt:  now,
		lastAccess: now,
	}

	for len(s.sessions) >= s.max {
		s.evictOldestLocked()
	}
	s.sessions[sess.ID] = sess

	return sess
}

// Get returns a live session and refreshes its last access time.
func (s *SessionStore) Get(id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := s.now()
	if now.Sub(sess.lastAccess) > s.ttl {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.lastAccess = now

	return sess, nil
}

// Delete removes a session. Unknown IDs are ignored.
func (s *SessionStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, including expired ones not yet evicted.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictExpired removes every session idle longer than the TTL.
// Returns the number removed.
func (s *SessionStore) EvictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastAccess) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) evictOldestLocked() {
	var oldest *Session
	for _, sess := range s.sessions {
		if oldest == nil || sess.lastAccess.Before(oldest.lastAccess) {
			oldest = sess
		}
	}
	if oldest != nil {
		delete(s.sessions, oldest.ID)
		slog.Debug("session evicted, store full", "session_id", oldest.ID)
	}
}

// StartEvictionScheduler removes expired sessions every interval until ctx
// is cancelled. It blocks; run it in its own goroutine.
func (s *SessionStore) StartEvictionScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultEvictionInterval
	}
	slog.Info("session eviction started", "interval", interval, "ttl", s.ttl, "max_sessions", s.max)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session eviction stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if n := s.EvictExpired(); n > 0 {
				slog.Info("evicted idle sessions",
					"sessions_evicted", n,
					"sessions_remaining", s.Len(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}
		}
	}
}
