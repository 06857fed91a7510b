// Package sessions holds the server-side session records behind the
// browser cookie path. The cookie itself only references a record here;
// the client never persists identity.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lunamood/lunamood/internal/logging"
	"github.com/robfig/cron/v3"
)

// Session is one server-side session record.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store keeps sessions in memory with a fixed TTL. Expired records are
// dropped lazily on Get and swept periodically.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	log      logging.Logger
}

func NewStore(ttl time.Duration, log logging.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		log:      log,
	}
}

// Create opens a new session for userID.
func (s *Store) Create(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[session.ID] = session
	return session
}

// Get returns the session for id, or false when absent or expired.
// Expired sessions are removed on sight.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if session.ExpiresAt.Before(s.now()) {
		delete(s.sessions, id)
		return nil, false
	}
	return session, true
}

// Delete removes the session for id, if present.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep removes all expired sessions and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for id, session := range s.sessions {
		if session.ExpiresAt.Before(now) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// StartSweeper schedules a periodic Sweep on the given cron scheduler.
func (s *Store) StartSweeper(ctx context.Context, c *cron.Cron) error {
	_, err := c.AddFunc("@every 10m", func() {
		if dropped := s.Sweep(); dropped > 0 {
			s.log.Info(ctx, "session sweep", "dropped", dropped)
		}
	})
	return err
}
