package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one browser's workflow plus its pending notifications.
type Session struct {
	ID         string
	Controller *ScanAddController
	Flash      *FlashQueue
}

// SessionStore keeps sessions in memory and expires idle ones.
type SessionStore struct {
	newController func(Notifier) *ScanAddController
	ttl           time.Duration
	metrics       *Metrics
	logger        *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionStore(ttl time.Duration, newController func(Notifier) *ScanAddController, metrics *Metrics, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		newController: newController,
		ttl:           ttl,
		metrics:       metrics,
		logger:        logger.With("component", "sessions"),
		sessions:      make(map[string]*Session),
	}
}

// Get returns the session for id, or ErrSessionNotFound.
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// GetOrCreate returns the session for id, creating a new one under a fresh
// id when id is empty or unknown.
func (s *SessionStore) GetOrCreate(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok && id != "" {
		return sess, false
	}

	flash := &FlashQueue{}
	sess := &Session{
		ID:         uuid.NewString(),
		Controller: s.newController(flash),
		Flash:      flash,
	}
	s.sessions[sess.ID] = sess
	s.metrics.SetActiveSessions(len(s.sessions))
	s.logger.Debug("session created", "session_id", sess.ID)
	return sess, true
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL. Sessions with a
// request in flight are kept.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		c := sess.Controller
		if c.Busy() || now.Sub(c.LastSeen()) < s.ttl {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	if removed > 0 {
		s.logger.Info("expired idle sessions", "removed", removed, "remaining", len(s.sessions))
	}
	s.metrics.SetActiveSessions(len(s.sessions))
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}
