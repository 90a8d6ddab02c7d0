package conversation

import (
	"sync"
	"time"

	"github.com/arjunkapoor/chatbot-lead-service/pkg/logger"
)

// Store keeps live sessions in memory. Session state is deliberately
// instance-local: tearing down the widget (or reaping an idle session)
// discards it without persisting anything.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl      time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewStore creates a store. When ttl > 0 a janitor goroutine reaps sessions
// idle longer than ttl; ttl == 0 disables reaping.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}

	if ttl > 0 {
		go s.janitor()
	} else {
		close(s.doneChan)
	}

	return s
}

func (s *Store) Create() *Session {
	session := NewSession()

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	return session, ok
}

// Delete discards a session (widget teardown).
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) janitor() {
	defer close(s.doneChan)

	interval := s.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reapIdle()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Store) reapIdle() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	reaped := 0
	for id, session := range s.sessions {
		if session.LastActive().Before(cutoff) {
			delete(s.sessions, id)
			reaped++
		}
	}

	if reaped > 0 {
		logger.Infof("Reaped %d idle chat sessions (%d remaining)", reaped, len(s.sessions))
	}
}

// Close stops the janitor and waits for it to exit.
func (s *Store) Close() {
	if s.ttl > 0 {
		close(s.stopChan)
	}
	<-s.doneChan
}
