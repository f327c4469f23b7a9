package application

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
	"github.com/ericfisherdev/cloudpanel/internal/metrics"
)

// ErrEmptyCredential is returned when a session is opened without a token.
var ErrEmptyCredential = errors.New("credential is empty")

// Session is one operator's signed-in state. The hosting client is built
// once from the session's credential and reused for every call.
type Session struct {
	ID         string
	Credential model.Credential
	Hosting    driven.HostingClient

	lastSeen time.Time // guarded by SessionStore.mu
}

// SessionStore holds sessions in memory only. It is safe for concurrent use;
// credentials are never written anywhere and vanish on restart. A session
// unused for longer than the idle timeout is dropped.
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	factory     driven.HostingClientFactory
	metrics     *metrics.Registry
	idleTimeout time.Duration
	now         func() time.Time
}

// NewSessionStore creates an empty store that builds hosting clients with
// factory. reg may be nil. An idleTimeout of zero keeps sessions until they
// are closed.
func NewSessionStore(factory driven.HostingClientFactory, reg *metrics.Registry, idleTimeout time.Duration) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*Session),
		factory:     factory,
		metrics:     reg,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Open creates a session for cred and returns it. Expired sessions are swept
// first so abandoned sign-ins do not accumulate.
func (s *SessionStore) Open(cred model.Credential) (*Session, error) {
	if cred.IsZero() {
		return nil, ErrEmptyCredential
	}

	sess := &Session{
		ID:         uuid.NewString(),
		Credential: cred,
		Hosting:    s.factory(cred),
	}

	s.mu.Lock()
	now := s.now()
	s.sweepLocked(now)
	sess.lastSeen = now
	s.sessions[sess.ID] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	return sess, nil
}

// Get returns the session for id and marks it as used, or nil if none exists
// or it has expired.
func (s *SessionStore) Get(id string) *Session {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}

	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		count := len(s.sessions)
		s.mu.Unlock()
		s.metrics.SetActiveSessions(count)
		return nil
	}

	sess.lastSeen = now
	s.mu.Unlock()
	return sess
}

// Close forgets the session for id. Closing an unknown id is a no-op.
func (s *SessionStore) Close(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
}

// Len returns the number of stored sessions, including expired ones not yet
// swept.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(sess *Session, now time.Time) bool {
	return s.idleTimeout > 0 && now.Sub(sess.lastSeen) > s.idleTimeout
}

func (s *SessionStore) sweepLocked(now time.Time) {
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}
