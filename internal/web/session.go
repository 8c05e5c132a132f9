package web

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// session is one logged-in browser.
type session struct {
	UserID    int64
	Username  string
	Role      string
	ExpiresAt time.Time
}

// sessionStore keeps sessions in memory, keyed by an opaque ULID token
// carried in a cookie. Sessions are process-local; a restart logs
// everyone out, which is acceptable for a single-node deployment.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
	}
}

// create registers a new session and returns its token.
func (s *sessionStore) create(userID int64, username, role string) string {
	token := ulid.Make().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{
		UserID:    userID,
		Username:  username,
		Role:      role,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	return token
}

// get returns the session for a token if it exists and has not expired.
func (s *sessionStore) get(token string) (session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		s.drop(token)
		return session{}, false
	}
	return sess, true
}

// drop removes a session.
func (s *sessionStore) drop(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
