package memory

import (
	"context"
	"sync"

	"github.com/pawhaven/adoption-api-server/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation. One live token per
// username; issuing a new token invalidates the previous one.
type SessionStore struct {
	mu       sync.RWMutex
	byUser   map[string]string
	byToken  map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{byUser: map[string]string{}, byToken: map[string]string{}}
}

func (s *SessionStore) Save(_ context.Context, username, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byUser[username]; ok {
		delete(s.byToken, old)
	}
	s.byUser[username] = token
	s.byToken[token] = username
	return nil
}

func (s *SessionStore) Resolve(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username, ok := s.byToken[token]
	if !ok {
		return "", ports.ErrTokenNotFound
	}
	return username, nil
}

func (s *SessionStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token, ok := s.byUser[username]; ok {
		delete(s.byToken, token)
		delete(s.byUser, username)
	}
	return nil
}
