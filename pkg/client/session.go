package client

import (
	"strings"
	"sync"
)

// Session holds at most one bearer token and the identity it was issued
// for. It is cleared on logout and whenever the server rejects the token,
// so a stale identity can never be presented as current.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *User
}

// SetToken replaces the held token.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
}

// Token returns the held token, or empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is held. It says nothing about
// whether the server still accepts it.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// User returns the identity adopted at signup, login or verify.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Clear drops the token and identity.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

func (s *Session) adopt(token string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != "" {
		s.token = token
	}
	s.user = user
}
