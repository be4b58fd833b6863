package client

import "sync"

// Session holds the tokens of the signed-in user. The zero value is signed out.
type Session struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func (s *Session) Set(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = access, refresh
}

func (s *Session) Clear() { s.Set("", "") }

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *Session) Authenticated() bool { return s.AccessToken() != "" }
