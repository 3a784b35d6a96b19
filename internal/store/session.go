package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
)

const sessionIDBytes = 32

// SessionStore maps opaque session ids to usernames.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]string)}
}

// AddSession binds a fresh unguessable id to username.
func (s *SessionStore) AddSession(username string) (string, error) {
	var buf [sessionIDBytes]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	sid := hex.EncodeToString(buf[:])

	s.mu.Lock()
	s.sessions[sid] = username
	s.mu.Unlock()
	return sid, nil
}

func (s *SessionStore) GetSessionUser(sid string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	username, ok := s.sessions[sid]
	return username, ok
}

// DeleteSession removes sid. Deleting an unknown id is a no-op.
func (s *SessionStore) DeleteSession(sid string) {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
