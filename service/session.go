package service

import "sync"

// SessionStore holds open wizard sessions keyed by draft ID so the HTTP
// surface can address a specific in-progress draft
type SessionStore struct {
	sessions map[string]*Wizard
	mu       sync.RWMutex
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Wizard)}
}

func (s *SessionStore) Put(w *Wizard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[w.ID()] = w
}

func (s *SessionStore) Get(id string) *Wizard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Remove discards a session, e.g. after finalize or cancel
func (s *SessionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
