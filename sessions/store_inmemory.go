package sessions

import "sync"

// InMemoryStore is a Store guarded by a RWMutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	session Session
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *InMemoryStore) UpdateRole(role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Role = role
}

func (s *InMemoryStore) UpdateUsername(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Username = username
}

func (s *InMemoryStore) UpdateID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ID = id
}

func (s *InMemoryStore) Set(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

func (s *InMemoryStore) Clear() {
	s.Set(Session{})
}
