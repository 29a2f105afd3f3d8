package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mikey/llm-mood-engine/internal/core"
)

// MemoryStore keeps sessions in process memory with optimistic locking.
// Sessions are stored serialized so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	versions map[string]int64
}

// NewMemoryStore creates an empty session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]byte),
		versions: make(map[string]int64),
	}
}

// Create implements core.SessionStore
func (s *MemoryStore) Create(ctx context.Context, session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	session.Version = 1
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.sessions[session.ID] = data
	s.versions[session.ID] = session.Version
	return nil
}

// Get implements core.SessionStore
func (s *MemoryStore) Get(ctx context.Context, id string) (*core.Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, core.ErrSessionNotFound
	}

	var session core.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Update implements core.SessionStore
func (s *MemoryStore) Update(ctx context.Context, session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.versions[session.ID]
	if !ok {
		return core.ErrSessionNotFound
	}
	if current != session.Version {
		return core.ErrVersionConflict
	}

	session.Version++
	data, err := json.Marshal(session)
	if err != nil {
		session.Version--
		return err
	}
	s.sessions[session.ID] = data
	s.versions[session.ID] = session.Version
	return nil
}

// Close implements core.SessionStore
func (s *MemoryStore) Close() error {
	return nil
}
