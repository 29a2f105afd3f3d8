package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mikey/llm-mood-engine/internal/core"
)

// MemoryStore is a process-local ProfileStore and AnalysisLog, useful for
// tests and for running without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]core.EmotionalProfile
	records  []core.AnalysisRecord
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]core.EmotionalProfile),
	}
}

// GetByWord implements core.ProfileStore
func (s *MemoryStore) GetByWord(ctx context.Context, word string) (*core.EmotionalProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[strings.ToLower(word)]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &p, nil
}

// UpsertWord implements core.ProfileStore
func (s *MemoryStore) UpsertWord(ctx context.Context, profile *core.EmotionalProfile, overwrite bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(profile.Word)
	now := time.Now().UTC()
	existing, exists := s.profiles[key]
	if exists && !overwrite {
		return false, nil
	}

	p := *profile
	p.Word = key
	p.UpdatedAt = now
	switch {
	case exists:
		p.CreatedAt = existing.CreatedAt
	case p.CreatedAt.IsZero():
		p.CreatedAt = now
	}
	s.profiles[key] = p
	return true, nil
}

// CountWords implements core.ProfileStore
func (s *MemoryStore) CountWords(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles), nil
}

// AppendAnalysis implements core.AnalysisLog
func (s *MemoryStore) AppendAnalysis(ctx context.Context, record *core.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *record)
	return nil
}

// Records returns a copy of the analysis log
func (s *MemoryStore) Records() []core.AnalysisRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.AnalysisRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
