package core

import (
	"context"
)

// ProfileStore is the persistent word -> profile lookup
type ProfileStore interface {
	// GetByWord returns the profile for a normalized word or ErrNotFound
	GetByWord(ctx context.Context, word string) (*EmotionalProfile, error)

	// UpsertWord stores a profile. When overwrite is false an existing row is
	// left untouched. Reports whether a row was written.
	UpsertWord(ctx context.Context, profile *EmotionalProfile, overwrite bool) (bool, error)

	// CountWords returns the number of stored words
	CountWords(ctx context.Context) (int, error)
}

// InferenceClient produces a profile for a word the stores do not know
type InferenceClient interface {
	// InferProfile asks the model for the emotional profile of a single word
	InferProfile(ctx context.Context, word string) (*EmotionalProfile, error)
}

// ProfileCache is the in-process tier in front of the ProfileStore
type ProfileCache interface {
	Get(word string) (EmotionalProfile, bool)
	Set(word string, profile EmotionalProfile)
	Len() int
}

// AnalysisLog is the append-only sink for analysis records
type AnalysisLog interface {
	AppendAnalysis(ctx context.Context, record *AnalysisRecord) error
}

// AnalysisRecorder accepts records without blocking the caller
type AnalysisRecorder interface {
	Record(record *AnalysisRecord)
}

// SessionStore persists sessions between messages
type SessionStore interface {
	// Create stores a new session with Version set to 1
	Create(ctx context.Context, session *Session) error

	// Get returns the session or ErrSessionNotFound
	Get(ctx context.Context, id string) (*Session, error)

	// Update replaces a session if its Version matches, then increments it.
	// Returns ErrVersionConflict otherwise.
	Update(ctx context.Context, session *Session) error

	// Close releases any resources
	Close() error
}
