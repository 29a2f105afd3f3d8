package core

import "errors"

var (
	// ErrNotFound is returned by stores when a word or session does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidProfile is returned when a profile violates its invariants
	ErrInvalidProfile = errors.New("invalid emotional profile")
	// ErrEmptyText is returned when the text to analyze is blank
	ErrEmptyText = errors.New("text is empty")
	// ErrTextTooLong is returned when the text exceeds the configured limit
	ErrTextTooLong = errors.New("text exceeds maximum length")
	// ErrSessionNotFound is returned when a session id is unknown
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionEnded is returned when a session has already been ended
	ErrSessionEnded = errors.New("session already ended")
	// ErrVersionConflict is returned when a session was modified concurrently
	ErrVersionConflict = errors.New("session version conflict")
)
