package ports

import (
	"context"

	"github.com/mikey/llm-mood-engine/internal/core"
)

// MoodFrontend is an entry point that feeds texts into the mood service
type MoodFrontend interface {
	// ProcessText analyzes a text as the next message of a session. An empty
	// sessionID analyzes the text on its own.
	ProcessText(ctx context.Context, sessionID string, text string) (*core.TextResult, error)

	// Start starts the frontend
	Start() error

	// Stop stops the frontend
	Stop() error
}
