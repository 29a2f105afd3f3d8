package ports

import (
	"github.com/mikey/llm-mood-engine/internal/core"
)

// ProfileRepository is a profile store that also keeps the analysis log
type ProfileRepository interface {
	core.ProfileStore
	core.AnalysisLog

	// Close releases the underlying connection
	Close() error
}
