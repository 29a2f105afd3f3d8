package di

import (
	"go.uber.org/zap"

	"github.com/mikey/llm-mood-engine/internal/adapters/analysislog"
	"github.com/mikey/llm-mood-engine/internal/adapters/cache"
	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/mikey/llm-mood-engine/internal/ports"
)

// Runtime holds the long-lived components behind the mood service so a
// command can release them in order on shutdown
type Runtime struct {
	Service   *core.MoodService
	Profiles  ports.ProfileRepository
	Sessions  core.SessionStore
	Cache     *cache.MemoryCache
	Inference core.InferenceClient
	Recorder  *analysislog.Dispatcher
	Logger    *zap.Logger
}

// Close drains the analysis log before closing the stores it writes to
func (r *Runtime) Close() {
	if r.Recorder != nil {
		r.Recorder.Stop()
	}
	if r.Cache != nil {
		r.Cache.Stop()
	}
	if closer, ok := r.Inference.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			r.Logger.Warn("Failed to close inference client", zap.Error(err))
		}
	}
	if r.Sessions != nil {
		if err := r.Sessions.Close(); err != nil {
			r.Logger.Warn("Failed to close session store", zap.Error(err))
		}
	}
	if r.Profiles != nil {
		if err := r.Profiles.Close(); err != nil {
			r.Logger.Warn("Failed to close profile store", zap.Error(err))
		}
	}
}
