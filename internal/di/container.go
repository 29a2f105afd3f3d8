package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-mood-engine/internal/adapters/analysislog"
	"github.com/mikey/llm-mood-engine/internal/adapters/cache"
	"github.com/mikey/llm-mood-engine/internal/config"
	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/mikey/llm-mood-engine/internal/factory"
	"github.com/mikey/llm-mood-engine/internal/logging"
	"github.com/mikey/llm-mood-engine/internal/ports"
	"github.com/mikey/llm-mood-engine/internal/stopwords"
	"github.com/mikey/llm-mood-engine/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
// for the daemon
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := registerAnalysis(container); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.MoodFrontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// registerAnalysis registers everything between the configuration and the
// mood service. The container must already provide *config.Config and
// *zap.Logger.
func registerAnalysis(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewTextFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewSessionFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register inference client; nil when no provider is configured
	if err := container.Provide(func(f *factory.LLMFactory) (core.InferenceClient, error) {
		return f.CreateInferenceClient()
	}); err != nil {
		return err
	}

	// Register profile store
	if err := container.Provide(func(f *factory.StoreFactory) (ports.ProfileRepository, error) {
		return f.CreateProfileRepository()
	}); err != nil {
		return err
	}

	// Register session store
	if err := container.Provide(func(f *factory.SessionFactory) (core.SessionStore, error) {
		return f.CreateSessionStore()
	}); err != nil {
		return err
	}

	// Register profile cache
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (*cache.MemoryCache, error) {
		cacheCfg, err := cfg.GetCache()
		if err != nil {
			return nil, err
		}
		return cache.NewMemoryCache(logger, cacheCfg.TTL, cacheCfg.CleanupFrequency), nil
	}); err != nil {
		return err
	}

	// Register stop words
	if err := container.Provide(func(f *factory.TextFactory) *stopwords.Checker {
		return f.CreateStopWordChecker()
	}); err != nil {
		return err
	}

	// Register analysis log dispatcher; nil when the log is disabled
	if err := container.Provide(func(cfg *config.Config, repo ports.ProfileRepository, logger *zap.Logger) *analysislog.Dispatcher {
		logCfg := cfg.GetAnalysisLog()
		if !logCfg.Enabled {
			logger.Info("Analysis log disabled")
			return nil
		}
		d := analysislog.NewDispatcher(repo, logger, logCfg.QueueSize, logCfg.Workers)
		d.Start()
		return d
	}); err != nil {
		return err
	}

	// Register word resolver
	if err := container.Provide(newWordResolver); err != nil {
		return err
	}

	// Register mood service
	if err := container.Provide(newMoodService); err != nil {
		return err
	}

	// Register runtime
	if err := container.Provide(func(p runtimeParams) *Runtime {
		return &Runtime{
			Service:   p.Service,
			Profiles:  p.Profiles,
			Sessions:  p.Sessions,
			Cache:     p.Cache,
			Inference: p.Inference,
			Recorder:  p.Recorder,
			Logger:    p.Logger,
		}
	}); err != nil {
		return err
	}

	return nil
}

type resolverParams struct {
	dig.In

	Config    *config.Config
	Logger    *zap.Logger
	Cache     *cache.MemoryCache
	Profiles  ports.ProfileRepository
	Inference core.InferenceClient
	Stopwords *stopwords.Checker
}

func newWordResolver(p resolverParams) (*core.WordResolver, error) {
	inf, err := p.Config.GetInference()
	if err != nil {
		return nil, err
	}
	return core.NewWordResolver(
		p.Cache,
		p.Profiles,
		p.Inference,
		p.Stopwords,
		p.Logger,
		core.ResolverOptions{
			MaxInferencePerText: inf.MaxPerText,
			OverwriteOnConflict: p.Config.GetStore().OverwriteOnConflict,
			InferenceTimeout:    inf.Timeout,
		},
	), nil
}

type serviceParams struct {
	dig.In

	Config   *config.Config
	Logger   *zap.Logger
	Resolver *core.WordResolver
	Sessions core.SessionStore
	Recorder *analysislog.Dispatcher
}

func newMoodService(p serviceParams) *core.MoodService {
	analysis := p.Config.GetAnalysis()

	var recorder core.AnalysisRecorder
	if p.Recorder != nil {
		recorder = p.Recorder
	}

	return core.NewMoodService(
		p.Resolver,
		core.NewTextAggregator(analysis.SignificanceThreshold, analysis.UseWordDominance),
		core.NewSessionAggregator(),
		p.Sessions,
		recorder,
		p.Logger,
		analysis.MaxTextLength,
	)
}

type runtimeParams struct {
	dig.In

	Logger    *zap.Logger
	Service   *core.MoodService
	Profiles  ports.ProfileRepository
	Sessions  core.SessionStore
	Cache     *cache.MemoryCache
	Inference core.InferenceClient
	Recorder  *analysislog.Dispatcher
}
