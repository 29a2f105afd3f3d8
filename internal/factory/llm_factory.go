package factory

import (
	"fmt"

	"github.com/mikey/llm-mood-engine/internal/adapters/bedrock"
	"github.com/mikey/llm-mood-engine/internal/adapters/gemini"
	"github.com/mikey/llm-mood-engine/internal/adapters/openai"
	"github.com/mikey/llm-mood-engine/internal/adapters/ratelimit"
	"github.com/mikey/llm-mood-engine/internal/config"
	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/mikey/llm-mood-engine/internal/utils"
	"go.uber.org/zap"
)

// LLMFactory creates inference clients
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateInferenceClient creates the inference client named by llm.provider.
// Provider "none" returns a nil client, so unknown words stay unresolved.
// A positive inference.rate_limit wraps the client in a shared limiter.
func (f *LLMFactory) CreateInferenceClient() (core.InferenceClient, error) {
	provider := f.cfg.GetLLM().Provider

	var client core.InferenceClient
	switch provider {
	case "", "none":
		f.logger.Info("No LLM provider configured, unknown words will not be inferred")
		return nil, nil
	case "bedrock":
		c, err := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClient()
		if err != nil {
			return nil, err
		}
		client = c
	case "gemini":
		c, err := gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClient()
		if err != nil {
			return nil, err
		}
		client = c
	case "openai":
		c, err := openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClient()
		if err != nil {
			return nil, err
		}
		client = c
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}

	inf, err := f.cfg.GetInference()
	if err != nil {
		return nil, err
	}
	if inf.RateLimit > 0 {
		f.logger.Info("Rate limiting inference calls",
			zap.Float64("per_second", inf.RateLimit),
			zap.Int("burst", inf.Burst))
		client = ratelimit.NewClient(client, inf.RateLimit, inf.Burst, f.logger)
	}
	return client, nil
}
