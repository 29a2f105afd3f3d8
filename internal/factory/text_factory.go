package factory

import (
	"github.com/mikey/llm-mood-engine/internal/config"
	"github.com/mikey/llm-mood-engine/internal/stopwords"
	"github.com/mikey/llm-mood-engine/internal/utils"
	"go.uber.org/zap"
)

// TextFactory creates the text helpers shared by the adapters and the resolver
type TextFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewTextFactory creates a new TextFactory
func NewTextFactory(cfg *config.Config, logger *zap.Logger) *TextFactory {
	return &TextFactory{
		config: cfg,
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}

// CreateStopWordChecker creates the significance filter for unknown words,
// extended with analysis.extra_stop_words
func (f *TextFactory) CreateStopWordChecker() *stopwords.Checker {
	return stopwords.NewChecker(f.config.GetAnalysis().ExtraStopWords, f.logger)
}
