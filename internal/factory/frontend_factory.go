package factory

import (
	"fmt"
	"os"

	"github.com/mikey/llm-mood-engine/internal/adapters/frontend"
	"github.com/mikey/llm-mood-engine/internal/config"
	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/mikey/llm-mood-engine/internal/ports"
	"github.com/mikey/llm-mood-engine/internal/utils"
	"go.uber.org/zap"
)

// FrontendFactory creates frontends based on configuration
type FrontendFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	service       *core.MoodService
	textProcessor *utils.TextProcessor
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger, service *core.MoodService, textProcessor *utils.TextProcessor) *FrontendFactory {
	return &FrontendFactory{
		cfg:           cfg,
		logger:        logger,
		service:       service,
		textProcessor: textProcessor,
	}
}

// CreateFrontend creates the frontend named by server.filter_type
func (f *FrontendFactory) CreateFrontend() (ports.MoodFrontend, error) {
	serverCfg := f.cfg.GetServer()

	switch serverCfg.FilterType {
	case "smtp":
		return frontend.NewSMTPFrontend(
			f.service,
			f.logger,
			f.textProcessor,
			serverCfg.ListenAddress,
			serverCfg.Headers,
			serverCfg.Relay,
			f.cfg.GetAnalysis().MaxTextLength,
		), nil
	case "cli":
		return f.CreateCLIFrontend(), nil
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", serverCfg.FilterType)
	}
}

// CreateCLIFrontend creates a CLI frontend writing to stdout
func (f *FrontendFactory) CreateCLIFrontend() *frontend.CLIFrontend {
	return frontend.NewCLIFrontend(
		f.service,
		f.logger,
		os.Stdout,
		f.cfg.GetBool("cli.json"),
		f.cfg.GetBool("cli.verbose"),
	)
}
