package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-mood-engine/internal/config"
	"github.com/mikey/llm-mood-engine/internal/factory"
	"github.com/mikey/llm-mood-engine/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// LLM provider flags
	Provider    string
	MaxTokens   int
	Temperature float64
	TopP        float64

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Analysis flags
	Threshold          float64
	MaxInference       int
	StoreType          string
	SQLitePath         string
	DisableAnalysisLog bool

	// Input and output flags
	InputFile  string
	JSONOutput bool
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// LLM provider flags
	flag.StringVar(&flags.Provider, "provider", "none", "LLM provider (none, bedrock, gemini, openai)")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 300, "Maximum tokens for LLM response")
	flag.Float64Var(&flags.Temperature, "temperature", 0, "Temperature for LLM generation")
	flag.Float64Var(&flags.TopP, "top-p", 1.0, "Top-p for LLM generation")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o-mini", "OpenAI model name")

	// Analysis flags
	flag.Float64Var(&flags.Threshold, "threshold", 0.25, "Minimum word confidence that counts towards a text")
	flag.IntVar(&flags.MaxInference, "max-inference", 3, "Maximum inference calls per message")
	flag.StringVar(&flags.StoreType, "store", "memory", "Profile store (memory, sqlite)")
	flag.StringVar(&flags.SQLitePath, "sqlite-path", "mood_profiles.db", "SQLite database path")
	flag.BoolVar(&flags.DisableAnalysisLog, "no-analysis-log", false, "Do not record analyses")

	// Input and output flags
	flag.StringVar(&flags.InputFile, "file", "", "Input file with one message per line (use stdin if not specified)")
	flag.BoolVar(&flags.JSONOutput, "json", false, "Print results as JSON lines")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose output and logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			cfg.GetViper().Set("cli.json", flags.JSONOutput)
			cfg.GetViper().Set("cli.verbose", flags.Verbose)
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := registerAnalysis(container); err != nil {
		return nil, err
	}

	// Register frontend factory
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("server.filter_type", "cli")
	v.Set("cli.json", flags.JSONOutput)
	v.Set("cli.verbose", flags.Verbose)

	// Set LLM provider
	v.Set("llm.provider", flags.Provider)

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
	}

	// Set analysis configuration
	v.Set("analysis.significance_threshold", flags.Threshold)
	v.Set("inference.max_per_text", flags.MaxInference)
	v.Set("store.type", flags.StoreType)
	v.Set("store.sqlite_path", flags.SQLitePath)
	v.Set("analysis_log.enabled", !flags.DisableAnalysisLog)

	return config.NewFromViper(v)
}
