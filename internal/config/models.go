package config

import "time"

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey           string
	BaseURL          string
	ModelName        string
	MaxTokens        int
	Temperature      float32
	TopP             float32
	StructuredOutput bool
}

// InferenceConfig bounds the inference calls made for unknown words
type InferenceConfig struct {
	MaxPerText int
	RateLimit  float64
	Burst      int
	Timeout    time.Duration
}

// StoreConfig represents the configuration for the profile store
type StoreConfig struct {
	Type                string
	SQLitePath          string
	MySQLDSN            string
	PostgresDSN         string
	OverwriteOnConflict bool
}

// CacheConfig represents the configuration for the in-process profile cache
type CacheConfig struct {
	TTL              time.Duration
	CleanupFrequency time.Duration
}

// AnalysisConfig tunes text aggregation
type AnalysisConfig struct {
	SignificanceThreshold float64
	UseWordDominance      bool
	MaxTextLength         int
	ExtraStopWords        []string
}

// AnalysisLogConfig represents the configuration for the analysis log
type AnalysisLogConfig struct {
	Enabled   bool
	QueueSize int
	Workers   int
}

// SessionConfig represents the configuration for the session store
type SessionConfig struct {
	Type          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// HeaderConfig names the headers added to relayed messages
type HeaderConfig struct {
	Emotion    string
	Confidence string
	Sentiment  string
	Coverage   string
}

// RelayConfig represents the downstream SMTP relay
type RelayConfig struct {
	Enabled bool
	Address string
	Port    int
}

// ServerConfig represents the configuration for the frontend
type ServerConfig struct {
	FilterType    string
	ListenAddress string
	Headers       HeaderConfig
	Relay         RelayConfig
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:           c.GetString("openai.api_key"),
		BaseURL:          c.GetString("openai.base_url"),
		ModelName:        c.GetString("openai.model_name"),
		MaxTokens:        c.GetInt("openai.max_tokens"),
		Temperature:      float32(c.GetFloat64("openai.temperature")),
		TopP:             float32(c.GetFloat64("openai.top_p")),
		StructuredOutput: c.GetBool("openai.structured_output"),
	}
}

// GetInference returns the inference limits
func (c *Config) GetInference() (InferenceConfig, error) {
	timeout, err := c.GetDuration("inference.timeout")
	if err != nil {
		return InferenceConfig{}, err
	}
	return InferenceConfig{
		MaxPerText: c.GetInt("inference.max_per_text"),
		RateLimit:  c.GetFloat64("inference.rate_limit"),
		Burst:      c.GetInt("inference.burst"),
		Timeout:    timeout,
	}, nil
}

// GetStore returns the profile store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:                c.GetString("store.type"),
		SQLitePath:          c.GetString("store.sqlite_path"),
		MySQLDSN:            c.GetString("store.mysql_dsn"),
		PostgresDSN:         c.GetString("store.postgres_dsn"),
		OverwriteOnConflict: c.GetBool("store.overwrite_on_conflict"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{TTL: ttl, CleanupFrequency: cleanup}, nil
}

// GetAnalysis returns the aggregation settings
func (c *Config) GetAnalysis() AnalysisConfig {
	return AnalysisConfig{
		SignificanceThreshold: c.GetFloat64("analysis.significance_threshold"),
		UseWordDominance:      c.GetBool("analysis.use_word_dominance"),
		MaxTextLength:         c.GetInt("analysis.max_text_length"),
		ExtraStopWords:        c.GetStringSlice("analysis.extra_stop_words"),
	}
}

// GetAnalysisLog returns the analysis log configuration
func (c *Config) GetAnalysisLog() AnalysisLogConfig {
	return AnalysisLogConfig{
		Enabled:   c.GetBool("analysis_log.enabled"),
		QueueSize: c.GetInt("analysis_log.queue_size"),
		Workers:   c.GetInt("analysis_log.workers"),
	}
}

// GetSession returns the session store configuration
func (c *Config) GetSession() (SessionConfig, error) {
	ttl, err := c.GetDuration("session.ttl")
	if err != nil {
		return SessionConfig{}, err
	}
	return SessionConfig{
		Type:          c.GetString("session.type"),
		RedisAddr:     c.GetString("session.redis_addr"),
		RedisPassword: c.GetString("session.redis_password"),
		RedisDB:       c.GetInt("session.redis_db"),
		TTL:           ttl,
	}, nil
}

// GetServer returns the frontend configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		FilterType:    c.GetString("server.filter_type"),
		ListenAddress: c.GetString("server.listen_address"),
		Headers: HeaderConfig{
			Emotion:    c.GetString("server.headers.emotion"),
			Confidence: c.GetString("server.headers.confidence"),
			Sentiment:  c.GetString("server.headers.sentiment"),
			Coverage:   c.GetString("server.headers.coverage"),
		},
		Relay: RelayConfig{
			Enabled: c.GetBool("server.relay.enabled"),
			Address: c.GetString("server.relay.address"),
			Port:    c.GetInt("server.relay.port"),
		},
	}
}
