package factory

import (
	"testing"

	"github.com/mikey/llm-mood-engine/internal/adapters/openai"
	"github.com/mikey/llm-mood-engine/internal/adapters/ratelimit"
	"github.com/mikey/llm-mood-engine/internal/adapters/session"
	"github.com/mikey/llm-mood-engine/internal/adapters/store"
	"github.com/mikey/llm-mood-engine/internal/config"
	"github.com/mikey/llm-mood-engine/internal/utils"
	"go.uber.org/zap/zaptest"
)

func testConfig(settings map[string]interface{}) *config.Config {
	v := config.NewEmptyViper()
	for k, val := range settings {
		v.Set(k, val)
	}
	return config.NewFromViper(v)
}

func TestCreateInferenceClient(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]interface{}
		wantNil  bool
		wantErr  bool
		check    func(t *testing.T, client interface{})
	}{
		{
			name:    "no provider",
			wantNil: true,
		},
		{
			name:     "unknown provider",
			settings: map[string]interface{}{"llm.provider": "carrier-pigeon"},
			wantErr:  true,
		},
		{
			name:     "openai without key",
			settings: map[string]interface{}{"llm.provider": "openai"},
			wantErr:  true,
		},
		{
			name:     "openai",
			settings: map[string]interface{}{"llm.provider": "openai", "openai.api_key": "sk-test"},
			check: func(t *testing.T, client interface{}) {
				if _, ok := client.(*openai.OpenAIClient); !ok {
					t.Errorf("client = %T, want *openai.OpenAIClient", client)
				}
			},
		},
		{
			name: "rate limited",
			settings: map[string]interface{}{
				"llm.provider":         "openai",
				"openai.api_key":       "sk-test",
				"inference.rate_limit": 2.0,
				"inference.burst":      1,
			},
			check: func(t *testing.T, client interface{}) {
				if _, ok := client.(*ratelimit.Client); !ok {
					t.Errorf("client = %T, want *ratelimit.Client", client)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zaptest.NewLogger(t)
			f := NewLLMFactory(testConfig(tt.settings), logger, utils.NewTextProcessor(logger))

			client, err := f.CreateInferenceClient()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateInferenceClient: %v", err)
			}
			if tt.wantNil != (client == nil) {
				t.Fatalf("client = %v, want nil: %v", client, tt.wantNil)
			}
			if tt.check != nil {
				tt.check(t, client)
			}
		})
	}
}

func TestCreateProfileRepository(t *testing.T) {
	logger := zaptest.NewLogger(t)

	repo, err := NewStoreFactory(testConfig(nil), logger).CreateProfileRepository()
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	if _, ok := repo.(*store.MemoryStore); !ok {
		t.Errorf("repo = %T, want *store.MemoryStore", repo)
	}
	_ = repo.Close()

	repo, err = NewStoreFactory(testConfig(map[string]interface{}{
		"store.type":        "sqlite",
		"store.sqlite_path": ":memory:",
	}), logger).CreateProfileRepository()
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	if _, ok := repo.(*store.SQLStore); !ok {
		t.Errorf("repo = %T, want *store.SQLStore", repo)
	}
	_ = repo.Close()

	if _, err := NewStoreFactory(testConfig(map[string]interface{}{"store.type": "csv"}), logger).CreateProfileRepository(); err == nil {
		t.Error("expected an error for an unsupported store type")
	}
}

func TestCreateSessionStore(t *testing.T) {
	logger := zaptest.NewLogger(t)

	sessions, err := NewSessionFactory(testConfig(nil), logger).CreateSessionStore()
	if err != nil {
		t.Fatalf("memory sessions: %v", err)
	}
	if _, ok := sessions.(*session.MemoryStore); !ok {
		t.Errorf("sessions = %T, want *session.MemoryStore", sessions)
	}

	if _, err := NewSessionFactory(testConfig(map[string]interface{}{"session.type": "etcd"}), logger).CreateSessionStore(); err == nil {
		t.Error("expected an error for an unsupported session store")
	}
	if _, err := NewSessionFactory(testConfig(map[string]interface{}{"session.ttl": "soon"}), logger).CreateSessionStore(); err == nil {
		t.Error("expected an error for an invalid ttl")
	}
}

func TestTextFactoryStopWords(t *testing.T) {
	f := NewTextFactory(testConfig(map[string]interface{}{
		"analysis.extra_stop_words": []string{"Widget"},
	}), zaptest.NewLogger(t))

	checker := f.CreateStopWordChecker()
	if checker.IsSignificant("widget") {
		t.Error("extra stop word should not be significant")
	}
	if !checker.IsSignificant("furious") {
		t.Error("ordinary word should be significant")
	}
	if f.CreateTextProcessor() == nil {
		t.Error("nil text processor")
	}
}
