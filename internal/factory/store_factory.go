package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/llm-mood-engine/internal/adapters/store"
	"github.com/mikey/llm-mood-engine/internal/config"
	"github.com/mikey/llm-mood-engine/internal/ports"
	"go.uber.org/zap"
)

// StoreFactory creates profile repositories based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateProfileRepository creates the profile store named by store.type
func (f *StoreFactory) CreateProfileRepository() (ports.ProfileRepository, error) {
	storeCfg := f.cfg.GetStore()

	switch storeCfg.Type {
	case "memory":
		f.logger.Info("Using in-memory profile store")
		return store.NewMemoryStore(), nil
	case "sqlite":
		if storeCfg.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
				return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
			}
		}
		return store.NewSQLiteStore(storeCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(storeCfg.MySQLDSN, f.logger)
	case "postgres":
		return store.NewPostgresStore(storeCfg.PostgresDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}
