package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/llm-mood-engine/internal/adapters/session"
	"github.com/mikey/llm-mood-engine/internal/config"
	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionFactory creates session stores based on configuration
type SessionFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSessionFactory creates a new session factory
func NewSessionFactory(cfg *config.Config, logger *zap.Logger) *SessionFactory {
	return &SessionFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSessionStore creates the session store named by session.type
func (f *SessionFactory) CreateSessionStore() (core.SessionStore, error) {
	sessionCfg, err := f.cfg.GetSession()
	if err != nil {
		return nil, err
	}

	switch sessionCfg.Type {
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     sessionCfg.RedisAddr,
			Password: sessionCfg.RedisPassword,
			DB:       sessionCfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", sessionCfg.RedisAddr, err)
		}
		f.logger.Info("Using Redis session store",
			zap.String("addr", sessionCfg.RedisAddr),
			zap.Duration("ttl", sessionCfg.TTL))
		return session.NewRedisStore(client, sessionCfg.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported session store type: %s", sessionCfg.Type)
	}
}
