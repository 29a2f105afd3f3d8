package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for sessions
	sessionKeyPrefix = "mood:session:"
	// Default TTL for session keys (24 hours)
	defaultTTL = 24 * time.Hour
)

// RedisStore implements core.SessionStore on Redis, using WATCH for
// optimistic locking.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-based session store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Create implements core.SessionStore
func (s *RedisStore) Create(ctx context.Context, session *core.Session) error {
	session.Version = 1
	val, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, s.key(session.ID), val, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	return nil
}

// Get implements core.SessionStore. Reading a session refreshes its TTL.
func (s *RedisStore) Get(ctx context.Context, id string) (*core.Session, error) {
	key := s.key(id)
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session core.Session
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, err
	}

	// A failed TTL refresh is not worth failing the read for.
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &session, nil
}

// Update implements core.SessionStore
func (s *RedisStore) Update(ctx context.Context, session *core.Session) error {
	key := s.key(session.ID)

	txf := func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return core.ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		var stored core.Session
		if err := json.Unmarshal(val, &stored); err != nil {
			return err
		}
		if stored.Version != session.Version {
			return core.ErrVersionConflict
		}

		next := *session
		next.Version++
		data, err := json.Marshal(&next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return core.ErrVersionConflict
	}
	if err != nil {
		return err
	}
	session.Version++
	return nil
}

// Close implements core.SessionStore
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(id string) string {
	return sessionKeyPrefix + id
}
