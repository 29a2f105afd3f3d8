package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/llm-mood-engine/internal/core"
	"go.uber.org/zap"
)

type entry struct {
	profile   core.EmotionalProfile
	expiresAt time.Time
}

// MemoryCache is the in-process profile cache. Entries never expire when ttl is zero.
type MemoryCache struct {
	entries     map[string]entry
	mu          sync.RWMutex
	logger      *zap.Logger
	ttl         time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMemoryCache creates a new in-memory profile cache. The cleanup task only
// runs when both ttl and cleanupFreq are positive.
func NewMemoryCache(logger *zap.Logger, ttl time.Duration, cleanupFreq time.Duration) *MemoryCache {
	cache := &MemoryCache{
		entries:     make(map[string]entry),
		logger:      logger,
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	if ttl > 0 && cleanupFreq > 0 {
		go cache.startCleanupTask()
	}

	return cache
}

// Get returns a copy of the cached profile for a normalized word
func (c *MemoryCache) Get(word string) (core.EmotionalProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[word]
	if !ok {
		return core.EmotionalProfile{}, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return core.EmotionalProfile{}, false
	}
	return e.profile, true
}

// Set caches a profile for a normalized word
func (c *MemoryCache) Set(word string, profile core.EmotionalProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{profile: profile}
	if c.ttl > 0 {
		e.expiresAt = time.Now().Add(c.ttl)
	}
	c.entries[word] = e
}

// Len returns the number of cached entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired entries
func (c *MemoryCache) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for key, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *MemoryCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task
func (c *MemoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}
