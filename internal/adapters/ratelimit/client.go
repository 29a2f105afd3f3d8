package ratelimit

import (
	"context"
	"fmt"

	"github.com/mikey/llm-mood-engine/internal/core"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client puts a process-wide rate limit in front of an inference client
type Client struct {
	next    core.InferenceClient
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient wraps next so that at most perSecond calls start per second,
// with the given burst
func NewClient(next core.InferenceClient, perSecond float64, burst int, logger *zap.Logger) *Client {
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger,
	}
}

// InferProfile waits for a token, then delegates
func (c *Client) InferProfile(ctx context.Context, word string) (*core.EmotionalProfile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Debug("Inference rate limit wait aborted", zap.String("word", word), zap.Error(err))
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return c.next.InferProfile(ctx, word)
}

// Close closes the wrapped client when it supports it
func (c *Client) Close() error {
	if closer, ok := c.next.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
