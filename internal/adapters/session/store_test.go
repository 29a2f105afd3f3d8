package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/redis/go-redis/v9"
)

func stores(t *testing.T) map[string]core.SessionStore {
	t.Helper()
	out := map[string]core.SessionStore{"memory": NewMemoryStore()}
	if addr := os.Getenv("MOOD_TEST_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			t.Logf("skipping redis: %v", err)
		} else {
			out["redis"] = NewRedisStore(client, time.Minute)
		}
	}
	return out
}

func TestCreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()

			s := &core.Session{
				ID:        "sess-" + name + "-" + time.Now().Format("150405.000000"),
				Status:    core.SessionActive,
				StartedAt: time.Now(),
			}
			if err := st.Create(ctx, s); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if s.Version != 1 {
				t.Fatalf("Version = %d, want 1", s.Version)
			}

			got, err := st.Get(ctx, s.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			got.Messages = append(got.Messages, core.TextResult{OverallEmotion: core.Joy})
			if err := st.Update(ctx, got); err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			if got.Version != 2 {
				t.Errorf("Version after update = %d, want 2", got.Version)
			}

			// s still carries version 1
			s.Status = core.SessionEnded
			if err := st.Update(ctx, s); !errors.Is(err, core.ErrVersionConflict) {
				t.Fatalf("expected ErrVersionConflict, got %v", err)
			}

			again, _ := st.Get(ctx, s.ID)
			if len(again.Messages) != 1 || again.Status != core.SessionActive {
				t.Errorf("unexpected stored session: %+v", again)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()
			if _, err := st.Get(context.Background(), "nope"); !errors.Is(err, core.ErrSessionNotFound) {
				t.Fatalf("expected ErrSessionNotFound, got %v", err)
			}
		})
	}
}
