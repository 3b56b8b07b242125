package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"example.com/ai-shopping-assistant/backend/internal/config"
)

type mockCmdable struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	value, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

// TestRedisCacheGetSet проверяет неймспейс ключей и отсутствие значения.
func TestRedisCacheGetSet(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	c := &RedisCache{store: mock}

	if _, ok, err := c.Get(ctx, "rates:USD"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "rates:USD", "{}", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.ttls["shop:rates:USD"] != time.Minute {
		t.Fatalf("expected namespaced key with ttl, got %v", mock.ttls)
	}

	value, ok, err := c.Get(ctx, "rates:USD")
	if err != nil || !ok || value != "{}" {
		t.Fatalf("unexpected get result %q ok=%v err=%v", value, ok, err)
	}
}

// TestOptionsFromConfig проверяет разбор адреса и URL.
func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error for empty config")
	}

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/2", DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 2 || opts.DialTimeout != time.Second {
		t.Fatalf("unexpected options: %+v", opts)
	}

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.DB != 1 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
