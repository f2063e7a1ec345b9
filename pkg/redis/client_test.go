package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pwproductions/storefront-backend/pkg/config"
)

func configWithURL(url string) config.RedisConfig {
	return config.RedisConfig{URL: url}
}

type mockCmdable struct {
	values map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{values: map[string]string{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.values[key] = toString(value)
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if val, ok := m.values[key]; ok {
		cmd.SetVal(val)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if _, ok := m.values[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	m.values[key] = toString(value)
	cmd.SetVal(true)
	return cmd
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var removed int64
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			delete(m.values, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func TestGetMissingKeyReturnsNotFound(t *testing.T) {
	client := &Client{store: newMockCmdable()}

	if _, err := client.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	client := &Client{store: newMockCmdable()}
	ctx := context.Background()

	if err := client.Set(ctx, client.CartKey("sess-1"), `{"items":[]}`); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	val, err := client.Get(ctx, client.CartKey("sess-1"))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if val != `{"items":[]}` {
		t.Fatalf("unexpected value %q", val)
	}
}

func TestSetNXLockSemantics(t *testing.T) {
	client := &Client{store: newMockCmdable()}
	ctx := context.Background()
	key := client.CheckoutLockKey("sess-1")

	won, err := client.SetNX(ctx, key, "1", time.Minute)
	if err != nil {
		t.Fatalf("setnx failed: %v", err)
	}
	if !won {
		t.Fatal("expected first lock acquisition to win")
	}

	won, err = client.SetNX(ctx, key, "1", time.Minute)
	if err != nil {
		t.Fatalf("setnx failed: %v", err)
	}
	if won {
		t.Fatal("expected second acquisition to lose")
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	won, err = client.SetNX(ctx, key, "1", time.Minute)
	if err != nil {
		t.Fatalf("setnx failed: %v", err)
	}
	if !won {
		t.Fatal("expected acquisition after release to win")
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.CartKey("sess-1"); got != "storefront:cart:sess-1" {
		t.Fatalf("unexpected cart key %s", got)
	}
	if got := client.CheckoutLockKey("sess-1"); got != "storefront:checkout_lock:sess-1" {
		t.Fatalf("unexpected lock key %s", got)
	}
}

func TestOptionsFromConfigRequiresURL(t *testing.T) {
	if _, err := optionsFromConfig(configWithURL("")); err == nil {
		t.Fatal("expected error for missing url")
	}
	opts, err := optionsFromConfig(configWithURL("redis://localhost:6379/2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2 from url, got %d", opts.DB)
	}
}
