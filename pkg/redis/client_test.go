package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestCartValueLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.CartKey("sess-1")
	if err := client.Set(ctx, key, `{"product:abc":2}`, 10*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	raw, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if raw != `{"product:abc":2}` {
		t.Fatalf("unexpected stored payload %q", raw)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, key); err != redis.Nil {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestExpireRecordsRefreshedTTL(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.CartKey("sess-1")
	if err := client.Set(ctx, key, `{"product:abc":2}`, 10*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := client.Expire(ctx, key, 30*time.Minute); err != nil {
		t.Fatalf("expire failed: %v", err)
	}

	if len(mock.expireCalls) != 1 {
		t.Fatalf("expected one expire call, got %d", len(mock.expireCalls))
	}
	call := mock.expireCalls[0]
	if call.key != key {
		t.Errorf("expire key = %s, want %s", call.key, key)
	}
	if call.ttl != 30*time.Minute {
		t.Errorf("expire ttl = %s, want 30m", call.ttl)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.CartKey("sess-1"); got != "shop:session:sess-1:cart" {
		t.Fatalf("unexpected cart key %s", got)
	}
	if got := client.DonationPriceKey("sess-1"); got != "shop:session:sess-1:donation_price" {
		t.Fatalf("unexpected donation price key %s", got)
	}
	if got := client.buildKey("session", "", "cart"); got != "shop:session:cart" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

type mockCmdable struct {
	data        map[string]string
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
