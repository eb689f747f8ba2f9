package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStoreFromClient(client), mr
}

func TestRedisStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisStore(t)

	if err := s.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	val, ok, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(val) != "v" {
		t.Errorf("expected v, got %s", val)
	}
}

func TestRedisStore_Miss(t *testing.T) {
	s, _ := newTestRedisStore(t)
	_, ok, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("expected cache miss")
	}
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	s.Set(ctx, "k", []byte("v"), time.Minute)

	// miniredis advances time manually
	mr.FastForward(2 * time.Minute)

	_, ok, _ := s.Get(ctx, "k")
	if ok {
		t.Error("expected expired entry to miss")
	}
}

func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisStore(t)

	s.Set(ctx, "k", []byte("v"), time.Minute)
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	_, ok, _ := s.Get(ctx, "k")
	if ok {
		t.Error("expected miss after delete")
	}
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not-a-url")
	if err == nil {
		t.Error("expected error for invalid redis url")
	}
}
