package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Slivix/Projet-AOS/internal/config"
)

func TestRedisCacheAgainstServer(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_URL")
	if addr == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client := InitRedis(ctx, &config.Config{RedisURL: addr})
	if client == nil {
		t.Fatalf("could not reach %s", addr)
	}
	cache := NewRedisCache(client)
	defer cache.Close()

	if err := cache.Set(ctx, "test:key", "42", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, err := cache.Get(ctx, "test:key"); err != nil || v != "42" {
		t.Fatalf("get = %q, %v", v, err)
	}
	if err := cache.Del(ctx, "test:key"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := cache.Get(ctx, "test:key"); err != ErrCacheMiss {
		t.Fatalf("get after del: %v", err)
	}
}

func TestInitRedisUnreachable(t *testing.T) {
	client := InitRedis(context.Background(), &config.Config{RedisURL: "127.0.0.1:1"})
	if client != nil {
		t.Fatalf("unreachable redis should yield nil client")
	}
}
