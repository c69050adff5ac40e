package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) string {
	url := os.Getenv("RCMS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: RCMS_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCache_Basic(t *testing.T) {
	url := skipIfNoRedis(t)

	cache, err := NewRedisCacheFromURL(url, "test:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() { _ = cache.Close() }()

	ctx := context.Background()

	// Clear any existing test data
	_ = cache.Clear(ctx)

	key := "test-key"
	value := []byte("test-value")

	if err := cache.Set(ctx, key, value, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("Get returned %q, want %q", got, value)
	}

	exists, err := cache.Has(ctx, key)
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !exists {
		t.Error("Has returned false for existing key")
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, key); err != ErrCacheMiss {
		t.Errorf("Get after Delete returned %v, want ErrCacheMiss", err)
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	url := skipIfNoRedis(t)

	cache, err := NewRedisCacheFromURL(url, "test:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() { _ = cache.Close() }()

	ctx := context.Background()
	_ = cache.Clear(ctx)

	_ = cache.Set(ctx, "page:slug:home", []byte("a"), time.Minute)
	_ = cache.Set(ctx, "page:slug:about", []byte("b"), time.Minute)
	_ = cache.Set(ctx, "other:key", []byte("c"), time.Minute)

	if err := cache.DeleteByPrefix(ctx, "page:slug:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}

	for _, key := range []string{"page:slug:home", "page:slug:about"} {
		if _, err := cache.Get(ctx, key); err != ErrCacheMiss {
			t.Errorf("expected %s to be deleted, got %v", key, err)
		}
	}

	if _, err := cache.Get(ctx, "other:key"); err != nil {
		t.Error("expected other:key to survive DeleteByPrefix")
	}
}

func TestRedisCache_Closed(t *testing.T) {
	url := skipIfNoRedis(t)

	cache, err := NewRedisCacheFromURL(url, "test:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	ctx := context.Background()
	if _, err := cache.Get(ctx, "key"); err != ErrCacheClosed {
		t.Errorf("Get after Close returned %v, want ErrCacheClosed", err)
	}
	if err := cache.Set(ctx, "key", []byte("v"), 0); err != ErrCacheClosed {
		t.Errorf("Set after Close returned %v, want ErrCacheClosed", err)
	}
}

func TestRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCacheFromURL("invalid-url", "test:", time.Minute); err == nil {
		t.Error("expected error with invalid URL, got nil")
	}
}

func TestRedisCache_EmptyURL(t *testing.T) {
	if _, err := NewRedisCacheFromURL("", "test:", time.Minute); err == nil {
		t.Error("expected error with empty URL, got nil")
	}
}

func TestNew_MemoryBackend(t *testing.T) {
	c, err := New(Config{DefaultTTL: time.Minute, MaxSize: 100})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = c.Close() }()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("expected *MemoryCache backend, got %T", c)
	}
}

func TestNew_RedisUnreachable(t *testing.T) {
	_, err := New(Config{
		RedisURL:   "redis://localhost:63999/0", // Non-existent Redis
		DefaultTTL: time.Minute,
	})
	if err == nil {
		t.Error("New should error when Redis is unreachable")
	}
}
