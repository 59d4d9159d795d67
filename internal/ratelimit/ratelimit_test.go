package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Unix(1000, 0)

	for i := 0; i < 2; i++ {
		result, err := limiter.Allow(context.Background(), "u:1", 2, now)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !result.Allowed {
			t.Fatalf("expected request %d allowed", i+1)
		}
	}

	result, err := limiter.Allow(context.Background(), "u:1", 2, now)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if result.Allowed {
		t.Fatalf("expected third request denied")
	}

	// A new window resets the counter.
	result, err = limiter.Allow(context.Background(), "u:1", 2, now.Add(time.Second))
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !result.Allowed {
		t.Fatalf("expected request allowed in next window")
	}
}

func TestMemoryLimiter_KeysIsolated(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Unix(1000, 0)

	if result, _ := limiter.Allow(context.Background(), "u:1", 1, now); !result.Allowed {
		t.Fatalf("expected first key allowed")
	}
	if result, _ := limiter.Allow(context.Background(), "u:2", 1, now); !result.Allowed {
		t.Fatalf("expected second key allowed")
	}
	if result, _ := limiter.Allow(context.Background(), "u:1", 1, now); result.Allowed {
		t.Fatalf("expected first key exhausted")
	}
}

func TestManager_DisabledWithoutLimit(t *testing.T) {
	manager := NewManager(func() Config { return Config{} }, nil, nil)

	for i := 0; i < 100; i++ {
		result, err := manager.Allow(context.Background(), KeyForUser(1))
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !result.Allowed {
			t.Fatalf("expected all requests allowed with limit 0")
		}
	}
}

func TestManager_MemoryBackend(t *testing.T) {
	now := time.Unix(2000, 0)
	manager := NewManager(
		func() Config { return Config{Limit: 1} },
		func() time.Time { return now },
		nil,
	)

	if result, _ := manager.Allow(context.Background(), KeyForUser(7)); !result.Allowed {
		t.Fatalf("expected first event allowed")
	}
	if result, _ := manager.Allow(context.Background(), KeyForUser(7)); result.Allowed {
		t.Fatalf("expected second event denied")
	}
}

func TestKeyForUser(t *testing.T) {
	if key := KeyForUser(0); key != "" {
		t.Fatalf("expected empty key for user 0, got %q", key)
	}
	if key := KeyForUser(42); key != "u:42" {
		t.Fatalf("unexpected key %q", key)
	}
}
