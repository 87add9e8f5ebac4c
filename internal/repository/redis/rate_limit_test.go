package redis

import (
	"context"
	"testing"
	"time"
)

func TestRateLimitRepositoryCountWithinWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewRateLimitRepository(client, SlidingWindowConfig{KeyPrefix: "travel:rate-limit", TTL: time.Minute})

	ctx := context.Background()
	now := time.Now()

	for _, offset := range []time.Duration{-50 * time.Second, -20 * time.Second, -time.Second} {
		if err := repo.RecordAttempt(ctx, "login:198.51.100.7", now.Add(offset)); err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
	}

	count, err := repo.CountAttempts(ctx, "login:198.51.100.7", time.Minute, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 attempts in window, got %d", count)
	}

	count, err = repo.CountAttempts(ctx, "login:198.51.100.7", 30*time.Second, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 attempts in narrow window, got %d", count)
	}
}

func TestRateLimitRepositoryTrimWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewRateLimitRepository(client, SlidingWindowConfig{KeyPrefix: "travel:rate-limit", TTL: time.Minute})

	ctx := context.Background()
	now := time.Now()

	if err := repo.RecordAttempt(ctx, "login:old", now.Add(-2*time.Minute)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(ctx, "login:old", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	if err := repo.TrimWindow(ctx, "login:old", time.Minute, now); err != nil {
		t.Fatalf("TrimWindow returned error: %v", err)
	}

	count, err := repo.CountAttempts(ctx, "login:old", time.Hour, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected stale attempt removed, got %d", count)
	}
}

func TestRateLimitRepositoryOldestAttempt(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewRateLimitRepository(client, SlidingWindowConfig{KeyPrefix: "travel:rate-limit", TTL: time.Minute})

	ctx := context.Background()
	now := time.Now()

	_, found, err := repo.OldestAttempt(ctx, "login:empty", time.Minute, now)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if found {
		t.Fatal("expected no attempts for empty key")
	}

	first := now.Add(-40 * time.Second)
	if err := repo.RecordAttempt(ctx, "login:seq", first); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := repo.RecordAttempt(ctx, "login:seq", now.Add(-10*time.Second)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	oldest, found, err := repo.OldestAttempt(ctx, "login:seq", time.Minute, now)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if !found {
		t.Fatal("expected an attempt within the window")
	}
	if oldest.UnixNano() != first.UnixNano() {
		t.Fatalf("expected oldest %v, got %v", first, oldest)
	}
}
