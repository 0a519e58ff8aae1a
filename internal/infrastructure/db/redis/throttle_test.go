package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestThrottle(t *testing.T, maxAttempts int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewLoginThrottle(client, maxAttempts, window), mr
}

func TestLoginThrottle_AllowsUnderBudget(t *testing.T) {
	throttle, _ := newTestThrottle(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := throttle.Allow(ctx, "a@x.com")
		if err != nil {
			t.Fatalf("Allow returned error: %v", err)
		}
		if !ok {
			t.Fatalf("attempt %d should be allowed", i)
		}
		if err := throttle.RecordFailure(ctx, "a@x.com"); err != nil {
			t.Fatalf("RecordFailure returned error: %v", err)
		}
	}
}

func TestLoginThrottle_BlocksAfterMaxFailures(t *testing.T) {
	throttle, _ := newTestThrottle(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := throttle.RecordFailure(ctx, "a@x.com"); err != nil {
			t.Fatalf("RecordFailure returned error: %v", err)
		}
	}

	ok, err := throttle.Allow(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected throttle to block after max failures")
	}

	// Other emails are unaffected.
	ok, err = throttle.Allow(ctx, "b@x.com")
	if err != nil || !ok {
		t.Fatalf("unrelated email should be allowed, got ok=%v err=%v", ok, err)
	}
}

func TestLoginThrottle_WindowExpires(t *testing.T) {
	throttle, mr := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	if err := throttle.RecordFailure(ctx, "a@x.com"); err != nil {
		t.Fatalf("RecordFailure returned error: %v", err)
	}
	if ok, _ := throttle.Allow(ctx, "a@x.com"); ok {
		t.Fatalf("expected block inside window")
	}

	mr.FastForward(2 * time.Minute)

	ok, err := throttle.Allow(ctx, "a@x.com")
	if err != nil || !ok {
		t.Fatalf("expected allow after window expiry, got ok=%v err=%v", ok, err)
	}
}

func TestLoginThrottle_ResetClearsCounter(t *testing.T) {
	throttle, _ := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	if err := throttle.RecordFailure(ctx, "a@x.com"); err != nil {
		t.Fatalf("RecordFailure returned error: %v", err)
	}
	if err := throttle.Reset(ctx, "a@x.com"); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}

	ok, err := throttle.Allow(ctx, "a@x.com")
	if err != nil || !ok {
		t.Fatalf("expected allow after reset, got ok=%v err=%v", ok, err)
	}
}
