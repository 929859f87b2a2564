package retry

import (
	"context"
	"testing"
	"time"
)

func TestBackoffFixedDelay(t *testing.T) {
	t.Parallel()

	p := Policy{Delay: 5 * time.Second, MaxAttempts: 12}
	if p.Backoff(1) != 0 {
		t.Fatalf("expected no wait before first attempt, got %v", p.Backoff(1))
	}
	for i := 2; i <= 12; i++ {
		if got := p.Backoff(i); got != 5*time.Second {
			t.Fatalf("attempt %d: expected 5s, got %v", i, got)
		}
	}
	if p.MaxWait() != 55*time.Second {
		t.Fatalf("expected 55s total wait, got %v", p.MaxWait())
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	t.Parallel()

	p := Policy{Delay: time.Second, Multiplier: 2, MaxDelay: 3 * time.Second, MaxAttempts: 5}
	want := []time.Duration{0, time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}
	for i, w := range want {
		if got := p.Backoff(i + 1); got != w {
			t.Fatalf("attempt %d: expected %v, got %v", i+1, w, got)
		}
	}
}

func TestAttemptsDefaultsToOne(t *testing.T) {
	t.Parallel()

	if (Policy{}).Attempts() != 1 {
		t.Fatalf("expected zero policy to allow a single attempt")
	}
}

func TestSleepHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); err == nil {
		t.Fatalf("expected cancelled context to abort sleep")
	}
	if err := Sleep(context.Background(), 0); err != nil {
		t.Fatalf("expected zero sleep to return immediately, got %v", err)
	}
}
