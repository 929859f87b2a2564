package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"google.golang.org/genai"
)

func TestCircuitBreakerTripsAndRecoversAfterCooldown(t *testing.T) {
	t.Parallel()

	s, clock := newBreakerTestService()
	calls := 0
	failing := func(context.Context) error { calls++; return errors.New("bad request") }
	ok := func(context.Context) error { calls++; return nil }

	for i := 0; i < 3; i++ {
		if err := s.withRetry(context.Background(), "test", failing); err == nil {
			t.Fatalf("call %d should fail", i+1)
		}
	}
	err := s.withRetry(context.Background(), "test", ok)
	if err == nil || !strings.Contains(err.Error(), "circuit breaker open") {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("open breaker must not call upstream, calls = %d", calls)
	}

	*clock = clock.Add(31 * time.Second)
	if err := s.withRetry(context.Background(), "test", ok); err != nil {
		t.Fatalf("trial call after cooldown: %v", err)
	}
	if calls != 4 || s.consecutiveErrors.Load() != 0 {
		t.Fatalf("calls=%d errors=%d after recovery", calls, s.consecutiveErrors.Load())
	}
	if err := s.withRetry(context.Background(), "test", ok); err != nil || calls != 5 {
		t.Fatalf("closed breaker should pass calls through: err=%v calls=%d", err, calls)
	}
}

func TestCircuitBreakerReopensWhenTrialFails(t *testing.T) {
	t.Parallel()

	s, clock := newBreakerTestService()
	failing := func(context.Context) error { return errors.New("bad request") }
	for i := 0; i < 3; i++ {
		_ = s.withRetry(context.Background(), "test", failing)
	}

	*clock = clock.Add(time.Minute)
	if err := s.withRetry(context.Background(), "test", failing); err == nil || strings.Contains(err.Error(), "circuit breaker open") {
		t.Fatalf("trial should reach upstream and fail, got %v", err)
	}

	called := false
	err := s.withRetry(context.Background(), "test", func(context.Context) error { called = true; return nil })
	if called || err == nil {
		t.Fatalf("breaker should be open again, called=%v err=%v", called, err)
	}

	*clock = clock.Add(time.Minute)
	if err := s.withRetry(context.Background(), "test", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("second trial: %v", err)
	}
}

func TestCircuitBreakerIgnoresCancellation(t *testing.T) {
	t.Parallel()

	s, _ := newBreakerTestService()
	for i := 0; i < 5; i++ {
		_ = s.withRetry(context.Background(), "test", func(context.Context) error { return context.Canceled })
		_ = s.withRetry(context.Background(), "test", func(context.Context) error { return context.DeadlineExceeded })
	}
	if n := s.consecutiveErrors.Load(); n != 0 {
		t.Fatalf("cancellations counted as failures: %d", n)
	}
	called := false
	if err := s.withRetry(context.Background(), "test", func(context.Context) error { called = true; return nil }); err != nil || !called {
		t.Fatalf("breaker should stay closed: err=%v called=%v", err, called)
	}
}

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	s, _ := newBreakerTestService()
	cases := []struct {
		err  error
		want bool
	}{
		{genai.APIError{Code: 503}, true},
		{genai.APIError{Code: 429}, true},
		{genai.APIError{Code: 400}, false},
		{errors.New("dial tcp: connection refused"), true},
		{context.Canceled, false},
		{errors.New("bad request"), false},
	}
	for _, tc := range cases {
		if got := s.isRetryableError(tc.err); got != tc.want {
			t.Errorf("isRetryableError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestCutKeepsRunesWhole(t *testing.T) {
	t.Parallel()

	if got := cut("héllo", 2); got != "h" {
		t.Fatalf("cut = %q", got)
	}
	if got := truncate("日本語テキスト", 4); got != "日..." {
		t.Fatalf("truncate = %q", got)
	}
	long := strings.Repeat("é", maxEmbeddingInputBytes)
	if got := cut(long, maxEmbeddingInputBytes+1); !utf8.ValidString(got) || len(got) != maxEmbeddingInputBytes {
		t.Fatalf("cut produced %d bytes, valid=%v", len(got), utf8.ValidString(got))
	}
}

// --- stubs ---

func newBreakerTestService() (*GeminiService, *time.Time) {
	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	s := &GeminiService{
		MaxRetries:        0,
		BaseDelay:         time.Millisecond,
		MaxDelay:          time.Millisecond,
		RequestTimeout:    time.Second,
		circuitBreakerMax: 3,
		cooldown:          30 * time.Second,
		logger:            log.New(io.Discard, "", 0),
	}
	s.now = func() time.Time { return clock }
	return s, &clock
}
