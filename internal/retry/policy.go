package retry

import (
	"context"
	"math"
	"time"
)

// Policy bounds a poll loop: at most MaxAttempts calls, with Delay between
// them. A Multiplier above 1 grows the delay per attempt up to MaxDelay.
type Policy struct {
	Delay       time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
	MaxAttempts int
}

func (p Policy) Attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

// Backoff returns the wait before the given attempt (1-based). The first
// attempt never waits.
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt <= 1 || p.Delay <= 0 {
		return 0
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	delay := time.Duration(float64(p.Delay) * math.Pow(mult, float64(attempt-2)))
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// MaxWait is the worst-case total sleep across all attempts.
func (p Policy) MaxWait() time.Duration {
	var total time.Duration
	for i := 1; i <= p.Attempts(); i++ {
		total += p.Backoff(i)
	}
	return total
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
