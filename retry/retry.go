// Package retry provides the exponential-backoff executor used by every
// network-bound operation in the scraper: search navigation, per-business
// detail fetches, and website visits.
//
// The delay for attempt i is min(BaseDelay << i, CapDelay), so the sequence
// is non-decreasing and bounded. Sleeps respect context cancellation.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Policy bounds a retried operation.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Default: 3.
	MaxAttempts int
	// BaseDelay is the wait after the first failure, doubled each attempt.
	// Default: 1s.
	BaseDelay time.Duration
	// CapDelay bounds the per-attempt wait. Default: 30s.
	CapDelay time.Duration
	// Logger logs each retry. Nil means silent retries.
	Logger *slog.Logger
}

func (p *Policy) defaults() {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	if p.CapDelay <= 0 {
		p.CapDelay = 30 * time.Second
	}
}

// Delay returns the wait before retrying after attempt i (zero-based).
func (p Policy) Delay(attempt int) time.Duration {
	p.defaults()
	if attempt < 0 {
		attempt = 0
	}
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.CapDelay {
			return p.CapDelay
		}
	}
	if d > p.CapDelay {
		return p.CapDelay
	}
	return d
}

// Do runs op up to p.MaxAttempts times. On exhaustion the last error is
// surfaced wrapped with label so call sites are distinguishable in logs.
func Do[T any](ctx context.Context, p Policy, label string, op func(context.Context) (T, error)) (T, error) {
	p.defaults()

	var zero T
	var lastErr error

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}

		if attempt < p.MaxAttempts-1 {
			wait := p.Delay(attempt)
			if p.Logger != nil {
				p.Logger.WarnContext(ctx, "retry: attempt failed",
					"label", label,
					"attempt", attempt+1,
					"max_attempts", p.MaxAttempts,
					"backoff_ms", wait.Milliseconds(),
					"error", err)
			}
			select {
			case <-ctx.Done():
				return zero, fmt.Errorf("retry: %s: %w", label, lastErr)
			case <-time.After(wait):
			}
		}
	}

	return zero, fmt.Errorf("retry: %s: %w", label, lastErr)
}
