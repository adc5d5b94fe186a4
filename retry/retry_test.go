package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDelay_NonDecreasingAndCapped(t *testing.T) {
	// WHAT: delay(i) = min(base * 2^i, cap) for every attempt index.
	// WHY: the backoff sequence must never shrink and never exceed the cap.
	p := Policy{BaseDelay: 100 * time.Millisecond, CapDelay: 800 * time.Millisecond}

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		800 * time.Millisecond,
		800 * time.Millisecond,
	}
	prev := time.Duration(0)
	for i, w := range want {
		got := p.Delay(i)
		if got != w {
			t.Errorf("Delay(%d) = %v, want %v", i, got, w)
		}
		if got < prev {
			t.Errorf("Delay(%d) = %v decreased from %v", i, got, prev)
		}
		prev = got
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	// WHAT: an operation that fails twice and then succeeds returns the value.
	// WHY: transient navigation failures must be absorbed by the policy.
	calls := 0
	v, err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, CapDelay: time.Millisecond}, "nav",
		func(context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("timeout")
			}
			return 42, nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("got %d, want 42", v)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestDo_ExhaustionCarriesLabel(t *testing.T) {
	// WHAT: after MaxAttempts failures the last error is wrapped with the label.
	// WHY: distinct call sites need distinguishable diagnostics.
	sentinel := errors.New("net down")
	_, err := Do(context.Background(), Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, CapDelay: time.Millisecond}, "detail-fetch",
		func(context.Context) (string, error) { return "", sentinel })
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error %v does not wrap the last failure", err)
	}
	if !strings.Contains(err.Error(), "detail-fetch") {
		t.Errorf("error %v does not carry the label", err)
	}
}

func TestDo_StopsOnContextCancel(t *testing.T) {
	// WHAT: a cancelled context stops retrying immediately.
	// WHY: a shutting-down run must not keep sleeping between attempts.
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Do(ctx, Policy{MaxAttempts: 5, BaseDelay: time.Hour, CapDelay: time.Hour}, "nav",
		func(context.Context) (int, error) {
			calls++
			cancel()
			return 0, errors.New("boom")
		})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("op called %d times after cancel, want 1", calls)
	}
}
