package resilience_test

import (
	"context"
	"testing"
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/infra/resilience"
)

func TestRetryPolicy_Delay(t *testing.T) {
	p := resilience.RetryPolicy{
		MaxAttempts:       3,
		BaseDelay:         1 * time.Second,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
	}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second}, // capped
		{10, 10 * time.Second},
	}
	for _, c := range cases {
		if got := p.Delay(c.attempt); got != c.want {
			t.Errorf("Delay(%d) = %v, want %v", c.attempt, got, c.want)
		}
	}
}

func TestRetryPolicy_Delay_ClampsAttempt(t *testing.T) {
	p := resilience.RetryPolicy{
		MaxAttempts:       3,
		BaseDelay:         500 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		BackoffMultiplier: 2.0,
	}
	if got := p.Delay(0); got != 500*time.Millisecond {
		t.Errorf("Delay(0) = %v, want 500ms", got)
	}
	if got := p.Delay(-3); got != 500*time.Millisecond {
		t.Errorf("Delay(-3) = %v, want 500ms", got)
	}
}

func TestSleep_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := resilience.Sleep(ctx, 1*time.Hour); err == nil {
		t.Fatal("expected context error")
	}
}

func TestSleep_Completes(t *testing.T) {
	start := time.Now()
	if err := resilience.Sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("sleep returned early")
	}
}

func TestBulkhead_AcquireRelease(t *testing.T) {
	bh := resilience.NewBulkhead(2)

	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("expected acquire, got %v", err)
	}
	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("expected acquire, got %v", err)
	}

	// third acquire blocks, so bound it with a short timeout
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := bh.Acquire(ctx)
	if err == nil {
		t.Fatal("expected timeout on third acquire")
	}

	// Release one slot
	bh.Release()

	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("expected acquire after release, got %v", err)
	}
}
