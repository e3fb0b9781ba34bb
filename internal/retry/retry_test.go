package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
)

func fastConfig(retries uint64) Config {
	return Config{
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.5,
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), logger.Nop(), "flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	}, fastConfig(5))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	boom := errors.New("still down")
	err := Do(context.Background(), logger.Nop(), "down", func() error {
		calls++
		return boom
	}, fastConfig(2))
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 1 attempt + 2 retries, got %d calls", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	bad := errors.New("bad input")
	err := Do(context.Background(), logger.Nop(), "permanent", func() error {
		calls++
		return Permanent(bad)
	}, fastConfig(5))
	if !errors.Is(err, bad) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestDoHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, logger.Nop(), "cancelled", func() error {
		calls++
		return errors.New("fail")
	}, fastConfig(10))
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls > 1 {
		t.Errorf("expected at most one call after cancellation, got %d", calls)
	}
}
