package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodworks/orderflow/core"
)

func transportErr() error {
	return core.NewError("client.DeleteOrder", core.KindTransport, core.ErrRequestFailed)
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastConfig(3), func() error {
		attempts++
		return nil
	})

	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetryRecoversAfterTransientFailure(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastConfig(3), func() error {
		attempts++
		if attempts < 3 {
			return transportErr()
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastConfig(3), func() error {
		attempts++
		return transportErr()
	})

	if !errors.Is(err, core.ErrMaxRetriesExceeded) {
		t.Fatalf("error = %v, want ErrMaxRetriesExceeded", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryAbortsOnNonRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"validation", core.NewError("checkout.Submit", core.KindValidation, core.ErrEmptyCart)},
		{"data integrity", core.NewError("client.CreateOrder", core.KindDataIntegrity, core.ErrMissingOrderID)},
		{"not found", core.NewError("client.GetOrder", core.KindNotFound, core.ErrOrderNotFound)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := Retry(context.Background(), fastConfig(3), func() error {
				attempts++
				return tt.err
			})

			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want the original error", err)
			}
			if attempts != 1 {
				t.Errorf("attempts = %d, want 1 (no retry on non-retryable)", attempts)
			}
		})
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := Retry(ctx, &RetryConfig{
		MaxAttempts:   10,
		InitialDelay:  time.Hour, // only cancellation can end the wait
		MaxDelay:      time.Hour,
		BackoffFactor: 2.0,
	}, func() error {
		attempts++
		cancel()
		return transportErr()
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestCompensationRetryConfig(t *testing.T) {
	config := CompensationRetryConfig()

	if config.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want 2 (one attempt plus one retry)", config.MaxAttempts)
	}

	attempts := 0
	Retry(context.Background(), &RetryConfig{
		MaxAttempts:   config.MaxAttempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
		BackoffFactor: 1.0,
	}, func() error {
		attempts++
		return transportErr()
	})

	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func fastConfig(maxAttempts int) *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   maxAttempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}
