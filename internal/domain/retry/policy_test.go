package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateDelay(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		attempt int
		want    time.Duration
	}{
		{
			name:    "attempt zero is immediate",
			policy:  Policy{InitialDelay: time.Second, BackoffStrategy: BackoffFixed},
			attempt: 0,
			want:    0,
		},
		{
			name:    "fixed stays constant",
			policy:  Policy{InitialDelay: time.Second, MaxDelay: time.Minute, BackoffStrategy: BackoffFixed},
			attempt: 3,
			want:    time.Second,
		},
		{
			name:    "linear scales with attempt",
			policy:  Policy{InitialDelay: time.Second, MaxDelay: time.Minute, BackoffStrategy: BackoffLinear},
			attempt: 3,
			want:    3 * time.Second,
		},
		{
			name:    "exponential doubles",
			policy:  Policy{InitialDelay: time.Second, MaxDelay: time.Minute, BackoffStrategy: BackoffExponential},
			attempt: 4,
			want:    8 * time.Second,
		},
		{
			name:    "capped at max delay",
			policy:  Policy{InitialDelay: time.Second, MaxDelay: 5 * time.Second, BackoffStrategy: BackoffExponential},
			attempt: 10,
			want:    5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.CalculateDelay(tt.attempt); got != tt.want {
				t.Errorf("CalculateDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestCalculateDelay_JitterStaysInBounds(t *testing.T) {
	policy := Policy{
		InitialDelay:    time.Second,
		MaxDelay:        time.Minute,
		BackoffStrategy: BackoffFixed,
		JitterFactor:    0.25,
	}

	for i := 0; i < 100; i++ {
		delay := policy.CalculateDelay(1)
		if delay < 750*time.Millisecond || delay > 1250*time.Millisecond {
			t.Fatalf("jittered delay %v outside [750ms, 1250ms]", delay)
		}
	}
}

func TestExecuteWithResult_SucceedsAfterRetry(t *testing.T) {
	policy := Policy{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffStrategy: BackoffFixed}

	attempts := 0
	result, err := ExecuteWithResult(context.Background(), policy, func(ctx context.Context, attempt int) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q", result)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestExecuteWithResult_ExhaustsRetries(t *testing.T) {
	policy := Policy{MaxRetries: 2, InitialDelay: time.Millisecond, BackoffStrategy: BackoffFixed}

	attempts := 0
	lastErr := errors.New("still down")
	_, err := ExecuteWithResult(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
		attempts++
		return 0, lastErr
	})
	if !errors.Is(err, lastErr) {
		t.Errorf("err = %v, want last attempt error", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (initial + 2 retries)", attempts)
	}
}

func TestExecuteWithResult_PermanentShortCircuits(t *testing.T) {
	policy := Policy{MaxRetries: 5, InitialDelay: time.Millisecond, BackoffStrategy: BackoffFixed}

	attempts := 0
	cause := errors.New("bad request")
	_, err := ExecuteWithResult(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
		attempts++
		return 0, Permanent(cause)
	})
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want the unwrapped cause", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestExecuteWithResult_ContextCancellation(t *testing.T) {
	policy := Policy{MaxRetries: 5, InitialDelay: time.Hour, BackoffStrategy: BackoffFixed}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := ExecuteWithResult(ctx, policy, func(ctx context.Context, attempt int) (int, error) {
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPermanent_NilPassthrough(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) must be nil")
	}
}
