package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errFlaky = errors.New("flaky")

func TestNewRetry_Defaults(t *testing.T) {
	cfg := NewRetry(RetryConfig{}).Config()
	if cfg.MaxAttempts != 3 || cfg.BaseDelay != 200*time.Millisecond || cfg.MaxDelay != 5*time.Second {
		t.Errorf("Config() = %+v", cfg)
	}
	if cfg.RetryIf == nil {
		t.Error("RetryIf default not applied")
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})

	calls := 0
	err := r.Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_ReturnsLastError(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond})

	calls := 0
	err := r.Execute(context.Background(), func(context.Context) error {
		calls++
		return errFlaky
	})
	if !errors.Is(err, errFlaky) {
		t.Errorf("Execute() error = %v, want errFlaky", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRetry_PermanentStops(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 5, BaseDelay: time.Millisecond})

	calls := 0
	err := r.Execute(context.Background(), func(context.Context) error {
		calls++
		return Permanent(errFlaky)
	})
	if !errors.Is(err, errFlaky) {
		t.Errorf("Execute() error = %v, want wrapped errFlaky", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestRetry_ContextCancelledDuringWait(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 5, BaseDelay: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.Execute(ctx, func(context.Context) error { return errFlaky })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Execute() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestRetry_OnRetryAndDelays(t *testing.T) {
	var delays []time.Duration
	r := NewRetry(RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   time.Millisecond,
		MaxDelay:    3 * time.Millisecond,
		OnRetry: func(_ int, _ error, d time.Duration) {
			delays = append(delays, d)
		},
	})
	_ = r.Execute(context.Background(), func(context.Context) error { return errFlaky })

	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errFlaky, true},
		{Permanent(errFlaky), false},
		{context.Canceled, false},
		{context.DeadlineExceeded, false},
	}
	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
