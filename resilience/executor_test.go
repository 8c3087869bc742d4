package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecutor_NoOptions(t *testing.T) {
	called := false
	err := NewExecutor().Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Errorf("Execute() error = %v, called = %v", err, called)
	}
}

func TestExecutor_RetryWithTimeoutPerAttempt(t *testing.T) {
	exec := NewExecutor(
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})),
		WithTimeout(50*time.Millisecond),
	)

	attempts := 0
	err := exec.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if _, ok := ctx.Deadline(); !ok {
			t.Error("attempt should run under a deadline")
		}
		if attempts == 1 {
			return errFlaky
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestExecutor_BulkheadHeldAcrossRetries(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: -1})
	exec := NewExecutor(
		WithBulkhead(b),
		WithRetry(NewRetry(RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond})),
	)

	err := exec.Execute(context.Background(), func(context.Context) error {
		if got := b.Stats().Active; got != 1 {
			t.Errorf("Active = %d during attempt, want 1", got)
		}
		return errFlaky
	})
	if !errors.Is(err, errFlaky) {
		t.Errorf("Execute() error = %v, want errFlaky", err)
	}
	if got := b.Stats().Completed; got != 1 {
		t.Errorf("Completed = %d, want one slot use for both attempts", got)
	}
}

func TestExecutor_BulkheadRejects(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: -1})
	_ = b.Acquire(context.Background())
	defer b.Release()

	err := NewExecutor(WithBulkhead(b)).Execute(context.Background(), func(context.Context) error {
		t.Error("op should not run when the bulkhead is full")
		return nil
	})
	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("Execute() error = %v, want ErrBulkheadFull", err)
	}
}
