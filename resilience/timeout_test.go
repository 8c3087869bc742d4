package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTimeout_Success(t *testing.T) {
	to := NewTimeout(time.Second)
	if err := to.Execute(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestTimeout_Expires(t *testing.T) {
	to := NewTimeout(10 * time.Millisecond)
	err := to.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
}

func TestTimeout_CallerCancellationIsNotATimeout(t *testing.T) {
	to := NewTimeout(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := to.Execute(ctx, func(ctx context.Context) error { return ctx.Err() })
	if errors.Is(err, ErrTimeout) || !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestTimeout_Disabled(t *testing.T) {
	to := NewTimeout(0)
	err := to.Execute(context.Background(), func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			t.Error("disabled timeout should not set a deadline")
		}
		return nil
	})
	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if to.Duration() != 0 {
		t.Errorf("Duration() = %v", to.Duration())
	}
}
