package resilience

import (
	"context"
	"errors"
	"time"
)

// Timeout bounds how long a single operation may run. The operation must
// honour its context.
type Timeout struct {
	d time.Duration
}

// NewTimeout creates a Timeout. A non-positive d disables the limit.
func NewTimeout(d time.Duration) *Timeout {
	return &Timeout{d: d}
}

// Duration returns the configured limit.
func (t *Timeout) Duration() time.Duration { return t.d }

// Execute runs op under the deadline. If the deadline, rather than the
// caller's context, ended the operation, the result is ErrTimeout.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	if t.d <= 0 {
		return op(ctx)
	}
	runCtx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	err := op(runCtx)
	if err != nil && ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	return err
}
