package resilience

import (
	"context"
	"time"
)

// Executor composes a bulkhead, retry and timeout around an operation.
type Executor struct {
	bulkhead *Bulkhead
	retry    *Retry
	timeout  *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an executor from opts. With no options it simply
// runs the operation.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithBulkhead limits concurrency through b.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) { e.bulkhead = b }
}

// WithRetry retries failed attempts through r.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) { e.retry = r }
}

// WithTimeout bounds each attempt to d.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = NewTimeout(d) }
}

// Execute runs op. The bulkhead slot is held across retries so a retried
// operation does not queue behind new work; the timeout applies per attempt.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	run := op
	if e.timeout != nil {
		attempt := run
		run = func(ctx context.Context) error { return e.timeout.Execute(ctx, attempt) }
	}
	if e.retry != nil {
		attempt := run
		run = func(ctx context.Context) error { return e.retry.Execute(ctx, attempt) }
	}
	if e.bulkhead != nil {
		guarded := run
		run = func(ctx context.Context) error { return e.bulkhead.Execute(ctx, guarded) }
	}
	return run(ctx)
}
