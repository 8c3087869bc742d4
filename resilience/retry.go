package resilience

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryConfig configures Retry.
type RetryConfig struct {
	// MaxAttempts counts the first try. Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the second attempt; later delays double.
	// Default: 200ms
	BaseDelay time.Duration

	// MaxDelay caps a single delay. Default: 5s
	MaxDelay time.Duration

	// Jitter spreads delays by up to a quarter of their length.
	Jitter bool

	// RetryIf decides whether err is worth another attempt.
	// Default: every error except those wrapped with Permanent and
	// context cancellation.
	RetryIf func(err error) bool

	// OnRetry runs before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry re-runs failing operations with exponential backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a Retry with defaults applied.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 200 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 5 * time.Second
	}
	if config.RetryIf == nil {
		config.RetryIf = Retryable
	}
	return &Retry{config: config}
}

// Execute runs op until it succeeds, returns a non-retryable error, or runs
// out of attempts. The last error is returned unchanged.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if attempt >= r.config.MaxAttempts || !r.config.RetryIf(err) {
			return err
		}

		delay := r.delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Retry) delay(attempt int) time.Duration {
	d := r.config.BaseDelay << (attempt - 1)
	if d <= 0 || d > r.config.MaxDelay {
		d = r.config.MaxDelay
	}
	if r.config.Jitter && d >= 4 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		d += time.Duration(rand.Int64N(int64(d / 4)))
	}
	return d
}

// Config returns the effective configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retryable is the default RetryIf.
func Retryable(err error) bool {
	var p *permanentError
	switch {
	case err == nil, errors.As(err, &p):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
