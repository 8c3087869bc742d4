package resilience

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// BulkheadConfig configures a Bulkhead.
type BulkheadConfig struct {
	// MaxConcurrent is the number of operations allowed to run at once.
	// Default: runtime.NumCPU()
	MaxConcurrent int

	// MaxWait bounds how long Acquire waits for a slot.
	// Zero waits until the context is done; a negative value fails fast.
	MaxWait time.Duration
}

// Bulkhead caps how many operations run concurrently. A single Bulkhead is
// meant to be shared by every caller competing for the same resource, such
// as encoder processes.
type Bulkhead struct {
	config BulkheadConfig
	slots  chan struct{}

	mu        sync.Mutex
	active    int
	peak      int
	waiting   int
	rejected  int64
	completed int64
}

// NewBulkhead creates a bulkhead with defaults applied.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = runtime.NumCPU()
	}
	return &Bulkhead{
		config: config,
		slots:  make(chan struct{}, config.MaxConcurrent),
	}
}

// Acquire takes a slot, waiting according to MaxWait.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		b.enter()
		return nil
	default:
	}

	if b.config.MaxWait < 0 {
		b.reject()
		return ErrBulkheadFull
	}

	var expired <-chan time.Time
	if b.config.MaxWait > 0 {
		timer := time.NewTimer(b.config.MaxWait)
		defer timer.Stop()
		expired = timer.C
	}

	b.mu.Lock()
	b.waiting++
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.waiting--
		b.mu.Unlock()
	}()

	select {
	case b.slots <- struct{}{}:
		b.enter()
		return nil
	case <-expired:
		b.reject()
		return ErrBulkheadFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bulkhead) enter() {
	b.mu.Lock()
	b.active++
	b.peak = max(b.peak, b.active)
	b.mu.Unlock()
}

func (b *Bulkhead) reject() {
	b.mu.Lock()
	b.rejected++
	b.mu.Unlock()
}

// Release returns a slot taken by Acquire.
func (b *Bulkhead) Release() {
	select {
	case <-b.slots:
		b.mu.Lock()
		b.active--
		b.completed++
		b.mu.Unlock()
	default:
	}
}

// Execute runs op while holding a slot.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()
	return op(ctx)
}

// Stats returns a snapshot of bulkhead usage.
func (b *Bulkhead) Stats() BulkheadStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BulkheadStats{
		Active:        b.active,
		Peak:          b.peak,
		Waiting:       b.waiting,
		MaxConcurrent: b.config.MaxConcurrent,
		Rejected:      b.rejected,
		Completed:     b.completed,
	}
}

// BulkheadStats describes bulkhead usage.
type BulkheadStats struct {
	Active        int
	Peak          int
	Waiting       int
	MaxConcurrent int
	Rejected      int64
	Completed     int64
}
