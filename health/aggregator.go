package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTimeout bounds a full CheckAll run.
const DefaultTimeout = 10 * time.Second

// AggregatorConfig configures an Aggregator.
type AggregatorConfig struct {
	// Timeout bounds the whole run. Default: DefaultTimeout.
	Timeout time.Duration

	// Sequential runs checks one at a time in registration order.
	Sequential bool
}

// Aggregator runs a fixed set of checkers and reports them in
// registration order.
type Aggregator struct {
	config   AggregatorConfig
	mu       sync.RWMutex
	checkers []Checker
}

// NewAggregator creates an Aggregator.
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Aggregator{config: cfg}
}

// Register adds c. A second checker with the same name replaces the first
// in place.
func (a *Aggregator) Register(c Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, existing := range a.checkers {
		if existing.Name() == c.Name() {
			a.checkers[i] = c
			return
		}
	}
	a.checkers = append(a.checkers, c)
}

// Names returns the registered checker names in order.
func (a *Aggregator) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, len(a.checkers))
	for i, c := range a.checkers {
		names[i] = c.Name()
	}
	return names
}

// Check runs the checker registered as name.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	var found Checker
	for _, c := range a.checkers {
		if c.Name() == name {
			found = c
			break
		}
	}
	a.mu.RUnlock()
	if found == nil {
		return Result{}, fmt.Errorf("%w: %s", ErrCheckerNotFound, name)
	}
	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()
	return runCheck(ctx, found), nil
}

// Entry is one named result within a Report.
type Entry struct {
	Name   string
	Result Result
}

// Report is the outcome of CheckAll.
type Report struct {
	Status  Status
	Entries []Entry
}

// CheckAll runs every checker and returns their results in registration
// order.
func (a *Aggregator) CheckAll(ctx context.Context) Report {
	a.mu.RLock()
	checkers := append([]Checker(nil), a.checkers...)
	a.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	entries := make([]Entry, len(checkers))
	if a.config.Sequential {
		for i, c := range checkers {
			entries[i] = Entry{Name: c.Name(), Result: runCheck(ctx, c)}
		}
	} else {
		var wg sync.WaitGroup
		for i, c := range checkers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				entries[i] = Entry{Name: c.Name(), Result: runCheck(ctx, c)}
			}()
		}
		wg.Wait()
	}

	return Report{Status: Overall(entries), Entries: entries}
}

// Overall is the worst status among entries, or healthy when empty.
func Overall(entries []Entry) Status {
	status := StatusHealthy
	for _, e := range entries {
		if e.Result.Status > status {
			status = e.Result.Status
		}
	}
	return status
}

func runCheck(ctx context.Context, c Checker) Result {
	start := time.Now()
	ch := make(chan Result, 1)
	go func() {
		ch <- c.Check(ctx)
	}()

	select {
	case r := <-ch:
		r.Duration = time.Since(start)
		if r.Timestamp.IsZero() {
			r.Timestamp = start
		}
		return r
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
}
