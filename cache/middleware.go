package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Warning classes carried by Result.Warnings.
var (
	ErrLookup = errors.New("cache lookup failed")
	ErrStore  = errors.New("cache store failed")
)

// EncodeFunc produces an artifact on a cache miss.
type EncodeFunc func(ctx context.Context) ([]byte, error)

// Outcome says how Execute obtained its bytes.
type Outcome int

const (
	// Bypass means caching was disabled for the call.
	Bypass Outcome = iota
	// Hit means the bytes came from the store.
	Hit
	// Miss means the bytes were encoded.
	Miss
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	}
	return "bypass"
}

// Result is the product of one Execute call. Data may be shared with
// concurrent callers for the same ID and must not be modified.
type Result struct {
	Data    []byte
	Outcome Outcome
	// Warnings holds store failures that were degraded rather than
	// returned: a failed Get counts as a miss, a failed Put is dropped.
	Warnings []error
}

// Middleware wraps encoding with a read-through store.
type Middleware struct {
	store Store
	group singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the context shared by every caller waiting on one id. It is
// canceled once no caller is left.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// NewMiddleware creates a middleware over store.
func NewMiddleware(store Store) (*Middleware, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	return &Middleware{store: store, flights: make(map[string]*flight)}, nil
}

// Execute returns the artifact for id. With caching enabled a stored entry
// short-circuits encode; otherwise encode runs and its output is stored.
// Concurrent calls for the same id in this process share one encode, which
// keeps running while any of them still waits; a caller whose ctx ends
// returns ctx.Err() without affecting the others. Encode errors are
// returned and never stored.
func (m *Middleware) Execute(ctx context.Context, id ID, enabled bool, encode EncodeFunc) (Result, error) {
	if !enabled {
		data, err := encode(ctx)
		if err != nil {
			return Result{}, err
		}
		return Result{Data: data, Outcome: Bypass}, nil
	}
	if err := id.Validate(); err != nil {
		return Result{}, err
	}

	name := id.Name()
	f := m.join(ctx, name)
	ch := m.group.DoChan(name, func() (any, error) {
		return m.readThrough(f.ctx, id, encode)
	})
	select {
	case r := <-ch:
		m.leave(name, f, false)
		if r.Err != nil {
			return Result{}, r.Err
		}
		return r.Val.(Result), nil
	case <-ctx.Done():
		m.leave(name, f, true)
		return Result{}, ctx.Err()
	}
}

func (m *Middleware) join(ctx context.Context, name string) *flight {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.flights[name]
	if f == nil {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		m.flights[name] = f
	}
	f.waiters++
	return f
}

// leave drops one waiter. The last one out cancels the shared context and,
// if it gave up early, forgets the call so later callers start afresh.
func (m *Middleware) leave(name string, f *flight, abandoned bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	if m.flights[name] == f {
		delete(m.flights, name)
	}
	if abandoned {
		m.group.Forget(name)
	}
	f.cancel()
}

func (m *Middleware) readThrough(ctx context.Context, id ID, encode EncodeFunc) (Result, error) {
	var warnings []error

	data, ok, err := m.store.Get(ctx, id)
	switch {
	case err != nil:
		warnings = append(warnings, fmt.Errorf("%w: %s: %w", ErrLookup, id.Name(), err))
	case ok:
		return Result{Data: data, Outcome: Hit}, nil
	}

	data, err = encode(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := m.store.Put(ctx, id, data); err != nil {
		warnings = append(warnings, fmt.Errorf("%w: %s: %w", ErrStore, id.Name(), err))
	}
	return Result{Data: data, Outcome: Miss, Warnings: warnings}, nil
}

// Store returns the underlying store.
func (m *Middleware) Store() Store { return m.store }
