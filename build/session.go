package build

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/webvideo/cache"
	"github.com/jonwraymond/webvideo/observe"
	"github.com/jonwraymond/webvideo/transcode"
)

// Session groups the assets of one build so the store is swept once, with
// the keys of every asset, after all of them finished.
//
// Contract:
// - Concurrency: Build may be called from multiple goroutines.
// - Close waits for in-flight builds; Build after Close returns ErrSessionClosed.
// - A session in which any build failed is not swept.
type Session struct {
	id      string
	builder *Builder
	logger  observe.Logger

	mu     sync.Mutex
	wg     sync.WaitGroup
	live   cache.KeySet
	assets int
	failed bool
	closed bool

	closeOnce sync.Once
	summary   Summary
}

// Summary describes a closed session.
type Summary struct {
	ID     string
	Assets int
	Failed bool
	// Swept is false when there is no store or a build failed.
	Swept bool
	// Warnings holds a sweep failure, if any.
	Warnings []error
}

// NewSession starts a session.
func (b *Builder) NewSession() *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		builder: b,
		logger:  b.telemetry.Logger().With(observe.F("session", id)),
		live:    cache.NewKeySet(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Build builds one asset within the session. No partial result is returned:
// any configuration, encoder or naming failure fails the whole asset.
func (s *Session) Build(ctx context.Context, asset Asset) (*Result, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.wg.Add(1)
	s.assets++
	s.mu.Unlock()
	defer s.wg.Done()

	res, err := s.build(ctx, asset)
	if err != nil {
		s.mu.Lock()
		s.failed = true
		s.mu.Unlock()
		s.logger.Error(ctx, "build failed", observe.F("asset", asset.Path), observe.F("error", err))
		return nil, err
	}
	s.logger.Info(ctx, "build completed",
		observe.F("asset", asset.Path),
		observe.F("outputs", len(res.Artifacts)),
		observe.F("warnings", len(res.Warnings)),
	)
	return res, nil
}

func (s *Session) build(ctx context.Context, asset Asset) (*Result, error) {
	b := s.builder
	opts, configs, err := b.Resolve(asset)
	if err != nil {
		return nil, err
	}
	content, sourcePath, err := asset.load()
	if err != nil {
		return nil, err
	}

	outs := b.plan(asset, content, configs)
	s.mu.Lock()
	for _, o := range outs {
		s.live.Add(o.key)
	}
	s.mu.Unlock()

	artifacts := make([]Artifact, len(outs))
	warnings := make([][]error, len(outs))
	g, gctx := errgroup.WithContext(ctx)
	for _, o := range outs {
		g.Go(func() error {
			req := transcode.Request{SourcePath: sourcePath, Input: content, Config: o.cfg}
			data, outcome, warns, err := b.produce(gctx, o, req)
			if err != nil {
				return newEncodeError(o.index, o.cfg, err)
			}
			name, err := b.formatter.Name(gctx, opts.FileNameTemplate, o.fields, data)
			if err != nil {
				return &NameError{Index: o.index, Err: err}
			}
			artifacts[o.index] = Artifact{
				Index:    o.index,
				Name:     name,
				Path:     path.Join(opts.OutputPath, name),
				Src:      joinPublic(opts.PublicPath, name),
				MIMEType: o.cfg.MIMEType(),
				Data:     data,
				Key:      o.key,
				Outcome:  outcome,
				Config:   o.cfg,
			}
			warnings[o.index] = warns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Asset: asset.Path, Options: opts, Artifacts: artifacts}
	for _, w := range warnings {
		res.Warnings = append(res.Warnings, w...)
	}
	return res, nil
}

// Close waits for in-flight builds and sweeps the store down to the keys of
// this session. Later calls return the first summary.
func (s *Session) Close(ctx context.Context) Summary {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.wg.Wait()
		s.summary = s.sweep(ctx)
	})
	return s.summary
}

func (s *Session) sweep(ctx context.Context) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{ID: s.id, Assets: s.assets, Failed: s.failed}
	store := s.store()
	if store == nil || s.failed {
		return sum
	}
	if err := store.Sweep(ctx, s.live); err != nil {
		err = fmt.Errorf("build: sweep: %w", err)
		sum.Warnings = append(sum.Warnings, err)
		s.logger.Warn(ctx, "sweep failed", observe.F("error", err))
		return sum
	}
	sum.Swept = true
	s.logger.Debug(ctx, "sweep completed", observe.F("live_keys", len(s.live)))
	return sum
}

func (s *Session) store() cache.Store {
	if s.builder.cache == nil {
		return nil
	}
	return s.builder.cache.Store()
}
