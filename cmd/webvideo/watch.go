package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jonwraymond/webvideo/observe"
)

// debounce collapses the burst of events an editor or copy produces.
const debounce = 250 * time.Millisecond

// watch builds args once, then rebuilds them whenever one of the source
// files is written or replaced, until ctx is done.
func (a *app) watch(ctx context.Context, args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			a.logger.Warn(ctx, "close watcher", observeErr(err))
		}
	}()

	// Watch parent directories so renames over a source are still seen.
	sources := make(map[string]bool, len(args))
	dirs := make(map[string]bool)
	for _, arg := range args {
		path, _ := parseSource(arg)
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		sources[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
	}

	a.rebuild(ctx, args)

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if relevant(event, sources) {
				a.logger.Debug(ctx, "source changed", observe.F("source", event.Name), observe.F("op", event.Op.String()))
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn(ctx, "watcher error", observeErr(err))
		case <-timer.C:
			a.rebuild(ctx, args)
		}
	}
}

func (a *app) rebuild(ctx context.Context, args []string) {
	start := time.Now()
	if err := a.buildAll(ctx, args); err != nil {
		return
	}
	a.logger.Info(ctx, "build finished", observe.F("sources", len(args)), observe.F("duration_ms", time.Since(start).Milliseconds()))
}

// relevant reports whether event changed the content of a watched source.
func relevant(event fsnotify.Event, sources map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return sources[abs]
}
