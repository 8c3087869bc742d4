package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/webvideo/build"
	"github.com/jonwraymond/webvideo/cache"
	"github.com/jonwraymond/webvideo/config"
	"github.com/jonwraymond/webvideo/ffmpeg"
	"github.com/jonwraymond/webvideo/health"
	"github.com/jonwraymond/webvideo/observe"
)

type app struct {
	cfg     *config.Config
	flags   flags
	obs     observe.Observer
	logger  observe.Logger
	store   cache.Store
	prober  *ffmpeg.Prober
	builder *build.Builder
}

func newApp(ctx context.Context, cfg *config.Config, f flags, enc build.Encoder) (*app, error) {
	obs, err := observe.NewObserver(ctx, cfg.Observe)
	if err != nil {
		return nil, err
	}
	telemetry, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, err
	}
	store, err := cfg.Cache.OpenStore(ctx)
	if err != nil {
		return nil, err
	}

	prober := ffmpeg.NewProber(cfg.Encoder.FFprobePath)
	b, err := build.New(build.Config{
		Encoder:              enc,
		Store:                store,
		Probe:                prober,
		Static:               cfg.Static,
		MaxConcurrentEncodes: cfg.Encoder.MaxConcurrent,
		EncodeTimeout:        cfg.Encoder.Timeout,
		Telemetry:            telemetry,
	})
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		flags:   f,
		obs:     obs,
		logger:  obs.Logger(),
		store:   store,
		prober:  prober,
		builder: b,
	}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.obs.Shutdown(ctx)
}

// parseSource splits "clip.mov?mute" into a path and an override string.
func parseSource(arg string) (path, query string) {
	path, query, _ = strings.Cut(arg, "?")
	return path, query
}

// asset prepares one source, muting every output when the source has no
// audio stream. A failed probe is logged and ignored.
func (a *app) asset(ctx context.Context, arg string) build.Asset {
	path, query := parseSource(arg)
	asset := build.Asset{Path: path, Query: query}
	info, err := a.prober.ProbeFile(ctx, path)
	if err != nil {
		a.logger.Warn(ctx, "probe source failed", observe.F("source", path), observeErr(err))
		return asset
	}
	asset.NoAudioTrack = info.HasVideo && !info.HasAudio
	return asset
}

// buildAll builds every source in one session and writes the results.
func (a *app) buildAll(ctx context.Context, args []string) error {
	session := a.builder.NewSession()
	g, gctx := errgroup.WithContext(ctx)
	for _, arg := range args {
		g.Go(func() error {
			res, err := session.Build(gctx, a.asset(gctx, arg))
			if err != nil {
				a.logger.Error(gctx, "build failed", observe.F("source", arg), observeErr(err))
				return err
			}
			for _, w := range res.Warnings {
				a.logger.Warn(gctx, "cache degraded", observe.F("source", arg), observeErr(w))
			}
			return a.write(res)
		})
	}
	err := g.Wait()

	summary := session.Close(ctx)
	for _, w := range summary.Warnings {
		a.logger.Warn(ctx, "sweep failed", observe.F("session", summary.ID), observeErr(w))
	}
	a.logger.Info(ctx, "session closed",
		observe.F("session", summary.ID),
		observe.F("assets", summary.Assets),
		observe.F("swept", summary.Swept),
	)
	return err
}

// write stores each artifact under the output directory and the manifest
// module beside them.
func (a *app) write(res *build.Result) error {
	var dir string
	for _, art := range res.Artifacts {
		dst := filepath.Join(a.flags.outDir, filepath.FromSlash(art.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, art.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		dir = filepath.Dir(dst)
	}

	manifest := res.Manifest()
	if a.flags.sortBySize {
		manifest = build.ManifestOf(res.SortedBySize())
	}
	module, err := manifest.Module(res.Options.ESModule)
	if err != nil {
		return err
	}
	if dir == "" {
		dir = a.flags.outDir
	}
	base := filepath.Base(res.Asset)
	dst := filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".sources.js")
	if err := os.WriteFile(dst, []byte(module+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// dryRun prints the outputs each source would produce.
func (a *app) dryRun(args []string, w io.Writer) int {
	code := exitOK
	for _, arg := range args {
		path, query := parseSource(arg)
		_, configs, err := a.builder.Resolve(build.Asset{Path: path, Query: query})
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", path, err)
			code = exitFailure
			continue
		}
		for i, c := range configs {
			fmt.Fprintf(w, "%s[%d]: %s\n", path, i, c.MarshalCanonical())
		}
	}
	return code
}

// check reports the readiness of the encoder binaries and the store.
func (a *app) check(ctx context.Context, w io.Writer) int {
	agg := health.NewAggregator(health.AggregatorConfig{})
	agg.Register(health.NewBinaryChecker("ffmpeg", a.cfg.Encoder.FFmpegPath))
	agg.Register(health.NewBinaryChecker("ffprobe", a.cfg.Encoder.FFprobePath))
	if p, ok := a.store.(health.Prober); ok {
		agg.Register(health.NewStoreChecker("cache", p))
	}

	report := agg.CheckAll(ctx)
	for _, e := range report.Entries {
		line := fmt.Sprintf("%-8s %-9s %s", e.Name, e.Result.Status, e.Result.Message)
		if e.Result.Error != nil {
			line += ": " + e.Result.Error.Error()
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, "overall:", report.Status)
	if report.Status == health.StatusUnhealthy {
		return exitFailure
	}
	return exitOK
}

func observeErr(err error) observe.Field {
	return observe.F("error", err)
}
