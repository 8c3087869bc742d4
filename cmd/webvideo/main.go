// Command webvideo encodes source videos into web-ready outputs and writes a
// JavaScript module listing them as <video> sources.
//
// Usage:
//
//	webvideo [flags] SOURCE[?overrides]...
//
// Each SOURCE may carry an override string in query form, for example
// "intro.mov?outputFiles=webm/av1,mp4&mute". Outputs are written under
// --out-dir at their configured output path, and a "<name>.sources.js"
// module is written next to them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jonwraymond/webvideo/config"
	"github.com/jonwraymond/webvideo/ffmpeg"
)

// Exit codes.
const (
	exitOK = iota
	exitFailure
	exitUsage
)

type flags struct {
	configPath string
	outDir     string
	sortBySize bool
	watch      bool
	check      bool
	dryRun     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("webvideo", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var f flags
	fs.StringVarP(&f.configPath, "config", "c", "", "configuration file (yaml, json or toml)")
	fs.StringVarP(&f.outDir, "out-dir", "o", ".", "directory outputs are written under")
	fs.BoolVar(&f.sortBySize, "sort-by-size", false, "list manifest sources smallest first")
	fs.BoolVarP(&f.watch, "watch", "w", false, "rebuild when a source changes")
	fs.BoolVar(&f.check, "check", false, "check encoder binaries and cache store, then exit")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print resolved outputs without encoding")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: webvideo [flags] SOURCE[?overrides]...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if !f.check && fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.NewLoader(nil).Load(ctx, f.configPath)
	if err != nil {
		fmt.Fprintln(stderr, "webvideo:", err)
		return exitFailure
	}

	a, err := newApp(ctx, cfg, f, ffmpeg.NewEncoder(cfg.Encoder.FFmpegPath))
	if err != nil {
		fmt.Fprintln(stderr, "webvideo:", err)
		return exitFailure
	}
	defer a.close()

	switch {
	case f.check:
		return a.check(ctx, stdout)
	case f.dryRun:
		return a.dryRun(fs.Args(), stdout)
	case f.watch:
		if err := a.watch(ctx, fs.Args()); err != nil {
			a.logger.Error(ctx, "watch stopped", observeErr(err))
			return exitFailure
		}
		return exitOK
	}
	if err := a.buildAll(ctx, fs.Args()); err != nil {
		return exitFailure
	}
	return exitOK
}
