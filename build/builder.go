package build

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonwraymond/webvideo/cache"
	"github.com/jonwraymond/webvideo/naming"
	"github.com/jonwraymond/webvideo/observe"
	"github.com/jonwraymond/webvideo/options"
	"github.com/jonwraymond/webvideo/resilience"
	"github.com/jonwraymond/webvideo/transcode"
)

// Encoder produces the bytes of one output.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Encode must stop when ctx is canceled.
// - Errors: a failed encode fails the build; it is never retried.
type Encoder interface {
	Encode(ctx context.Context, req transcode.Request) ([]byte, error)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(ctx context.Context, req transcode.Request) ([]byte, error)

// Encode calls f.
func (f EncoderFunc) Encode(ctx context.Context, req transcode.Request) ([]byte, error) {
	return f(ctx, req)
}

// Config configures a Builder.
type Config struct {
	// Encoder is required.
	Encoder Encoder
	// Store persists outputs between builds. Nil disables caching.
	Store cache.Store
	// Keyer derives cache keys. Defaults to SHAKE256.
	Keyer cache.Keyer
	// Probe measures produced outputs for the [size] template token.
	Probe naming.Probe
	// Defaults is the lowest option layer. Defaults to options.Defaults().
	Defaults *options.Options
	// Static is the configured option layer.
	Static options.Layer
	// MaxConcurrentEncodes bounds encoder runs across every build of this
	// Builder. Zero uses the number of CPUs.
	MaxConcurrentEncodes int
	// EncodeTimeout bounds each encoder run. Zero means no limit.
	EncodeTimeout time.Duration
	// Telemetry instruments encoder runs and cache lookups.
	Telemetry *observe.Middleware
}

// Builder turns assets into encoded outputs and a manifest.
type Builder struct {
	encoder   Encoder
	cache     *cache.Middleware
	keyer     cache.Keyer
	formatter *naming.Formatter
	defaults  options.Options
	static    options.Layer
	bulkhead  *resilience.Bulkhead
	executor  *resilience.Executor
	telemetry *observe.Middleware
}

// New creates a Builder.
func New(cfg Config) (*Builder, error) {
	if cfg.Encoder == nil {
		return nil, ErrNilEncoder
	}
	b := &Builder{
		encoder:   cfg.Encoder,
		keyer:     cfg.Keyer,
		formatter: naming.NewFormatter(cfg.Probe),
		defaults:  options.Defaults(),
		static:    cfg.Static,
		telemetry: cfg.Telemetry,
	}
	if cfg.Store != nil {
		mw, err := cache.NewMiddleware(cfg.Store)
		if err != nil {
			return nil, err
		}
		b.cache = mw
	}
	if b.keyer == nil {
		b.keyer = cache.NewShakeKeyer()
	}
	if cfg.Defaults != nil {
		b.defaults = *cfg.Defaults
	}
	if b.telemetry == nil {
		b.telemetry = observe.Nop()
	}

	b.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: cfg.MaxConcurrentEncodes})
	execOpts := []resilience.ExecutorOption{resilience.WithBulkhead(b.bulkhead)}
	if cfg.EncodeTimeout > 0 {
		execOpts = append(execOpts, resilience.WithTimeout(cfg.EncodeTimeout))
	}
	b.executor = resilience.NewExecutor(execOpts...)
	return b, nil
}

// EncoderStats reports the shared encoder concurrency limiter.
func (b *Builder) EncoderStats() resilience.BulkheadStats {
	return b.bulkhead.Stats()
}

// Build runs a single-asset session: the asset is built and, on success,
// the store is swept down to its keys.
func (b *Builder) Build(ctx context.Context, asset Asset) (*Result, error) {
	s := b.NewSession()
	res, err := s.Build(ctx, asset)
	summary := s.Close(ctx)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(res.Warnings, summary.Warnings...)
	return res, nil
}

// Asset is one source media file.
type Asset struct {
	// Path names the source. Its base name without extension fills
	// [originalFileName]; it is read when Content is nil.
	Path string
	// Content is the source bytes.
	Content []byte
	// Query is the override string attached to the asset reference, in
	// URL query form with or without the leading "?".
	Query string
	// NoAudioTrack mutes every output.
	NoAudioTrack bool
}

// Name returns the file name without directory or extension.
func (a Asset) Name() string {
	base := filepath.Base(a.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (a Asset) load() (content []byte, sourcePath string, err error) {
	if a.Content != nil {
		return a.Content, "", nil
	}
	if a.Path == "" {
		return nil, "", ErrNoContent
	}
	content, err = os.ReadFile(a.Path)
	if err != nil {
		return nil, "", fmt.Errorf("build: read asset: %w", err)
	}
	return content, a.Path, nil
}

// Resolve merges the asset's override string over the builder's layers and
// resolves every output. It touches neither the store nor the encoder.
func (b *Builder) Resolve(asset Asset) (options.Options, []transcode.Config, error) {
	override, err := options.ParseQuery(asset.Query)
	if err != nil {
		return options.Options{}, nil, err
	}
	opts, err := options.Merge(b.defaults, b.static, override)
	if err != nil {
		return options.Options{}, nil, err
	}
	configs, err := transcode.Resolve(opts, transcode.Hints{NoAudioTrack: asset.NoAudioTrack})
	if err != nil {
		return options.Options{}, nil, err
	}
	return opts, configs, nil
}

type output struct {
	index  int
	cfg    transcode.Config
	key    cache.Key
	fields naming.Fields
	meta   observe.OutputMeta
}

func (b *Builder) plan(asset Asset, content []byte, configs []transcode.Config) []output {
	outs := make([]output, len(configs))
	name := asset.Name()
	for i, cfg := range configs {
		key := b.keyer.Key(content, cfg)
		outs[i] = output{
			index: i,
			cfg:   cfg,
			key:   key,
			fields: naming.Fields{
				Hash:             string(key),
				OriginalFileName: name,
				Ext:              cfg.Container.Ext(),
				VideoCodec:       cfg.VideoCodec,
				AudioCodec:       cfg.AudioCodec,
			},
			meta: observe.OutputMeta{
				Asset:      asset.Path,
				Index:      i,
				Container:  cfg.Container.String(),
				VideoCodec: cfg.VideoCodec.String(),
				AudioCodec: cfg.AudioCodec.String(),
				Key:        string(key),
			},
		}
	}
	return outs
}

func (b *Builder) produce(ctx context.Context, o output, req transcode.Request) ([]byte, cache.Outcome, []error, error) {
	encode := b.telemetry.Wrap(o.meta, func(ctx context.Context) ([]byte, error) {
		var data []byte
		err := b.executor.Execute(ctx, func(ctx context.Context) error {
			var err error
			data, err = b.encoder.Encode(ctx, req)
			return err
		})
		return data, err
	})

	if b.cache == nil {
		data, err := encode(ctx)
		return data, cache.Bypass, nil, err
	}

	res, err := b.cache.Execute(ctx, cache.ID{Key: o.key, Ext: o.fields.Ext}, o.cfg.Cache, cache.EncodeFunc(encode))
	if err != nil {
		return nil, 0, nil, err
	}
	switch res.Outcome {
	case cache.Hit:
		b.telemetry.CacheLookup(ctx, o.meta, observe.LookupHit)
	case cache.Miss:
		result := observe.LookupMiss
		if len(res.Warnings) > 0 && errors.Is(res.Warnings[0], cache.ErrLookup) {
			result = observe.LookupError
		}
		b.telemetry.CacheLookup(ctx, o.meta, result)
	}
	for _, w := range res.Warnings {
		b.telemetry.Warn(ctx, o.meta, w)
	}
	return res.Data, res.Outcome, res.Warnings, nil
}

// joinPublic joins a public path or URL with a file name.
func joinPublic(base, name string) string {
	if u, err := url.Parse(base); err == nil && u.Scheme != "" && u.Host != "" {
		return u.JoinPath(name).String()
	}
	if base == "" {
		return name
	}
	return path.Join(base, name)
}
