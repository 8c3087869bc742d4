package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jonwraymond/webvideo/cache"
	"github.com/jonwraymond/webvideo/observe"
	"github.com/jonwraymond/webvideo/options"
)

// Cache backends.
const (
	BackendDir    = "dir"
	BackendS3     = "s3"
	BackendMemory = "memory"
	BackendNone   = "none"
)

var backends = []string{BackendDir, BackendS3, BackendMemory, BackendNone}

// DefaultCacheDir is used by the dir backend when no directory is set.
const DefaultCacheDir = ".webvideo-cache"

var (
	// ErrInvalidBackend is returned for an unknown cache backend.
	ErrInvalidBackend = errors.New("config: invalid cache backend")
	// ErrInvalidEncoder is returned for negative encoder limits.
	ErrInvalidEncoder = errors.New("config: invalid encoder settings")
)

// Config is the loaded configuration.
type Config struct {
	// Static is the configured option layer, between the built-in
	// defaults and per-asset overrides.
	Static  options.Layer
	Cache   CacheConfig
	Encoder EncoderConfig
	Observe observe.Config
}

// CacheConfig selects and configures the cache store.
type CacheConfig struct {
	Backend  string
	Dir      string
	Compress bool
	S3       cache.S3Config
}

// EncoderConfig configures the external tools and encode limits.
type EncoderConfig struct {
	FFmpegPath    string
	FFprobePath   string
	MaxConcurrent int
	Timeout       time.Duration
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !slices.Contains(backends, c.Cache.Backend) {
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Cache.Backend)
	}
	if c.Cache.Backend == BackendS3 && c.Cache.S3.Bucket == "" {
		return fmt.Errorf("%w: s3 bucket required", ErrInvalidBackend)
	}
	if c.Cache.Backend == BackendDir && c.Cache.Dir == "" {
		return fmt.Errorf("%w: cache directory required", ErrInvalidBackend)
	}
	if c.Encoder.MaxConcurrent < 0 {
		return fmt.Errorf("%w: max_concurrent must be non-negative", ErrInvalidEncoder)
	}
	if c.Encoder.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be non-negative", ErrInvalidEncoder)
	}
	return c.Observe.Validate()
}
