package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jonwraymond/webvideo/options"
	"github.com/jonwraymond/webvideo/secret"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "WEBVIDEO"

// Loader reads configuration files and the environment.
type Loader struct {
	v        *viper.Viper
	resolver *secret.Resolver
}

// NewLoader creates a Loader. A nil resolver uses the env and file
// providers.
func NewLoader(resolver *secret.Resolver) *Loader {
	if resolver == nil {
		resolver = secret.NewResolver()
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return &Loader{v: v, resolver: resolver}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.backend", BackendDir)
	v.SetDefault("cache.dir", DefaultCacheDir)
	v.SetDefault("cache.compress", false)
	v.SetDefault("encoder.ffmpeg_path", "ffmpeg")
	v.SetDefault("encoder.ffprobe_path", "ffprobe")
	v.SetDefault("observe.service_name", "webvideo")
	v.SetDefault("observe.tracing.exporter", "none")
	v.SetDefault("observe.tracing.sample_pct", 1.0)
	v.SetDefault("observe.metrics.exporter", "none")
	v.SetDefault("observe.logging.enabled", true)
	v.SetDefault("observe.logging.level", "info")
}

// Load reads path, if non-empty, and the environment. Credential values
// are resolved through the loader's secret resolver.
func (l *Loader) Load(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	static, err := l.static()
	if err != nil {
		return nil, err
	}

	v := l.v
	cfg := &Config{Static: static}
	cfg.Cache.Backend = strings.ToLower(v.GetString("cache.backend"))
	cfg.Cache.Dir = v.GetString("cache.dir")
	cfg.Cache.Compress = v.GetBool("cache.compress")
	cfg.Cache.S3.Bucket = v.GetString("cache.s3.bucket")
	cfg.Cache.S3.Prefix = v.GetString("cache.s3.prefix")
	cfg.Cache.S3.Region = v.GetString("cache.s3.region")
	cfg.Cache.S3.Endpoint = v.GetString("cache.s3.endpoint")
	cfg.Cache.S3.UsePathStyle = v.GetBool("cache.s3.use_path_style")
	cfg.Cache.S3.AccessKeyID = v.GetString("cache.s3.access_key_id")
	cfg.Cache.S3.SecretAccessKey = v.GetString("cache.s3.secret_access_key")

	cfg.Encoder.FFmpegPath = v.GetString("encoder.ffmpeg_path")
	cfg.Encoder.FFprobePath = v.GetString("encoder.ffprobe_path")
	cfg.Encoder.MaxConcurrent = v.GetInt("encoder.max_concurrent")
	cfg.Encoder.Timeout = v.GetDuration("encoder.timeout")

	cfg.Observe.ServiceName = v.GetString("observe.service_name")
	cfg.Observe.Version = v.GetString("observe.version")
	cfg.Observe.Tracing.Enabled = v.GetBool("observe.tracing.enabled")
	cfg.Observe.Tracing.Exporter = v.GetString("observe.tracing.exporter")
	cfg.Observe.Tracing.SamplePct = v.GetFloat64("observe.tracing.sample_pct")
	cfg.Observe.Metrics.Enabled = v.GetBool("observe.metrics.enabled")
	cfg.Observe.Metrics.Exporter = v.GetString("observe.metrics.exporter")
	cfg.Observe.Logging.Enabled = v.GetBool("observe.logging.enabled")
	cfg.Observe.Logging.Level = strings.ToLower(v.GetString("observe.logging.level"))

	if err := l.resolver.ResolveAll(ctx,
		&cfg.Cache.S3.AccessKeyID,
		&cfg.Cache.S3.SecretAccessKey,
		&cfg.Cache.S3.Endpoint,
	); err != nil {
		return nil, fmt.Errorf("config: resolve credentials: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// static builds the option layer from the keys that are actually set.
func (l *Loader) static() (options.Layer, error) {
	v := l.v
	var layer options.Layer

	str := func(key string) *string {
		if !v.IsSet(key) {
			return nil
		}
		s := v.GetString(key)
		return &s
	}
	flag := func(key string) *bool {
		if !v.IsSet(key) {
			return nil
		}
		b := v.GetBool(key)
		return &b
	}

	layer.FileNameTemplate = str("options.file_name_template")
	layer.OutputPath = str("options.output_path")
	layer.PublicPath = str("options.public_path")
	layer.Size = str("options.size")
	layer.Mute = flag("options.mute")
	layer.Cache = flag("options.cache")
	layer.ESModule = flag("options.es_module")

	if v.IsSet("options.output_files") {
		outputs, err := parseOutputs(v.Get("options.output_files"))
		if err != nil {
			return options.Layer{}, fmt.Errorf("config: options.output_files: %w", err)
		}
		layer.OutputFiles = outputs
	}
	return layer, nil
}

// parseOutputs accepts a comma-separated string or a list of output specs.
func parseOutputs(raw any) ([]options.OutputSpec, error) {
	switch val := raw.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return options.ParseOutputList(val)
	case []string:
		return options.ParseOutputList(strings.Join(val, ","))
	case []any:
		parts := make([]string, len(val))
		for i, p := range val {
			s, ok := p.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d: want string, got %T", i, p)
			}
			parts[i] = s
		}
		return options.ParseOutputList(strings.Join(parts, ","))
	default:
		return nil, fmt.Errorf("want string or list, got %T", raw)
	}
}
