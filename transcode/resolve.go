package transcode

import (
	"fmt"

	"github.com/jonwraymond/webvideo/media"
	"github.com/jonwraymond/webvideo/options"
)

// Hints carries facts about the input asset learned outside this package.
type Hints struct {
	// NoAudioTrack forces every output to be muted.
	NoAudioTrack bool
}

// QualityRangeError reports a quality level outside the resolved codec's
// range, or a level given for a codec without a quality scale. It matches
// options.ErrInvalidQuality.
type QualityRangeError struct {
	Codec string
	Value float64
	Range *media.QualityRange
}

func (e *QualityRangeError) Error() string {
	if e.Range == nil {
		return fmt.Sprintf("transcode: codec %s does not accept a quality level (got %g)", e.Codec, e.Value)
	}
	return fmt.Sprintf("transcode: quality %g for %s is outside [%g, %g]", e.Value, e.Codec, e.Range.Min, e.Range.Max)
}

func (e *QualityRangeError) Is(target error) bool {
	return target == options.ErrInvalidQuality
}

// OutputError ties a resolution failure to the output it came from.
type OutputError struct {
	Index  int
	Output options.OutputSpec
	Err    error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("transcode: output %d (%s): %v", e.Index, e.Output, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// Resolve turns merged options into one Config per requested output, in
// order. It fails on the first invalid output, so callers can treat a nil
// error as "every output is encodable".
func Resolve(opts options.Options, hints Hints) ([]Config, error) {
	if len(opts.OutputFiles) == 0 {
		return nil, options.ErrEmptyOutputList
	}
	if opts.Size != "" {
		if _, err := ParseSize(opts.Size); err != nil {
			return nil, err
		}
	}

	muted := opts.Mute || hints.NoAudioTrack
	configs := make([]Config, 0, len(opts.OutputFiles))
	for i, spec := range opts.OutputFiles {
		cfg, err := resolveOutput(spec, muted)
		if err != nil {
			return nil, &OutputError{Index: i, Output: spec, Err: err}
		}
		cfg.Mute = opts.Mute
		cfg.Size = opts.Size
		cfg.Cache = opts.Cache
		configs = append(configs, cfg)
	}
	return configs, nil
}

func resolveOutput(spec options.OutputSpec, muted bool) (Config, error) {
	if !spec.Container.Valid() {
		return Config{}, &media.UnknownContainerError{Name: spec.Container.String()}
	}
	cfg := Config{
		Container:  spec.Container,
		VideoCodec: spec.VideoCodec,
		AudioCodec: spec.AudioCodec,
	}
	if cfg.VideoCodec == media.VideoDefault {
		cfg.VideoCodec = media.DefaultVideoCodec(cfg.Container)
	}
	if cfg.AudioCodec == media.AudioDefault {
		cfg.AudioCodec = media.DefaultAudioCodec(cfg.Container)
	}
	requestedAudio := cfg.AudioCodec
	if muted {
		cfg.AudioCodec = media.Muted
	}
	if err := media.Validate(cfg.Container, cfg.VideoCodec, cfg.AudioCodec); err != nil {
		return Config{}, err
	}

	var err error
	videoRange, hasVideoRange := cfg.VideoCodec.Quality()
	if cfg.VideoQuality, err = attachLevel(cfg.VideoCodec.String(), spec.VideoQuality, videoRange, hasVideoRange); err != nil {
		return Config{}, err
	}
	if cfg.Muted() {
		// An explicit audio quality must still fit the codec it names; the
		// level itself is dropped with the track.
		r, ok := requestedAudio.Quality()
		if _, err := attachLevel(requestedAudio.String(), spec.AudioQuality, r, ok); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	audioRange, hasAudioRange := cfg.AudioCodec.Quality()
	if cfg.AudioQuality, err = attachLevel(cfg.AudioCodec.String(), spec.AudioQuality, audioRange, hasAudioRange); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// attachLevel picks the explicit level, else the codec default, else none.
func attachLevel(codec string, q options.Quality, r media.QualityRange, hasRange bool) (Level, error) {
	if v, explicit := q.Level(); explicit {
		if !hasRange {
			return Level{}, &QualityRangeError{Codec: codec, Value: v}
		}
		if !r.Contains(v) {
			return Level{}, &QualityRangeError{Codec: codec, Value: v, Range: &r}
		}
		return Level{Value: v, Valid: true}, nil
	}
	if hasRange {
		return Level{Value: r.Default, Valid: true}, nil
	}
	return Level{}, nil
}
