package options

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jonwraymond/webvideo/media"
)

// Quality is a pending quality override for one codec slot: unset, the
// "default" sentinel, or an explicit number. Range checks happen once the
// codec is resolved.
type Quality struct {
	kind  qualityKind
	level float64
}

type qualityKind uint8

const (
	qualityUnset qualityKind = iota
	qualityDefault
	qualityLevel
)

// DefaultQuality requests the codec's default quality level.
var DefaultQuality = Quality{kind: qualityDefault}

// QualityLevel returns an explicit quality override.
func QualityLevel(v float64) Quality {
	return Quality{kind: qualityLevel, level: v}
}

// ParseQuality parses "default" or a finite decimal number.
func ParseQuality(s string) (Quality, error) {
	if s == "default" {
		return DefaultQuality, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Quality{}, fmt.Errorf("%w: %q", ErrInvalidQuality, s)
	}
	return QualityLevel(v), nil
}

// IsSet reports whether any quality was requested.
func (q Quality) IsSet() bool { return q.kind != qualityUnset }

// Level returns the explicit level, if one was given.
func (q Quality) Level() (float64, bool) {
	return q.level, q.kind == qualityLevel
}

func (q Quality) String() string {
	switch q.kind {
	case qualityDefault:
		return "default"
	case qualityLevel:
		return strconv.FormatFloat(q.level, 'g', -1, 64)
	}
	return ""
}

// OutputSpec requests one output encoding. Zero codec values select the
// container defaults; AudioCodec may be media.Muted.
type OutputSpec struct {
	Container    media.Container
	VideoCodec   media.VideoCodec
	VideoQuality Quality
	AudioCodec   media.AudioCodec
	AudioQuality Quality
}

func (o OutputSpec) String() string {
	s := o.Container.String() + "/" + o.VideoCodec.String()
	if o.VideoQuality.IsSet() {
		s += "@" + o.VideoQuality.String()
	}
	s += "/" + o.AudioCodec.String()
	if o.AudioQuality.IsSet() {
		s += "@" + o.AudioQuality.String()
	}
	return s
}

// Options is the fully merged option set for one asset.
type Options struct {
	FileNameTemplate string
	OutputFiles      []OutputSpec
	OutputPath       string
	// PublicPath prefixes manifest URLs. It falls back to OutputPath.
	PublicPath string
	Mute       bool
	// Size is an optional resize expression; empty means keep the source size.
	Size     string
	Cache    bool
	ESModule bool
}

// Layer is a sparse set of options from a single source. Nil fields, and a
// nil or empty OutputFiles, leave lower layers untouched.
type Layer struct {
	FileNameTemplate *string
	OutputFiles      []OutputSpec
	OutputPath       *string
	PublicPath       *string
	Mute             *bool
	Size             *string
	Cache            *bool
	ESModule         *bool
}

// DefaultFileNameTemplate names outputs after the source file and cache key.
const DefaultFileNameTemplate = "[originalFileName]-[hash]"

// Defaults returns the built-in option layer: an h.264 mp4 and a vp9 webm,
// both with the container's default audio.
func Defaults() Options {
	return Options{
		FileNameTemplate: DefaultFileNameTemplate,
		OutputFiles: []OutputSpec{
			{Container: media.MP4, VideoCodec: media.H264},
			{Container: media.WebM, VideoCodec: media.VP9},
		},
		OutputPath: "/",
		Cache:      true,
	}
}
