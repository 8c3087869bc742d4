package options

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/jonwraymond/webvideo/media"
)

// Override keys accepted by ParseQuery.
const (
	KeyOutputFiles      = "outputFiles"
	KeyOutputPath       = "outputPath"
	KeyPublicPath       = "publicPath"
	KeySize             = "size"
	KeyFileNameTemplate = "fileNameTemplate"
	KeyMute             = "mute"
	KeyCache            = "cache"
	KeyESModule         = "esModule"
)

var knownKeys = map[string]bool{
	KeyOutputFiles:      true,
	KeyOutputPath:       true,
	KeyPublicPath:       true,
	KeySize:             true,
	KeyFileNameTemplate: true,
	KeyMute:             true,
	KeyCache:            true,
	KeyESModule:         true,
}

// ParseQuery parses a per-asset override string such as
// "?outputFiles=webm/vp8@12,mp4&mute" into a Layer. A leading "?" is
// optional. When a key repeats, the last value wins.
func ParseQuery(query string) (Layer, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return Layer{}, &MalformedQueryError{Query: query, Err: err}
	}

	var unknown []string
	for key := range values {
		if !knownKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Layer{}, &UnsupportedOptionsError{Keys: unknown}
	}

	last := func(key string) (string, bool) {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return "", false
		}
		return v[len(v)-1], true
	}

	var layer Layer
	if raw, ok := last(KeyOutputFiles); ok {
		outputs, err := ParseOutputList(raw)
		if err != nil {
			return Layer{}, err
		}
		layer.OutputFiles = outputs
	}
	for key, dst := range map[string]**string{
		KeyOutputPath:       &layer.OutputPath,
		KeyPublicPath:       &layer.PublicPath,
		KeySize:             &layer.Size,
		KeyFileNameTemplate: &layer.FileNameTemplate,
	} {
		if raw, ok := last(key); ok {
			*dst = &raw
		}
	}
	for _, key := range []string{KeyMute, KeyCache, KeyESModule} {
		raw, ok := last(key)
		if !ok {
			continue
		}
		b, err := ParseBool(key, raw)
		if err != nil {
			return Layer{}, err
		}
		switch key {
		case KeyMute:
			layer.Mute = &b
		case KeyCache:
			layer.Cache = &b
		case KeyESModule:
			layer.ESModule = &b
		}
	}
	return layer, nil
}

// ParseBool interprets a flag value: a bare key ("") or "true" is true,
// "false" is false.
func ParseBool(key, value string) (bool, error) {
	switch value {
	case "", "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &InvalidBooleanError{Key: key, Value: value}
}

// ParseOutputList parses a comma-separated list of output specs.
func ParseOutputList(s string) ([]OutputSpec, error) {
	parts := strings.Split(s, ",")
	out := make([]OutputSpec, 0, len(parts))
	for _, part := range parts {
		spec, err := ParseOutputSpec(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}
	return out, nil
}

// ParseOutputSpec parses one output:
//
//	container[/codec[@quality]][/codec[@quality]]
//
// Codec tokens fill the video or audio slot by name, in any order. The
// token "default" fills the first empty slot.
func ParseOutputSpec(s string) (OutputSpec, error) {
	containerName, rest, hasCodecs := strings.Cut(s, "/")
	container, err := media.ParseContainer(containerName)
	if err != nil {
		return OutputSpec{}, &GrammarError{Output: s, Err: err}
	}

	var tokens []string
	if hasCodecs {
		tokens = strings.Split(rest, "/")
	}
	if len(tokens) > 2 {
		return OutputSpec{}, &GrammarError{Output: s, Err: ErrTooManyCodecTokens}
	}

	st := slotState{spec: OutputSpec{Container: container}}
	for _, token := range tokens {
		if st, err = st.fill(token); err != nil {
			return OutputSpec{}, &GrammarError{Output: s, Err: err}
		}
	}
	return st.spec, nil
}

// slotState is one step of the slot-filling fold. fill never mutates its
// receiver.
type slotState struct {
	spec        OutputSpec
	videoFilled bool
	audioFilled bool
}

func (st slotState) fill(token string) (slotState, error) {
	name, rawQuality, hasQuality := strings.Cut(token, "@")
	var quality Quality
	if hasQuality {
		q, err := ParseQuality(rawQuality)
		if err != nil {
			return st, err
		}
		quality = q
	}

	if v, ok := media.ParseVideoCodec(name); ok {
		if st.videoFilled {
			return st, fmt.Errorf("%w: %q", ErrDuplicateVideoCodec, name)
		}
		st.spec.VideoCodec, st.spec.VideoQuality, st.videoFilled = v, quality, true
		return st, nil
	}
	if a, ok := media.ParseAudioCodec(name); ok {
		if st.audioFilled {
			return st, fmt.Errorf("%w: %q", ErrDuplicateAudioCodec, name)
		}
		st.spec.AudioCodec, st.spec.AudioQuality, st.audioFilled = a, quality, true
		return st, nil
	}
	if name == "default" {
		switch {
		case !st.videoFilled:
			st.spec.VideoCodec, st.spec.VideoQuality, st.videoFilled = media.VideoDefault, quality, true
		case !st.audioFilled:
			st.spec.AudioCodec, st.spec.AudioQuality, st.audioFilled = media.AudioDefault, quality, true
		default:
			return st, ErrTooManyCodecTokens
		}
		return st, nil
	}
	return st, fmt.Errorf("%w: %q", ErrUnknownCodecName, name)
}
