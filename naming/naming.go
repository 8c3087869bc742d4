// Package naming renders output file names from templates.
//
// Recognized tokens:
//
//	[hash]              cache key of the output
//	[originalFileName]  source file name without extension
//	[videoCodec]        resolved video codec, "." rendered as "_"
//	[audioCodec]        resolved audio codec, or "muted"
//	[size]              WIDTHxHEIGHT of the produced video
//
// Any other bracketed text is copied through unchanged. The extension is
// always appended, so "[originalFileName]-[hash]" yields "clip-3fa1….webm".
package naming

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/webvideo/media"
)

// Template tokens.
const (
	TokenHash             = "[hash]"
	TokenOriginalFileName = "[originalFileName]"
	TokenVideoCodec       = "[videoCodec]"
	TokenAudioCodec       = "[audioCodec]"
	TokenSize             = "[size]"
)

// ErrProbeUnavailable is returned when a template needs [size] but no
// Probe was configured.
var ErrProbeUnavailable = errors.New("naming: template uses [size] but no probe is configured")

// Fields are the values substituted into a template.
type Fields struct {
	Hash             string
	OriginalFileName string
	Ext              string
	VideoCodec       media.VideoCodec
	AudioCodec       media.AudioCodec
	// Size is the probed "WxH"; only consulted for [size].
	Size string
}

// Format renders template with f and appends "." + f.Ext.
func Format(template string, f Fields) string {
	r := strings.NewReplacer(
		TokenHash, f.Hash,
		TokenOriginalFileName, f.OriginalFileName,
		TokenVideoCodec, f.VideoCodec.Slug(),
		TokenAudioCodec, f.AudioCodec.String(),
		TokenSize, f.Size,
	)
	return r.Replace(template) + "." + f.Ext
}

// NeedsProbe reports whether rendering template requires probing the
// produced bytes.
func NeedsProbe(template string) bool {
	return strings.Contains(template, TokenSize)
}

// StreamInfo describes the streams of a media file.
type StreamInfo struct {
	Width      int
	Height     int
	VideoCodec string
	AudioCodec string
	HasVideo   bool
	HasAudio   bool
}

// Dimensions renders "WxH", or "" when there is no video stream.
func (s StreamInfo) Dimensions() string {
	if !s.HasVideo {
		return ""
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Probe inspects encoded media.
type Probe interface {
	Probe(ctx context.Context, data []byte) (StreamInfo, error)
}

// Formatter renders names, probing produced bytes only when the template
// asks for [size].
type Formatter struct {
	probe Probe
}

// NewFormatter creates a Formatter. probe may be nil if no template uses
// [size].
func NewFormatter(probe Probe) *Formatter {
	return &Formatter{probe: probe}
}

// Name renders template for an output whose encoded bytes are data.
func (f *Formatter) Name(ctx context.Context, template string, fields Fields, data []byte) (string, error) {
	if NeedsProbe(template) {
		if f.probe == nil {
			return "", ErrProbeUnavailable
		}
		info, err := f.probe.Probe(ctx, data)
		if err != nil {
			return "", fmt.Errorf("naming: probe output: %w", err)
		}
		fields.Size = info.Dimensions()
	}
	return Format(template, fields), nil
}
