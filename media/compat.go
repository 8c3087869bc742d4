package media

import (
	"fmt"
	"slices"
)

// CodecKind distinguishes the two codec slots of an output.
type CodecKind string

const (
	KindVideo CodecKind = "video"
	KindAudio CodecKind = "audio"
)

// UnknownContainerError reports a container name outside the container set.
type UnknownContainerError struct {
	Name string
}

func (e *UnknownContainerError) Error() string {
	return fmt.Sprintf("media: unknown container %q", e.Name)
}

// IncompatibleCodecError reports a codec the container cannot carry.
type IncompatibleCodecError struct {
	Container Container
	Codec     string
	Kind      CodecKind
}

func (e *IncompatibleCodecError) Error() string {
	return fmt.Sprintf("media: %s codec %q is not supported by container %s", e.Kind, e.Codec, e.Container)
}

// SupportedVideoCodecs returns the video codecs c can carry.
func SupportedVideoCodecs(c Container) []VideoCodec {
	if !c.Valid() {
		return nil
	}
	return slices.Clone(containers[c].videoCodecs)
}

// SupportedAudioCodecs returns the audio codecs c can carry.
func SupportedAudioCodecs(c Container) []AudioCodec {
	if !c.Valid() {
		return nil
	}
	return slices.Clone(containers[c].audioCodecs)
}

// DefaultVideoCodec returns c's default video codec.
func DefaultVideoCodec(c Container) VideoCodec {
	if !c.Valid() {
		return VideoDefault
	}
	return containers[c].video
}

// DefaultAudioCodec returns c's default audio codec.
func DefaultAudioCodec(c Container) AudioCodec {
	if !c.Valid() {
		return AudioDefault
	}
	return containers[c].audio
}

// Validate checks that video and audio can be muxed into c. The default
// selectors are not concrete codecs and are rejected; Muted always passes
// the audio check.
func Validate(c Container, video VideoCodec, audio AudioCodec) error {
	if !c.Valid() {
		return &UnknownContainerError{Name: c.String()}
	}
	if !slices.Contains(containers[c].videoCodecs, video) {
		return &IncompatibleCodecError{Container: c, Codec: video.String(), Kind: KindVideo}
	}
	if audio == Muted {
		return nil
	}
	if !slices.Contains(containers[c].audioCodecs, audio) {
		return &IncompatibleCodecError{Container: c, Codec: audio.String(), Kind: KindAudio}
	}
	return nil
}

// MIMEType returns the source type advertised for an output, e.g.
// `video/webm;codecs="vp9"`. Codecs without a MIME token yield the bare
// container type.
func MIMEType(c Container, video VideoCodec) string {
	base := c.MIMEType()
	if token := video.MIMECodec(); token != "" {
		return fmt.Sprintf("%s;codecs=%q", base, token)
	}
	return base
}
