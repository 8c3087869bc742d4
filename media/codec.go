package media

import "strings"

// QualityRange describes the encoder quality scale a codec accepts.
type QualityRange struct {
	Min     float64
	Max     float64
	Default float64
	// Flag is the ffmpeg option name the level is passed with, without the dash.
	Flag string
}

// Contains reports whether v lies in [Min, Max].
func (r QualityRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

type codecInfo struct {
	name      string
	encoder   string
	mimeCodec string
	quality   *QualityRange
	extraArgs []string
}

// VideoCodec identifies a video codec. The zero value selects the
// container's default.
type VideoCodec int

// Video codecs. videoCodecCount must stay last.
const (
	VideoDefault VideoCodec = iota
	AV1
	H264
	H265
	VP8
	VP9
	videoCodecCount
)

var videoCodecs = [videoCodecCount]codecInfo{
	VideoDefault: {name: "default"},
	AV1: {
		name:      "av1",
		encoder:   "libaom-av1",
		mimeCodec: "av01",
		quality:   &QualityRange{Min: 0, Max: 63, Default: 25, Flag: "crf"},
	},
	H264: {
		name:    "h.264",
		encoder: "libx264",
		quality: &QualityRange{Min: 0, Max: 51, Default: 23, Flag: "crf"},
	},
	H265: {
		name:      "h.265",
		encoder:   "libx265",
		mimeCodec: "hvc1",
		quality:   &QualityRange{Min: 0, Max: 51, Default: 28, Flag: "crf"},
		extraArgs: []string{"-tag:v", "hvc1"},
	},
	VP8: {
		name:      "vp8",
		encoder:   "libvpx",
		mimeCodec: "vp8",
		quality:   &QualityRange{Min: 4, Max: 63, Default: 10, Flag: "crf"},
	},
	VP9: {
		name:      "vp9",
		encoder:   "libvpx-vp9",
		mimeCodec: "vp9",
		quality:   &QualityRange{Min: 4, Max: 63, Default: 32, Flag: "crf"},
		// libvpx-vp9 only honours crf in constant quality mode.
		extraArgs: []string{"-b:v", "0"},
	},
}

// VideoCodecs returns every concrete video codec.
func VideoCodecs() []VideoCodec {
	out := make([]VideoCodec, 0, videoCodecCount-1)
	for v := VideoDefault + 1; v < videoCodecCount; v++ {
		out = append(out, v)
	}
	return out
}

// Valid reports whether v is a concrete video codec.
func (v VideoCodec) Valid() bool {
	return v > VideoDefault && v < videoCodecCount
}

func (v VideoCodec) String() string {
	if v < 0 || v >= videoCodecCount {
		return "unknown"
	}
	return videoCodecs[v].name
}

// Encoder returns the ffmpeg encoder identifier.
func (v VideoCodec) Encoder() string {
	if !v.Valid() {
		return ""
	}
	return videoCodecs[v].encoder
}

// MIMECodec returns the RFC 6381 codecs token, or "" when the codec is not
// advertised in the MIME type.
func (v VideoCodec) MIMECodec() string {
	if !v.Valid() {
		return ""
	}
	return videoCodecs[v].mimeCodec
}

// Quality returns the codec's quality range, if it has one.
func (v VideoCodec) Quality() (QualityRange, bool) {
	if !v.Valid() || videoCodecs[v].quality == nil {
		return QualityRange{}, false
	}
	return *videoCodecs[v].quality, true
}

// ExtraArgs returns encoder directives that always accompany this codec.
func (v VideoCodec) ExtraArgs() []string {
	if !v.Valid() {
		return nil
	}
	return append([]string(nil), videoCodecs[v].extraArgs...)
}

// Slug renders the codec name for use in file names ("h.264" -> "h_264").
func (v VideoCodec) Slug() string {
	return strings.ReplaceAll(v.String(), ".", "_")
}

// ParseVideoCodec looks up a concrete video codec by name.
func ParseVideoCodec(name string) (VideoCodec, bool) {
	for v := VideoDefault + 1; v < videoCodecCount; v++ {
		if videoCodecs[v].name == name {
			return v, true
		}
	}
	return VideoDefault, false
}

// AudioCodec identifies an audio codec. The zero value selects the
// container's default; Muted drops the audio track.
type AudioCodec int

// Audio codecs. audioCodecCount must stay last.
const (
	AudioDefault AudioCodec = iota
	AAC
	FLAC
	Opus
	Vorbis
	audioCodecCount
)

// Muted marks an output without audio. It is not an entry in the codec
// registry and passes every container's audio check.
const Muted AudioCodec = -1

var audioCodecs = [audioCodecCount]codecInfo{
	AudioDefault: {name: "default"},
	AAC: {
		name:    "aac",
		encoder: "aac",
		quality: &QualityRange{Min: 0.1, Max: 2, Default: 1, Flag: "q:a"},
	},
	FLAC: {
		name:    "flac",
		encoder: "flac",
		quality: &QualityRange{Min: 0, Max: 12, Default: 5, Flag: "compression_level"},
	},
	Opus: {
		name:    "opus",
		encoder: "libopus",
		quality: &QualityRange{Min: 0, Max: 10, Default: 7, Flag: "compression_level"},
	},
	Vorbis: {
		name:    "vorbis",
		encoder: "libvorbis",
		quality: &QualityRange{Min: -1, Max: 10, Default: 3, Flag: "q:a"},
	},
}

// AudioCodecs returns every concrete audio codec. Muted is not included.
func AudioCodecs() []AudioCodec {
	out := make([]AudioCodec, 0, audioCodecCount-1)
	for a := AudioDefault + 1; a < audioCodecCount; a++ {
		out = append(out, a)
	}
	return out
}

// Valid reports whether a is a concrete audio codec.
func (a AudioCodec) Valid() bool {
	return a > AudioDefault && a < audioCodecCount
}

func (a AudioCodec) String() string {
	switch {
	case a == Muted:
		return "muted"
	case a < 0 || a >= audioCodecCount:
		return "unknown"
	}
	return audioCodecs[a].name
}

// Encoder returns the ffmpeg encoder identifier.
func (a AudioCodec) Encoder() string {
	if !a.Valid() {
		return ""
	}
	return audioCodecs[a].encoder
}

// Quality returns the codec's quality range, if it has one.
func (a AudioCodec) Quality() (QualityRange, bool) {
	if !a.Valid() || audioCodecs[a].quality == nil {
		return QualityRange{}, false
	}
	return *audioCodecs[a].quality, true
}

// ParseAudioCodec looks up a concrete audio codec by name. "muted" is not a
// codec name.
func ParseAudioCodec(name string) (AudioCodec, bool) {
	for a := AudioDefault + 1; a < audioCodecCount; a++ {
		if audioCodecs[a].name == name {
			return a, true
		}
	}
	return AudioDefault, false
}
