package transcode

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/jonwraymond/webvideo/media"
)

// Level is a resolved encoder quality. The zero Level leaves the encoder
// at its own default.
type Level struct {
	Value float64
	Valid bool
}

func (l Level) String() string {
	if !l.Valid {
		return ""
	}
	return strconv.FormatFloat(l.Value, 'g', -1, 64)
}

// Config is the fully resolved, validated description of one output.
// Two equal Configs always serialize to the same canonical bytes.
type Config struct {
	Container    media.Container
	VideoCodec   media.VideoCodec
	VideoQuality Level
	AudioCodec   media.AudioCodec
	AudioQuality Level
	Mute         bool
	Size         string
	Cache        bool
}

// Muted reports whether the output carries no audio track.
func (c Config) Muted() bool {
	return c.AudioCodec == media.Muted
}

// MIMEType returns the manifest type for this output.
func (c Config) MIMEType() string {
	return media.MIMEType(c.Container, c.VideoCodec)
}

// MarshalCanonical renders c as a JSON object with a fixed key order:
// container, videoCodec, videoQuality, audioCodec, audioQuality, mute,
// size, cache. Absent levels and an empty size render as null.
func (c Config) MarshalCanonical() []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeField(&buf, "container", quote(c.Container.String()), true)
	writeField(&buf, "videoCodec", quote(c.VideoCodec.String()), false)
	writeField(&buf, "videoQuality", levelJSON(c.VideoQuality), false)
	writeField(&buf, "audioCodec", quote(c.AudioCodec.String()), false)
	writeField(&buf, "audioQuality", levelJSON(c.AudioQuality), false)
	writeField(&buf, "mute", strconv.FormatBool(c.Mute), false)
	size := "null"
	if c.Size != "" {
		size = quote(c.Size)
	}
	writeField(&buf, "size", size, false)
	writeField(&buf, "cache", strconv.FormatBool(c.Cache), false)
	buf.WriteByte('}')
	return buf.Bytes()
}

func writeField(buf *bytes.Buffer, name, value string, first bool) {
	if !first {
		buf.WriteByte(',')
	}
	buf.WriteString(quote(name))
	buf.WriteByte(':')
	buf.WriteString(value)
}

func quote(s string) string {
	// Marshal of a string cannot fail.
	b, _ := json.Marshal(s)
	return string(b)
}

func levelJSON(l Level) string {
	if !l.Valid {
		return "null"
	}
	return strconv.FormatFloat(l.Value, 'g', -1, 64)
}
