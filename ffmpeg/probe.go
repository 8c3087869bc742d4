package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonwraymond/webvideo/naming"
)

var probeArgs = []string{"-v", "error", "-print_format", "json", "-show_streams"}

// Prober inspects media with ffprobe.
type Prober struct {
	bin string
	run runFunc
}

// NewProber creates a Prober for the ffprobe binary at bin. An empty bin
// uses DefaultFFprobePath.
func NewProber(bin string) *Prober {
	if bin == "" {
		bin = DefaultFFprobePath
	}
	return &Prober{bin: bin, run: execRun}
}

// Binary returns the configured ffprobe path.
func (p *Prober) Binary() string { return p.bin }

// Probe inspects in-memory media fed through stdin.
func (p *Prober) Probe(ctx context.Context, data []byte) (naming.StreamInfo, error) {
	return p.probe(ctx, "pipe:0", bytes.NewReader(data))
}

// ProbeFile inspects the media file at path.
func (p *Prober) ProbeFile(ctx context.Context, path string) (naming.StreamInfo, error) {
	return p.probe(ctx, path, nil)
}

func (p *Prober) probe(ctx context.Context, input string, stdin io.Reader) (naming.StreamInfo, error) {
	args := append(append([]string(nil), probeArgs...), "-i", input)
	out, err := p.run(ctx, p.bin, args, stdin)
	if err != nil {
		return naming.StreamInfo{}, err
	}
	return ParseProbe(out)
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// ParseProbe decodes ffprobe JSON output. The first video and the first
// audio stream are reported.
func ParseProbe(data []byte) (naming.StreamInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return naming.StreamInfo{}, fmt.Errorf("ffmpeg: decode ffprobe output: %w", err)
	}
	var info naming.StreamInfo
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if !info.HasVideo {
				info.HasVideo = true
				info.VideoCodec = s.CodecName
				info.Width, info.Height = s.Width, s.Height
			}
		case "audio":
			if !info.HasAudio {
				info.HasAudio = true
				info.AudioCodec = s.CodecName
			}
		}
	}
	return info, nil
}
