package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jonwraymond/webvideo/media"
	"github.com/jonwraymond/webvideo/transcode"
)

// Encoder produces outputs by running ffmpeg with the result written to
// stdout.
type Encoder struct {
	bin string
	run runFunc
}

// NewEncoder creates an Encoder for the ffmpeg binary at bin. An empty bin
// uses DefaultFFmpegPath.
func NewEncoder(bin string) *Encoder {
	if bin == "" {
		bin = DefaultFFmpegPath
	}
	return &Encoder{bin: bin, run: execRun}
}

// Binary returns the configured ffmpeg path.
func (e *Encoder) Binary() string { return e.bin }

// Encode runs ffmpeg for req and returns the produced bytes.
func (e *Encoder) Encode(ctx context.Context, req transcode.Request) ([]byte, error) {
	args, err := Args(req)
	if err != nil {
		return nil, err
	}
	var stdin io.Reader
	if req.SourcePath == "" {
		stdin = bytes.NewReader(req.Input)
	}
	out, err := e.run(ctx, e.bin, args, stdin)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &RunError{Tool: e.bin, Err: ErrEmptyOutput}
	}
	return out, nil
}

// Args builds the ffmpeg argument list for req. Input is read from
// SourcePath when set, otherwise from stdin; output always goes to stdout.
func Args(req transcode.Request) ([]string, error) {
	cfg := req.Config
	if err := media.Validate(cfg.Container, cfg.VideoCodec, cfg.AudioCodec); err != nil {
		return nil, err
	}

	args := []string{"-hide_banner", "-loglevel", "error"}
	if req.SourcePath != "" {
		args = append(args, "-nostdin", "-i", req.SourcePath)
	} else {
		args = append(args, "-i", "pipe:0")
	}

	muxer, muxerArgs := cfg.Container.Muxer()
	args = append(args, "-f", muxer)
	args = append(args, muxerArgs...)

	args = append(args, "-c:v", cfg.VideoCodec.Encoder())
	if r, ok := cfg.VideoCodec.Quality(); ok && cfg.VideoQuality.Valid {
		args = append(args, "-"+r.Flag, formatLevel(cfg.VideoQuality.Value))
	}
	args = append(args, cfg.VideoCodec.ExtraArgs()...)

	if cfg.Size != "" {
		size, err := transcode.ParseSize(cfg.Size)
		if err != nil {
			return nil, err
		}
		args = append(args, "-vf", ScaleFilter(size))
	}

	if cfg.Muted() {
		args = append(args, "-an")
	} else {
		args = append(args, "-c:a", cfg.AudioCodec.Encoder())
		if r, ok := cfg.AudioCodec.Quality(); ok && cfg.AudioQuality.Valid {
			args = append(args, "-"+r.Flag, formatLevel(cfg.AudioQuality.Value))
		}
	}

	return append(args, "pipe:1"), nil
}

// ScaleFilter renders size as an ffmpeg scale filter. A missing axis keeps
// the aspect ratio rounded to an even number of pixels.
func ScaleFilter(size transcode.Size) string {
	if size.Percent > 0 {
		f := strconv.FormatFloat(float64(size.Percent)/100, 'f', -1, 64)
		return fmt.Sprintf("scale=trunc(iw*%s/2)*2:trunc(ih*%s/2)*2", f, f)
	}
	w, h := "-2", "-2"
	if size.Width > 0 {
		w = strconv.Itoa(size.Width)
	}
	if size.Height > 0 {
		h = strconv.Itoa(size.Height)
	}
	return "scale=" + w + ":" + h
}

func formatLevel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
