// Package ffmpeg runs the ffmpeg and ffprobe binaries as the encoder and
// stream probe of a build.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Default binary names, resolved through PATH.
const (
	DefaultFFmpegPath  = "ffmpeg"
	DefaultFFprobePath = "ffprobe"
)

// maxDiagnostics bounds the stderr tail kept on a RunError.
const maxDiagnostics = 8 << 10

// ErrEmptyOutput is returned when a tool exits cleanly without writing
// anything to stdout.
var ErrEmptyOutput = errors.New("ffmpeg: tool produced no output")

// RunError reports a failed tool invocation together with the tail of its
// stderr.
type RunError struct {
	Tool   string
	Err    error
	Stderr string
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("ffmpeg: %s failed: %v", e.Tool, e.Err)
	if e.Stderr != "" {
		msg += ": " + lastLine(e.Stderr)
	}
	return msg
}

func (e *RunError) Unwrap() error { return e.Err }

// Diagnostics returns the captured stderr.
func (e *RunError) Diagnostics() string { return e.Stderr }

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// runFunc executes name with args, feeding stdin and returning stdout.
type runFunc func(ctx context.Context, name string, args []string, stdin io.Reader) (stdout []byte, err error)

func execRun(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = errors.Join(ctx.Err(), err)
		}
		return nil, &RunError{Tool: name, Err: err, Stderr: tail(stderr.String())}
	}
	return stdout.Bytes(), nil
}

func tail(s string) string {
	if len(s) <= maxDiagnostics {
		return s
	}
	return s[len(s)-maxDiagnostics:]
}
