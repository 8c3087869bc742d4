package build

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/webvideo/transcode"
)

// Sentinel errors.
var (
	ErrNilEncoder    = errors.New("build: encoder is nil")
	ErrSessionClosed = errors.New("build: session is closed")
	ErrNoContent     = errors.New("build: asset has neither content nor path")
)

// EncodeError reports a failed encoder run. Diagnostics holds whatever the
// encoder captured, typically the tail of its stderr.
type EncodeError struct {
	Index       int
	Config      transcode.Config
	Err         error
	Diagnostics string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("build: encode output %d (%s/%s): %v", e.Index, e.Config.Container, e.Config.VideoCodec, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// NameError reports a failure to render an output's file name.
type NameError struct {
	Index int
	Err   error
}

func (e *NameError) Error() string {
	return fmt.Sprintf("build: name output %d: %v", e.Index, e.Err)
}

func (e *NameError) Unwrap() error { return e.Err }

type diagnoser interface {
	Diagnostics() string
}

func newEncodeError(index int, cfg transcode.Config, err error) *EncodeError {
	ee := &EncodeError{Index: index, Config: cfg, Err: err}
	var d diagnoser
	if errors.As(err, &d) {
		ee.Diagnostics = d.Diagnostics()
	}
	return ee
}
