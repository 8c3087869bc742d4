package options

import (
	"errors"
	"fmt"
	"strings"
)

// Grammar and merge errors.
var (
	ErrUnknownCodecName    = errors.New("options: unknown codec name")
	ErrDuplicateVideoCodec = errors.New("options: more than one video codec")
	ErrDuplicateAudioCodec = errors.New("options: more than one audio codec")
	ErrTooManyCodecTokens  = errors.New("options: too many codec tokens")
	ErrInvalidQuality      = errors.New("options: invalid quality")
	ErrEmptyOutputList     = errors.New("options: no output files configured")
)

// GrammarError reports a malformed output spec string.
type GrammarError struct {
	Output string
	Err    error
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("options: output %q: %v", e.Output, e.Err)
}

func (e *GrammarError) Unwrap() error { return e.Err }

// InvalidBooleanError reports a boolean option with a value other than
// "", "true" or "false".
type InvalidBooleanError struct {
	Key   string
	Value string
}

func (e *InvalidBooleanError) Error() string {
	return fmt.Sprintf("options: %s=%q is not a valid boolean", e.Key, e.Value)
}

// UnsupportedOptionsError lists every unrecognized override key.
type UnsupportedOptionsError struct {
	Keys []string
}

func (e *UnsupportedOptionsError) Error() string {
	noun := "options are"
	if len(e.Keys) == 1 {
		noun = "option is"
	}
	return fmt.Sprintf("options: %s %s not supported", strings.Join(e.Keys, ", "), noun)
}

// MalformedQueryError reports an override string that is not valid query
// syntax, such as a bad percent escape or a ";" separator.
type MalformedQueryError struct {
	Query string
	Err   error
}

func (e *MalformedQueryError) Error() string {
	return fmt.Sprintf("options: malformed override %q: %v", e.Query, e.Err)
}

func (e *MalformedQueryError) Unwrap() error { return e.Err }
