package transcode

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a parsed resize expression. A zero Width or Height keeps the
// source aspect ratio along that axis; Percent scales both axes.
type Size struct {
	Width   int
	Height  int
	Percent int
}

// InvalidSizeError reports a size expression that is not one of
// "WxH", "Wx?", "?xH" or "N%".
type InvalidSizeError struct {
	Value string
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("transcode: invalid size %q (want WxH, Wx?, ?xH or N%%)", e.Value)
}

// ParseSize parses a resize expression.
func ParseSize(s string) (Size, error) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		n, err := strconv.Atoi(pct)
		if err != nil || n <= 0 {
			return Size{}, &InvalidSizeError{Value: s}
		}
		return Size{Percent: n}, nil
	}

	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return Size{}, &InvalidSizeError{Value: s}
	}
	width, okW := dimension(w)
	height, okH := dimension(h)
	if !okW || !okH || (width == 0 && height == 0) {
		return Size{}, &InvalidSizeError{Value: s}
	}
	return Size{Width: width, Height: height}, nil
}

func dimension(s string) (int, bool) {
	if s == "?" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
