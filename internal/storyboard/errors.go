package storyboard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInputNotFound = errors.New("input not found")
	ErrCaptionParse  = errors.New("caption parse error")
	ErrVideoRead     = errors.New("video read error")
	ErrWrite         = errors.New("write error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, message string, err error) error {
	detail := buildDetail(stage, message)
	if marker == nil {
		marker = ErrWrite
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to its stable taxonomy name for presentation.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInputNotFound):
		return "InputNotFound"
	case errors.Is(err, ErrCaptionParse):
		return "ParseError"
	case errors.Is(err, ErrVideoRead):
		return "VideoReadError"
	case errors.Is(err, ErrWrite):
		return "WriteError"
	default:
		return "InternalError"
	}
}

func buildDetail(stage, message string) string {
	parts := make([]string, 0, 2)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}

// WarnFrameDecode marks a frame that could not be decoded and was skipped.
const WarnFrameDecode = "FrameDecodeWarning"

// Warning records a recoverable condition observed mid-run. Warnings never
// stop the run; callers may surface them as a summary.
type Warning struct {
	Class  string
	Detail string
}

func (w Warning) String() string {
	if w.Detail == "" {
		return w.Class
	}
	return w.Class + ": " + w.Detail
}
