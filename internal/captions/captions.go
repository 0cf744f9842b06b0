// Package captions reads WebVTT transcript files into timed cues.
package captions

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Cue is one block of transcript text with the interval it is spoken over.
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// ParseFile reads and parses a WebVTT file from disk.
func ParseFile(path string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read captions: %w", err)
	}
	return parse(string(data))
}

// Parse reads a WebVTT document from r.
func Parse(r io.Reader) ([]Cue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read captions: %w", err)
	}
	return parse(string(data))
}

func parse(content string) ([]Cue, error) {
	content = strings.TrimPrefix(content, "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	if len(lines) == 0 || !isHeader(lines[0]) {
		return nil, fmt.Errorf("missing WEBVTT header")
	}

	var cues []Cue
	pos := 1
	for pos < len(lines) {
		for pos < len(lines) && strings.TrimSpace(lines[pos]) == "" {
			pos++
		}
		if pos == len(lines) {
			break
		}
		end := pos
		for end < len(lines) && strings.TrimSpace(lines[end]) != "" {
			end++
		}
		block := lines[pos:end]
		pos = end

		if isMetadataBlock(block[0]) {
			continue
		}
		cue, ok, err := parseCueBlock(block)
		if err != nil {
			return nil, err
		}
		if ok {
			cues = append(cues, cue)
		}
	}

	// Tracks are usually already ordered; a stable sort keeps equal starts
	// in source order while guaranteeing non-decreasing start times.
	sort.SliceStable(cues, func(i, j int) bool { return cues[i].Start < cues[j].Start })
	return cues, nil
}

// isHeader reports whether line is the required WEBVTT signature. The
// signature may carry trailing text after a space or tab.
func isHeader(line string) bool {
	if line == "WEBVTT" {
		return true
	}
	return strings.HasPrefix(line, "WEBVTT ") || strings.HasPrefix(line, "WEBVTT\t")
}

// isMetadataBlock reports whether a block is a NOTE comment or a STYLE or
// REGION definition, none of which carry cue text.
func isMetadataBlock(first string) bool {
	if first == "NOTE" || strings.HasPrefix(first, "NOTE ") || strings.HasPrefix(first, "NOTE\t") {
		return true
	}
	trimmed := strings.TrimSpace(first)
	return trimmed == "STYLE" || trimmed == "REGION"
}

// parseCueBlock converts one blank-line-delimited block into a Cue. The
// boolean is false when the block parses cleanly but yields no text.
func parseCueBlock(block []string) (Cue, bool, error) {
	timingIdx := 0
	if !strings.Contains(block[0], "-->") {
		// First line is an optional cue identifier.
		timingIdx = 1
		if len(block) < 2 || !strings.Contains(block[1], "-->") {
			return Cue{}, false, fmt.Errorf("cue block %q: missing \"-->\" timing line", block[0])
		}
	}

	parts := strings.Split(block[timingIdx], "-->")
	if len(parts) != 2 {
		return Cue{}, false, fmt.Errorf("invalid timing line %q", block[timingIdx])
	}
	start, err := parseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return Cue{}, false, err
	}
	// Anything after the end timestamp is cue settings; ignore it.
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return Cue{}, false, fmt.Errorf("invalid timing line %q", block[timingIdx])
	}
	end, err := parseTimestamp(endFields[0])
	if err != nil {
		return Cue{}, false, err
	}
	if end < start {
		return Cue{}, false, fmt.Errorf("invalid timing line %q: end precedes start", block[timingIdx])
	}

	text := strings.TrimSpace(strings.Join(block[timingIdx+1:], " "))
	if text == "" {
		return Cue{}, false, nil
	}
	return Cue{Start: start, End: end, Text: text}, true, nil
}

// parseTimestamp parses [HH:]MM:SS.mmm into a duration. Hours are optional
// and unbounded; milliseconds are exactly three digits.
func parseTimestamp(value string) (time.Duration, error) {
	var hours int
	fields := strings.Split(value, ":")
	switch len(fields) {
	case 2:
	case 3:
		h, err := strconv.Atoi(fields[0])
		if err != nil || h < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		hours = h
		fields = fields[1:]
	default:
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	secFields := strings.Split(fields[1], ".")
	if len(secFields) != 2 || len(secFields[1]) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	minutes, errM := strconv.Atoi(fields[0])
	seconds, errS := strconv.Atoi(secFields[0])
	millis, errMS := strconv.Atoi(secFields[1])
	if errM != nil || errS != nil || errMS != nil || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}
