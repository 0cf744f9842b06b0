package storyboard

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayTitle derives the storyboard heading from the video file name.
// Separator punctuation collapses to single spaces and words are
// title-cased; a name with nothing usable falls back to a generic heading.
func DisplayTitle(videoPath string) string {
	if videoPath == "" {
		return "Video Storyboard"
	}
	base := filepath.Base(videoPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Video Storyboard"
	}
	return cases.Title(language.Und).String(title)
}
