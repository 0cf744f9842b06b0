// Package storyboard converts a video and its transcript into a static
// HTML storyboard: one keyframe image plus the spoken text for every
// detected scene.
package storyboard

import (
	"time"

	"github.com/damiansian/notebook-storyboards/internal/captions"
)

// Scene is one detected visual state of the video.
type Scene struct {
	// Index is the zero-based detection order.
	Index int
	// Timestamp is the presentation time of the captured keyframe. Scene 0
	// is always pinned to zero.
	Timestamp time.Duration
	// Image is the keyframe file name within the frames directory.
	Image string
	// Score is the changed-pixel fraction that triggered the capture.
	// Scene 0 has no trigger and reports zero.
	Score float64
}

// SceneRecord pairs a scene with the cues spoken during it.
type SceneRecord struct {
	Scene Scene
	Cues  []captions.Cue
}

// Request describes one conversion run.
type Request struct {
	VideoPath   string
	CaptionPath string
	OutputDir   string
	// Threshold overrides the configured detection threshold when positive.
	Threshold float64
}

// Result reports what a completed run produced.
type Result struct {
	// Title is the storyboard heading derived from the video file name.
	Title   string
	Records []SceneRecord
	// Warnings lists recovered conditions; the run still succeeded.
	Warnings []Warning
	// DocumentPath is the published HTML file.
	DocumentPath string
	// FramesDir is the published keyframe directory.
	FramesDir string
	// FramesScanned counts the sampled frames examined by detection.
	FramesScanned int
	// VideoDuration is the container duration reported by the probe.
	VideoDuration time.Duration
}

// Scenes returns the detected scenes in order.
func (r Result) Scenes() []Scene {
	scenes := make([]Scene, len(r.Records))
	for i, record := range r.Records {
		scenes[i] = record.Scene
	}
	return scenes
}

// CueCount returns the number of cues across all records.
func (r Result) CueCount() int {
	total := 0
	for _, record := range r.Records {
		total += len(record.Cues)
	}
	return total
}
