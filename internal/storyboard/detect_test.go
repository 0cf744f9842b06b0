package storyboard

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/damiansian/notebook-storyboards/internal/media/frames"
	"github.com/damiansian/notebook-storyboards/internal/testsupport"
)

type stubItem struct {
	frame frames.Frame
	err   error
}

type stubSource struct {
	items []stubItem
	pos   int
}

func (s *stubSource) Next() (frames.Frame, error) {
	if s.pos >= len(s.items) {
		return frames.Frame{}, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item.frame, item.err
}

func goodFrame(index int, ts time.Duration, img image.Image, data string) stubItem {
	return stubItem{frame: frames.Frame{Index: index, Timestamp: ts, Image: img, Data: []byte(data)}}
}

func badFrame(index int) stubItem {
	return stubItem{
		frame: frames.Frame{Index: index},
		err:   fmt.Errorf("%w: frame %d: bad segment", frames.ErrFrameDecode, index),
	}
}

func defaultOptions() DetectOptions {
	return DetectOptions{
		Threshold:      0.01,
		PixelTolerance: 30,
		MinSceneGap:    time.Second,
		ProbeWidth:     10,
		ProbeHeight:    10,
	}
}

func TestDetectScenesFirstFrameIsAlwaysSceneZero(t *testing.T) {
	img := testsupport.UniformFrame(64, 36, 40)
	src := &stubSource{items: []stubItem{
		goodFrame(0, 0, img, "jpeg-0"),
		goodFrame(1, time.Second, img, "jpeg-1"),
		goodFrame(2, 2*time.Second, img, "jpeg-2"),
	}}
	dir := t.TempDir()

	det, err := DetectScenes(src, dir, defaultOptions())
	if err != nil {
		t.Fatalf("DetectScenes: %v", err)
	}
	if len(det.Scenes) != 1 {
		t.Fatalf("expected 1 scene for a static video, got %d", len(det.Scenes))
	}
	scene := det.Scenes[0]
	if scene.Index != 0 || scene.Timestamp != 0 || scene.Image != "frame_0000.jpg" || scene.Score != 0 {
		t.Fatalf("unexpected scene 0: %+v", scene)
	}
	data, err := os.ReadFile(filepath.Join(dir, "frame_0000.jpg"))
	if err != nil {
		t.Fatalf("read keyframe: %v", err)
	}
	if string(data) != "jpeg-0" {
		t.Fatalf("keyframe bytes = %q, want the frame's raw bytes", data)
	}
	if det.FramesScanned != 3 {
		t.Fatalf("FramesScanned = %d, want 3", det.FramesScanned)
	}
}

func TestDetectScenesCapturesDistinctChange(t *testing.T) {
	black := testsupport.UniformFrame(10, 10, 0)
	white := testsupport.UniformFrame(10, 10, 255)
	src := &stubSource{items: []stubItem{
		goodFrame(0, 0, black, "jpeg-0"),
		goodFrame(1, 5*time.Second, black, "jpeg-1"),
		goodFrame(2, 10*time.Second, white, "jpeg-2"),
	}}
	dir := t.TempDir()

	det, err := DetectScenes(src, dir, defaultOptions())
	if err != nil {
		t.Fatalf("DetectScenes: %v", err)
	}
	if len(det.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(det.Scenes))
	}
	scene := det.Scenes[1]
	if scene.Index != 1 || scene.Timestamp != 10*time.Second || scene.Image != "frame_0001.jpg" {
		t.Fatalf("unexpected scene 1: %+v", scene)
	}
	if scene.Score != 1.0 {
		t.Fatalf("black-to-white score = %v, want 1.0", scene.Score)
	}
	data, err := os.ReadFile(filepath.Join(dir, "frame_0001.jpg"))
	if err != nil {
		t.Fatalf("read keyframe: %v", err)
	}
	if string(data) != "jpeg-2" {
		t.Fatalf("keyframe bytes = %q, want the triggering frame's bytes", data)
	}
}

// Returning to an earlier look still registers: the reference is the last
// captured keyframe, so black-white-black yields three scenes with strictly
// increasing timestamps.
func TestDetectScenesTimestampsStrictlyIncrease(t *testing.T) {
	black := testsupport.UniformFrame(10, 10, 0)
	white := testsupport.UniformFrame(10, 10, 255)
	src := &stubSource{items: []stubItem{
		goodFrame(0, 0, black, "jpeg-0"),
		goodFrame(1, 2*time.Second, white, "jpeg-1"),
		goodFrame(2, 4*time.Second, black, "jpeg-2"),
	}}

	det, err := DetectScenes(src, t.TempDir(), defaultOptions())
	if err != nil {
		t.Fatalf("DetectScenes: %v", err)
	}
	if len(det.Scenes) != 3 {
		t.Fatalf("expected 3 scenes, got %d", len(det.Scenes))
	}
	for i, scene := range det.Scenes {
		if scene.Index != i {
			t.Errorf("scene %d has index %d", i, scene.Index)
		}
		if i > 0 && scene.Timestamp <= det.Scenes[i-1].Timestamp {
			t.Errorf("scene %d at %v, not after %v", i, scene.Timestamp, det.Scenes[i-1].Timestamp)
		}
	}
}

// A score exactly at the threshold must not trigger; only strictly greater
// scores do.
func TestDetectScenesThresholdBoundaryIsStrict(t *testing.T) {
	opts := defaultOptions()
	opts.Threshold = 0.5
	opts.ProbeWidth = 100
	opts.ProbeHeight = 1

	base := testsupport.UniformFrame(100, 1, 0)
	half := testsupport.SplitFrame(100, 1, 0.50, 255, 0)
	justOver := testsupport.SplitFrame(100, 1, 0.51, 255, 0)
	src := &stubSource{items: []stubItem{
		goodFrame(0, 0, base, "jpeg-0"),
		goodFrame(1, 2*time.Second, half, "jpeg-1"),
		goodFrame(2, 4*time.Second, justOver, "jpeg-2"),
	}}

	det, err := DetectScenes(src, t.TempDir(), opts)
	if err != nil {
		t.Fatalf("DetectScenes: %v", err)
	}
	if len(det.Scenes) != 2 {
		t.Fatalf("expected exactly-at-threshold frame to be skipped and the next captured, got %d scenes", len(det.Scenes))
	}
	if det.Scenes[1].Timestamp != 4*time.Second {
		t.Fatalf("scene 1 at %v, want 4s", det.Scenes[1].Timestamp)
	}
	if det.Scenes[1].Score != 0.51 {
		t.Fatalf("scene 1 score = %v, want 0.51", det.Scenes[1].Score)
	}
}

// The reference only advances when a scene is captured: a change suppressed
// by the minimum gap still triggers later because it keeps diffing against
// the last captured keyframe.
func TestDetectScenesMinGapSuppressesAndReferenceHolds(t *testing.T) {
	black := testsupport.UniformFrame(10, 10, 0)
	white := testsupport.UniformFrame(10, 10, 255)
	src := &stubSource{items: []stubItem{
		goodFrame(0, 0, black, "jpeg-0"),
		goodFrame(1, 500*time.Millisecond, white, "jpeg-1"),
		goodFrame(2, 2*time.Second, white, "jpeg-2"),
	}}

	det, err := DetectScenes(src, t.TempDir(), defaultOptions())
	if err != nil {
		t.Fatalf("DetectScenes: %v", err)
	}
	if len(det.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(det.Scenes))
	}
	if det.Scenes[1].Timestamp != 2*time.Second {
		t.Fatalf("scene 1 at %v, want the frame after the gap", det.Scenes[1].Timestamp)
	}
}

func TestDetectScenesGapBoundaryIsStrict(t *testing.T) {
	black := testsupport.UniformFrame(10, 10, 0)
	white := testsupport.UniformFrame(10, 10, 255)
	src := &stubSource{items: []stubItem{
		goodFrame(0, 0, black, "jpeg-0"),
		goodFrame(1, time.Second, white, "jpeg-1"),
		goodFrame(2, 2500*time.Millisecond, white, "jpeg-2"),
	}}

	det, err := DetectScenes(src, t.TempDir(), defaultOptions())
	if err != nil {
		t.Fatalf("DetectScenes: %v", err)
	}
	if len(det.Scenes) != 2 {
		t.Fatalf("expected a gap exactly at the minimum to suppress, got %d scenes", len(det.Scenes))
	}
	if det.Scenes[1].Timestamp != 2500*time.Millisecond {
		t.Fatalf("scene 1 at %v, want 2.5s", det.Scenes[1].Timestamp)
	}
}

func TestDetectScenesSkipsUndecodableFrames(t *testing.T) {
	black := testsupport.UniformFrame(10, 10, 0)
	white := testsupport.UniformFrame(10, 10, 255)
	src := &stubSource{items: []stubItem{
		goodFrame(0, 0, black, "jpeg-0"),
		badFrame(1),
		goodFrame(2, 2*time.Second, white, "jpeg-2"),
	}}

	det, err := DetectScenes(src, t.TempDir(), defaultOptions())
	if err != nil {
		t.Fatalf("DetectScenes: %v", err)
	}
	if len(det.Scenes) != 2 {
		t.Fatalf("expected detection to continue past a bad frame, got %d scenes", len(det.Scenes))
	}
	if len(det.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(det.Warnings))
	}
	warning := det.Warnings[0]
	if warning.Class != WarnFrameDecode || !strings.Contains(warning.Detail, "frame 1") {
		t.Fatalf("unexpected warning: %+v", warning)
	}
	if det.FramesScanned != 2 {
		t.Fatalf("FramesScanned = %d, want 2", det.FramesScanned)
	}
}

func TestDetectScenesFirstDecodableFramePinnedToZero(t *testing.T) {
	white := testsupport.UniformFrame(10, 10, 255)
	src := &stubSource{items: []stubItem{
		badFrame(0),
		goodFrame(1, 1500*time.Millisecond, white, "jpeg-1"),
	}}

	det, err := DetectScenes(src, t.TempDir(), defaultOptions())
	if err != nil {
		t.Fatalf("DetectScenes: %v", err)
	}
	if len(det.Scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(det.Scenes))
	}
	if det.Scenes[0].Timestamp != 0 {
		t.Fatalf("scene 0 timestamp = %v, want 0", det.Scenes[0].Timestamp)
	}
}

func TestDetectScenesNoDecodableFrames(t *testing.T) {
	src := &stubSource{items: []stubItem{badFrame(0), badFrame(1)}}

	det, err := DetectScenes(src, t.TempDir(), defaultOptions())
	if !errors.Is(err, ErrVideoRead) {
		t.Fatalf("expected ErrVideoRead, got %v", err)
	}
	if len(det.Warnings) != 2 {
		t.Fatalf("expected warnings for both frames, got %d", len(det.Warnings))
	}
}

func TestDetectScenesTerminalReadError(t *testing.T) {
	black := testsupport.UniformFrame(10, 10, 0)
	src := &stubSource{items: []stubItem{
		goodFrame(0, 0, black, "jpeg-0"),
		{err: errors.New("pipe burst")},
	}}

	_, err := DetectScenes(src, t.TempDir(), defaultOptions())
	if !errors.Is(err, ErrVideoRead) {
		t.Fatalf("expected ErrVideoRead, got %v", err)
	}
	if Classify(err) != "VideoReadError" {
		t.Fatalf("Classify = %q, want VideoReadError", Classify(err))
	}
}

func TestDetectScenesKeyframeWriteFailure(t *testing.T) {
	black := testsupport.UniformFrame(10, 10, 0)
	src := &stubSource{items: []stubItem{goodFrame(0, 0, black, "jpeg-0")}}
	missing := filepath.Join(t.TempDir(), "missing", "frames")

	_, err := DetectScenes(src, missing, defaultOptions())
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
}

func TestDiffScoreToleranceIsStrict(t *testing.T) {
	a := testsupport.UniformFrame(10, 10, 100)
	b := testsupport.UniformFrame(10, 10, 100)
	for i := 0; i < 10; i++ {
		b.Pix[i] = 130 // delta exactly at tolerance
	}
	for i := 10; i < 14; i++ {
		b.Pix[i] = 131 // delta just over
	}

	if got := diffScore(a, b, 30); got != 0.04 {
		t.Fatalf("diffScore = %v, want 0.04", got)
	}
}
