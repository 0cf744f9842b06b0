package storyboard

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nfnt/resize"

	"github.com/damiansian/notebook-storyboards/internal/media/frames"
)

// FrameSource yields sampled video frames in presentation order.
type FrameSource interface {
	Next() (frames.Frame, error)
}

// DetectOptions tune scene detection. The config package supplies validated
// values; all fields must be positive.
type DetectOptions struct {
	// Threshold is the changed-pixel fraction above which a frame becomes a
	// new scene. The comparison is strict: a score exactly at the threshold
	// does not trigger.
	Threshold float64
	// PixelTolerance is the grayscale delta above which a pixel counts as
	// changed.
	PixelTolerance int
	// MinSceneGap suppresses captures closer than this to the last captured
	// scene, so slow transitions do not emit near-duplicate keyframes.
	MinSceneGap time.Duration
	// ProbeWidth and ProbeHeight give the downscaled comparison size.
	ProbeWidth  int
	ProbeHeight int
}

// Detection is the outcome of a detection pass.
type Detection struct {
	Scenes   []Scene
	Warnings []Warning
	// FramesScanned counts the decodable frames examined.
	FramesScanned int
}

// DetectScenes walks src in presentation order, scores each sampled frame
// against the last captured keyframe, and writes one keyframe file per scene
// into framesDir. The first decodable frame always becomes scene 0, pinned to
// timestamp zero. Comparing against the last capture rather than the previous
// frame makes gradual accumulation (slides building up element by element)
// eventually trigger, at the cost of missing an A-B-A bounce back to the
// captured state.
func DetectScenes(src FrameSource, framesDir string, opts DetectOptions) (Detection, error) {
	var det Detection
	var reference *image.Gray
	var lastCapture time.Duration

	for {
		frame, err := src.Next()
		if err == io.EOF {
			break
		}
		if errors.Is(err, frames.ErrFrameDecode) {
			det.Warnings = append(det.Warnings, Warning{Class: WarnFrameDecode, Detail: err.Error()})
			continue
		}
		if err != nil {
			return det, Wrap(ErrVideoRead, "detect", "read frame", err)
		}
		det.FramesScanned++

		probe := grayProbe(frame.Image, opts.ProbeWidth, opts.ProbeHeight)
		if reference == nil {
			scene, err := captureScene(framesDir, 0, 0, 0, frame.Data)
			if err != nil {
				return det, err
			}
			det.Scenes = append(det.Scenes, scene)
			reference = probe
			lastCapture = 0
			continue
		}

		score := diffScore(probe, reference, opts.PixelTolerance)
		if score > opts.Threshold && frame.Timestamp-lastCapture > opts.MinSceneGap {
			scene, err := captureScene(framesDir, len(det.Scenes), frame.Timestamp, score, frame.Data)
			if err != nil {
				return det, err
			}
			det.Scenes = append(det.Scenes, scene)
			reference = probe
			lastCapture = frame.Timestamp
		}
	}

	if reference == nil {
		return det, Wrap(ErrVideoRead, "detect", "no decodable frames", nil)
	}
	return det, nil
}

func captureScene(framesDir string, index int, timestamp time.Duration, score float64, data []byte) (Scene, error) {
	name := fmt.Sprintf("frame_%04d.jpg", index)
	if err := os.WriteFile(filepath.Join(framesDir, name), data, 0o644); err != nil {
		return Scene{}, Wrap(ErrWrite, "detect", "write keyframe "+name, err)
	}
	return Scene{Index: index, Timestamp: timestamp, Image: name, Score: score}, nil
}

// grayProbe downscales img to the comparison size and converts it to
// grayscale.
func grayProbe(img image.Image, width, height int) *image.Gray {
	scaled := resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	probe := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(probe, probe.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	return probe
}

// diffScore returns the fraction of probe pixels whose grayscale delta from
// the reference exceeds tolerance.
func diffScore(probe, reference *image.Gray, tolerance int) float64 {
	changed := 0
	for i := range probe.Pix {
		delta := int(probe.Pix[i]) - int(reference.Pix[i])
		if delta < 0 {
			delta = -delta
		}
		if delta > tolerance {
			changed++
		}
	}
	return float64(changed) / float64(len(probe.Pix))
}
