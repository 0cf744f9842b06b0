package storyboard

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/damiansian/notebook-storyboards/internal/captions"
	"github.com/damiansian/notebook-storyboards/internal/config"
	"github.com/damiansian/notebook-storyboards/internal/fileutil"
	"github.com/damiansian/notebook-storyboards/internal/media/ffprobe"
	"github.com/damiansian/notebook-storyboards/internal/media/frames"
	"github.com/damiansian/notebook-storyboards/internal/staging"
)

// Generate runs one full conversion: parse captions, detect scenes, align,
// render, publish. All work happens in a staging directory next to the
// output directory; the output directory appears only on full success, via a
// single rename. Generate performs no logging or printing; recovered
// conditions come back as Result.Warnings.
//
// Concurrent runs against the same output directory are rejected through a
// lock file next to it. An existing output directory is replaced only when
// it is empty or contains a previous storyboard document.
func Generate(ctx context.Context, cfg *config.Config, req Request) (Result, error) {
	var result Result

	if err := statInput(req.VideoPath, "video"); err != nil {
		return result, err
	}
	if err := statInput(req.CaptionPath, "captions"); err != nil {
		return result, err
	}

	cues, err := captions.ParseFile(req.CaptionPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return result, Wrap(ErrInputNotFound, "captions", req.CaptionPath, err)
		}
		return result, Wrap(ErrCaptionParse, "captions", req.CaptionPath, err)
	}

	probe, err := ffprobe.Inspect(ctx, cfg.FFprobeBinary(), req.VideoPath)
	if err != nil {
		return result, Wrap(ErrVideoRead, "probe", req.VideoPath, err)
	}
	stream, ok := probe.VideoStream()
	if !ok {
		return result, Wrap(ErrVideoRead, "probe", "no video stream in "+req.VideoPath, nil)
	}
	rate, ok := stream.FrameRate()
	if !ok {
		return result, Wrap(ErrVideoRead, "probe", "frame rate unavailable for "+req.VideoPath, nil)
	}

	outputDir, err := filepath.Abs(req.OutputDir)
	if err != nil {
		return result, Wrap(ErrWrite, "publish", "resolve output path "+req.OutputDir, err)
	}
	parent := filepath.Dir(outputDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return result, Wrap(ErrWrite, "publish", "create output parent "+parent, err)
	}

	lock := flock.New(outputDir + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return result, Wrap(ErrWrite, "publish", "acquire lock for "+outputDir, err)
	}
	if !locked {
		return result, Wrap(ErrWrite, "publish", "another run is already writing "+outputDir, nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := checkReplaceable(outputDir, cfg.Output.DocumentName); err != nil {
		return result, err
	}

	stagingDir, err := staging.Create(parent)
	if err != nil {
		return result, Wrap(ErrWrite, "publish", "", err)
	}
	// A no-op after the publish rename; on failure it removes partial output.
	defer func() {
		_ = os.RemoveAll(stagingDir)
	}()

	framesRel := path.Clean(cfg.Output.FramesDir)
	framesDir := filepath.Join(stagingDir, filepath.FromSlash(framesRel))
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return result, Wrap(ErrWrite, "publish", "create frames directory", err)
	}

	threshold := cfg.Detection.Threshold
	if req.Threshold > 0 {
		threshold = req.Threshold
	}

	src, err := frames.Open(ctx, frames.OpenOptions{
		Binary:  cfg.FFmpegBinary(),
		Path:    req.VideoPath,
		Rate:    rate,
		Step:    cfg.Detection.SampleStep,
		Quality: cfg.Output.ImageQuality,
	})
	if err != nil {
		return result, Wrap(ErrVideoRead, "decode", "start ffmpeg", err)
	}
	det, detectErr := DetectScenes(src, framesDir, DetectOptions{
		Threshold:      threshold,
		PixelTolerance: cfg.Detection.PixelTolerance,
		MinSceneGap:    cfg.MinSceneGapDuration(),
		ProbeWidth:     cfg.Detection.ProbeWidth,
		ProbeHeight:    cfg.Detection.ProbeHeight,
	})
	closeErr := src.Close()
	if detectErr != nil {
		return result, detectErr
	}
	if closeErr != nil {
		// A decoder that failed mid-video would leave a storyboard that
		// silently covers only part of it.
		return result, Wrap(ErrVideoRead, "decode", req.VideoPath, closeErr)
	}

	records := Align(det.Scenes, cues)
	title := DisplayTitle(req.VideoPath)

	docPath := filepath.Join(stagingDir, cfg.Output.DocumentName)
	doc, err := os.Create(docPath)
	if err != nil {
		return result, Wrap(ErrWrite, "render", "create document", err)
	}
	renderErr := RenderHTML(doc, title, framesRel, records)
	if closeErr := doc.Close(); renderErr == nil {
		renderErr = closeErr
	}
	if renderErr != nil {
		return result, Wrap(ErrWrite, "render", cfg.Output.DocumentName, renderErr)
	}

	if err := os.RemoveAll(outputDir); err != nil {
		return result, Wrap(ErrWrite, "publish", "remove previous output "+outputDir, err)
	}
	if err := fileutil.MoveDir(stagingDir, outputDir); err != nil {
		return result, Wrap(ErrWrite, "publish", outputDir, err)
	}

	result = Result{
		Title:         title,
		Records:       records,
		Warnings:      det.Warnings,
		DocumentPath:  filepath.Join(outputDir, cfg.Output.DocumentName),
		FramesDir:     filepath.Join(outputDir, filepath.FromSlash(framesRel)),
		FramesScanned: det.FramesScanned,
		VideoDuration: probe.Duration(),
	}
	return result, nil
}

// statInput verifies that an input path names an existing regular file.
func statInput(inputPath, kind string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return Wrap(ErrInputNotFound, kind, inputPath, err)
	}
	if info.IsDir() {
		return Wrap(ErrInputNotFound, kind, inputPath+" is a directory", nil)
	}
	return nil
}

// checkReplaceable refuses to overwrite a directory that does not look like
// a previous storyboard run, so a mistyped output path cannot clobber
// unrelated files.
func checkReplaceable(outputDir, documentName string) error {
	entries, err := os.ReadDir(outputDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return Wrap(ErrWrite, "publish", "inspect existing output "+outputDir, err)
	}
	if len(entries) == 0 {
		return nil
	}
	for _, entry := range entries {
		if entry.Name() == documentName && !entry.IsDir() {
			return nil
		}
	}
	return Wrap(ErrWrite, "publish", outputDir+" exists and is not a storyboard; refusing to replace it", nil)
}
