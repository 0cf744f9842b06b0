package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDetection() error {
	if c.Detection.Threshold <= 0 || c.Detection.Threshold > 1 {
		return fmt.Errorf("detection.threshold must be in (0, 1], got %v", c.Detection.Threshold)
	}
	if c.Detection.PixelTolerance < 0 || c.Detection.PixelTolerance > 255 {
		return fmt.Errorf("detection.pixel_tolerance must be between 0 and 255, got %d", c.Detection.PixelTolerance)
	}
	if c.Detection.MinSceneGap < 0 {
		return errors.New("detection.min_scene_gap must not be negative")
	}
	if c.Detection.SampleStep < 1 {
		return fmt.Errorf("detection.sample_step must be at least 1, got %d", c.Detection.SampleStep)
	}
	if c.Detection.ProbeWidth < 16 || c.Detection.ProbeHeight < 16 {
		return fmt.Errorf("detection.probe_width/probe_height must be at least 16, got %dx%d",
			c.Detection.ProbeWidth, c.Detection.ProbeHeight)
	}
	return nil
}

func (c *Config) validateOutput() error {
	framesDir := c.Output.FramesDir
	if framesDir == "" {
		return errors.New("output.frames_dir must be set")
	}
	if path.IsAbs(framesDir) || framesDir == ".." || strings.HasPrefix(framesDir, "../") {
		return fmt.Errorf("output.frames_dir must stay inside the output directory, got %q", framesDir)
	}
	name := c.Output.DocumentName
	if name == "" {
		return errors.New("output.document_name must be set")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("output.document_name must be a bare file name, got %q", name)
	}
	if c.Output.ImageQuality < 1 || c.Output.ImageQuality > 31 {
		return fmt.Errorf("output.image_quality must be between 1 and 31, got %d", c.Output.ImageQuality)
	}
	return nil
}

func (c *Config) validateTools() error {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		return errors.New("tools.ffmpeg must be set")
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		return errors.New("tools.ffprobe must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
