package config

import (
	"path"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeDetection()
	c.normalizeOutput()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeDetection() {
	if c.Detection.Threshold == 0 {
		c.Detection.Threshold = defaultThreshold
	}
	if c.Detection.PixelTolerance == 0 {
		c.Detection.PixelTolerance = defaultPixelTolerance
	}
	if c.Detection.MinSceneGap == 0 {
		c.Detection.MinSceneGap = defaultMinSceneGap
	}
	if c.Detection.SampleStep == 0 {
		c.Detection.SampleStep = defaultSampleStep
	}
	if c.Detection.ProbeWidth == 0 {
		c.Detection.ProbeWidth = defaultProbeWidth
	}
	if c.Detection.ProbeHeight == 0 {
		c.Detection.ProbeHeight = defaultProbeHeight
	}
}

func (c *Config) normalizeOutput() {
	c.Output.FramesDir = normalizeRelDir(c.Output.FramesDir, defaultFramesDir)
	c.Output.DocumentName = strings.TrimSpace(c.Output.DocumentName)
	if c.Output.DocumentName == "" {
		c.Output.DocumentName = defaultDocumentName
	}
	if c.Output.ImageQuality == 0 {
		c.Output.ImageQuality = defaultImageQuality
	}
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeRelDir cleans a slash-separated relative directory. Document-relative
// image references reuse this value verbatim, so it always uses forward slashes.
func normalizeRelDir(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	cleaned := path.Clean(strings.ReplaceAll(trimmed, "\\", "/"))
	if cleaned == "." || cleaned == "/" {
		return fallback
	}
	return strings.TrimPrefix(cleaned, "./")
}
