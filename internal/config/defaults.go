package config

const (
	defaultThreshold      = 0.01
	defaultPixelTolerance = 30
	defaultMinSceneGap    = 1.0
	defaultSampleStep     = 2
	defaultProbeWidth     = 640
	defaultProbeHeight    = 360
	defaultFramesDir      = "assets/frames"
	defaultDocumentName   = "storyboard.html"
	defaultImageQuality   = 2
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Detection: Detection{
			Threshold:      defaultThreshold,
			PixelTolerance: defaultPixelTolerance,
			MinSceneGap:    defaultMinSceneGap,
			SampleStep:     defaultSampleStep,
			ProbeWidth:     defaultProbeWidth,
			ProbeHeight:    defaultProbeHeight,
		},
		Output: Output{
			FramesDir:    defaultFramesDir,
			DocumentName: defaultDocumentName,
			ImageQuality: defaultImageQuality,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
