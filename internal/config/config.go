package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Detection contains scene detection tuning.
type Detection struct {
	// Threshold is the fraction of probe pixels that must change before a
	// frame starts a new scene. A frame scoring exactly at the threshold
	// does not trigger.
	Threshold float64 `toml:"threshold"`
	// PixelTolerance is the absolute grayscale delta (0-255) a pixel must
	// exceed to count as changed.
	PixelTolerance int `toml:"pixel_tolerance"`
	// MinSceneGap is the minimum spacing between captured scenes in seconds.
	MinSceneGap float64 `toml:"min_scene_gap"`
	// SampleStep analyzes every Nth frame. Frame zero is always analyzed.
	SampleStep int `toml:"sample_step"`
	// ProbeWidth and ProbeHeight are the grayscale comparison dimensions.
	// Keyframes keep the source resolution.
	ProbeWidth  int `toml:"probe_width"`
	ProbeHeight int `toml:"probe_height"`
}

// Output contains the layout of a generated storyboard directory.
type Output struct {
	FramesDir    string `toml:"frames_dir"`
	DocumentName string `toml:"document_name"`
	// ImageQuality maps to ffmpeg -q:v for the extracted keyframes (1-31,
	// lower is better).
	ImageQuality int `toml:"image_quality"`
}

// Tools names the external binaries the pipeline shells out to.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the storyboard tool.
//
// Configuration sections by subsystem:
//   - Detection: scene change threshold and probe tuning
//   - Output: generated directory layout and keyframe quality
//   - Tools: ffmpeg/ffprobe executable names or paths
//   - Logging: log format and level
type Config struct {
	Detection Detection `toml:"detection"`
	Output    Output    `toml:"output"`
	Tools     Tools     `toml:"tools"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/storyboard/config.toml")
}

// Load locates, parses, and validates a configuration file. Missing files are
// not an error; defaults apply. The returned values are the effective config,
// the resolved path, and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/storyboard/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("storyboard.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// FFmpegBinary returns the ffmpeg executable name or path.
func (c *Config) FFmpegBinary() string {
	if name := strings.TrimSpace(c.Tools.FFmpeg); name != "" {
		return name
	}
	return defaultFFmpegBinary
}

// FFprobeBinary returns the ffprobe executable name or path.
func (c *Config) FFprobeBinary() string {
	if name := strings.TrimSpace(c.Tools.FFprobe); name != "" {
		return name
	}
	return defaultFFprobeBinary
}

// MinSceneGapDuration returns detection.min_scene_gap as a time.Duration.
func (c *Config) MinSceneGapDuration() time.Duration {
	return time.Duration(c.Detection.MinSceneGap * float64(time.Second))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
