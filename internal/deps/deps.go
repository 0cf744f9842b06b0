// Package deps reports availability of the external tools the pipeline
// shells out to.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/damiansian/notebook-storyboards/internal/config"
)

// Requirement defines an external dependency the storyboard pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// Required returns the tool requirements for the given configuration.
func Required(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Decodes video frames for scene detection",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Reads container metadata and frame rate",
		},
	}
}

// Check evaluates the configured requirements, including tool versions for
// anything resolvable on PATH.
func Check(ctx context.Context, cfg *config.Config) []Status {
	results := CheckBinaries(Required(cfg))
	for i := range results {
		if results[i].Available {
			results[i].Version = probeVersion(ctx, results[i].Command)
		}
	}
	return results
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// probeVersion runs "<command> -version" and returns the first output line.
// Both ffmpeg and ffprobe print their build banner there.
func probeVersion(ctx context.Context, command string) string {
	out, err := exec.CommandContext(ctx, command, "-version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line)
}
