package preflight

import (
	"context"
	"fmt"

	"github.com/damiansian/notebook-storyboards/internal/config"
	"github.com/damiansian/notebook-storyboards/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks a generate run depends on: external tools plus
// writability of the output target. outputDir may name a directory that does
// not exist yet; its nearest existing ancestor is checked instead.
func RunAll(ctx context.Context, cfg *config.Config, outputDir string) []Result {
	if cfg == nil {
		return nil
	}

	results := CheckTools(ctx, cfg)
	if outputDir != "" {
		results = append(results, CheckOutputTarget("Output directory", outputDir))
	}
	return results
}

// CheckTools converts tool availability statuses into preflight results.
func CheckTools(ctx context.Context, cfg *config.Config) []Result {
	statuses := deps.Check(ctx, cfg)
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		result := Result{Name: status.Name, Passed: status.Available}
		switch {
		case status.Available && status.Version != "":
			result.Detail = status.Version
		case status.Available:
			result.Detail = status.Command
		default:
			result.Detail = status.Detail
		}
		results = append(results, result)
	}
	return results
}

// Failed reports whether any non-optional check did not pass.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return true
		}
	}
	return false
}

// Summarize renders failures into a single error, or nil when everything passed.
func Summarize(results []Result) error {
	for _, result := range results {
		if !result.Passed {
			return fmt.Errorf("%s: %s", result.Name, result.Detail)
		}
	}
	return nil
}
