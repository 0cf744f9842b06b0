// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no storyboard-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties including the rational frame rate
//   - Format: container-level metadata (duration, size, format name)
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Helper methods on Result and Stream provide convenient access to the video
// stream, duration parsing, and frame rate extraction.
package ffprobe
