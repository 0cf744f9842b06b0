package main

import (
	"testing"
)

func TestDepsCommandReportsAvailableTools(t *testing.T) {
	isolateHome(t)
	ffmpeg, ffprobe := stubTools(t)
	cfgPath := writeCLIConfig(t, ffmpeg, ffprobe)

	stdout, _, err := runCLI(t, []string{"deps"}, cfgPath)
	if err != nil {
		t.Fatalf("deps failed: %v", err)
	}
	requireContains(t, stdout, "FFmpeg: OK (ffmpeg version 7.0-test)")
	requireContains(t, stdout, "FFprobe: OK (ffprobe version 7.0-test)")
}

func TestDepsCommandFailsWhenToolsMissing(t *testing.T) {
	isolateHome(t)
	cfgPath := writeCLIConfig(t, "/nonexistent/ffmpeg", "/nonexistent/ffprobe")

	stdout, _, err := runCLI(t, []string{"deps"}, cfgPath)
	if err == nil {
		t.Fatal("expected error when tools are missing")
	}
	requireContains(t, err.Error(), "2 required tool(s) missing")
	requireContains(t, stdout, "FFmpeg: MISSING")
	requireContains(t, stdout, "FFprobe: MISSING")
}
