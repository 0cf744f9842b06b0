package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/damiansian/notebook-storyboards/internal/testsupport"
)

// runCLI executes the command tree with args and returns stdout, stderr, and
// the execution error. configPath, when set, is passed via --config.
func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// isolateHome points HOME at a fresh directory so a developer's real config
// file can never leak into a test run.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

// writeCLIConfig writes a minimal config file pointing the tools at the given
// binaries, tuned so the synthetic fixtures analyze quickly and quietly.
func writeCLIConfig(t *testing.T, ffmpeg, ffprobe string) string {
	t.Helper()

	content := fmt.Sprintf(`[detection]
sample_step = 1
probe_width = 16
probe_height = 16

[tools]
ffmpeg = %q
ffprobe = %q

[logging]
level = "error"
`, ffmpeg, ffprobe)
	return testsupport.WriteText(t, filepath.Join(t.TempDir(), "storyboard.toml"), content)
}

const cliProbeJSON = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "mjpeg", "width": 64, "height": 36, "r_frame_rate": "1/1", "avg_frame_rate": "1/1", "nb_frames": "4"}
  ],
  "format": {"duration": "4.000000", "size": "9000"}
}`

// stubTools writes ffmpeg and ffprobe stand-ins. Both answer -version; the
// ffmpeg stub otherwise replays the MJPEG fixture named by
// STORYBOARD_TEST_STREAM, and the ffprobe stub prints canned container JSON.
func stubTools(t *testing.T) (ffmpeg, ffprobe string) {
	t.Helper()

	binDir := t.TempDir()
	ffmpeg = testsupport.WriteStub(t, binDir, "ffmpeg", `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffmpeg version 7.0-test"
  exit 0
fi
cat "$STORYBOARD_TEST_STREAM"
`)
	ffprobe = testsupport.WriteStub(t, binDir, "ffprobe", `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffprobe version 7.0-test"
  exit 0
fi
cat <<'EOF'
`+cliProbeJSON+`
EOF
`)
	return ffmpeg, ffprobe
}

// writeFixtureStream builds a four frame MJPEG fixture, two black then two
// white, and exports it via STORYBOARD_TEST_STREAM for the ffmpeg stub.
func writeFixtureStream(t *testing.T) {
	t.Helper()

	black := testsupport.UniformFrame(64, 36, 0)
	white := testsupport.UniformFrame(64, 36, 255)
	stream := testsupport.MJPEGStream(t, black, black, white, white)

	fixture := filepath.Join(t.TempDir(), "stream.mjpeg")
	if err := os.WriteFile(fixture, stream, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("STORYBOARD_TEST_STREAM", fixture)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
