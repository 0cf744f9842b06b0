package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/damiansian/notebook-storyboards/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config backed by a unique temp directory per test.
// It starts from the package defaults and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	builder := &configBuilder{
		t:       t,
		baseDir: t.TempDir(),
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTools points the config at specific ffmpeg and ffprobe executables.
// Empty values keep the defaults.
func WithTools(ffmpeg, ffprobe string) ConfigOption {
	return func(b *configBuilder) {
		if ffmpeg != "" {
			b.cfg.Tools.FFmpeg = ffmpeg
		}
		if ffprobe != "" {
			b.cfg.Tools.FFprobe = ffprobe
		}
	}
}

// WithStubbedBinaries writes do-nothing stub executables for the provided
// names and prepends them to PATH. If names is empty, ffmpeg and ffprobe are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		for _, name := range names {
			WriteStub(b.t, binDir, name, "#!/bin/sh\nexit 0\n")
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// WriteStub writes an executable shell script into dir and returns its path.
func WriteStub(t testing.TB, dir, name, script string) string {
	t.Helper()

	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
