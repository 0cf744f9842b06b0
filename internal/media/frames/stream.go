package frames

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/damiansian/notebook-storyboards/internal/media/ffprobe"
)

// OpenOptions configures an ffmpeg-backed frame stream.
type OpenOptions struct {
	// Binary is the ffmpeg executable name or path.
	Binary string
	// Path is the input video file.
	Path string
	// Rate is the stream's rational frame rate, from ffprobe.
	Rate ffprobe.Rational
	// Step samples every Nth frame. Frame zero is always delivered.
	Step int
	// Quality is the MJPEG -q:v value (1-31, lower is better).
	Quality int
}

// Stream reads sampled frames from a running ffmpeg process.
type Stream struct {
	*Reader
	cmd    *exec.Cmd
	stderr *bytes.Buffer
	closed bool
	waited error
}

// Open starts ffmpeg decoding the first video stream of opts.Path into an
// MJPEG pipe and returns a Stream over it. Close must be called to reap the
// process; its error reports abnormal ffmpeg termination.
func Open(ctx context.Context, opts OpenOptions) (*Stream, error) {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, fmt.Errorf("frames open: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, buildArgs(path, opts.Quality)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("frames open: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("frames open: start %s: %w", binary, err)
	}

	return &Stream{
		Reader: NewReader(stdout, opts.Rate, opts.Step),
		cmd:    cmd,
		stderr: &stderr,
	}, nil
}

// Close reaps the ffmpeg process. After a clean end of stream it returns the
// process's exit error, if any, with the stderr tail attached. Closing before
// the stream is drained kills the process. Close is idempotent.
func (s *Stream) Close() error {
	if s == nil || s.cmd == nil {
		return nil
	}
	if s.closed {
		return s.waited
	}
	s.closed = true

	if !s.Reader.eof && s.cmd.Process != nil {
		// A writer blocked on a full pipe would never exit. Once the stream
		// reached EOF the process is already gone and keeps its exit status.
		_ = s.cmd.Process.Kill()
	}
	err := s.cmd.Wait()
	if err != nil {
		if detail := strings.TrimSpace(s.stderr.String()); detail != "" {
			err = fmt.Errorf("ffmpeg: %w: %s", err, detail)
		} else {
			err = fmt.Errorf("ffmpeg: %w", err)
		}
	}
	s.waited = err
	return err
}
