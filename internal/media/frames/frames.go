package frames

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strconv"
	"time"

	"github.com/damiansian/notebook-storyboards/internal/media/ffprobe"
)

// ErrFrameDecode marks a single frame that could not be decoded. Callers may
// skip the frame and keep reading; the stream position stays consistent.
var ErrFrameDecode = errors.New("frame decode failed")

// Frame is one sampled video frame.
type Frame struct {
	// Index is the source frame number, counting every frame the stream
	// carries, not just the sampled ones.
	Index int
	// Timestamp is derived from the index and the stream's rational frame
	// rate, so it is exact for constant-frame-rate input.
	Timestamp time.Duration
	// Data holds the frame's raw JPEG bytes as produced by the encoder.
	Data []byte
	// Image holds the decoded pixels. Nil when decoding failed.
	Image image.Image
}

// Reader yields sampled frames from a concatenated MJPEG stream.
type Reader struct {
	scanner *segmentScanner
	rate    ffprobe.Rational
	step    int
	next    int
	eof     bool
}

// NewReader wraps an MJPEG byte stream. rate must be a valid rational frame
// rate; step selects every Nth frame (frame zero is always delivered). A step
// below one reads every frame.
func NewReader(r io.Reader, rate ffprobe.Rational, step int) *Reader {
	if step < 1 {
		step = 1
	}
	return &Reader{
		scanner: newSegmentScanner(r),
		rate:    rate,
		step:    step,
	}
}

// Next returns the next sampled frame. When a frame's bytes cannot be decoded
// the frame is returned without pixels alongside an error wrapping
// ErrFrameDecode; reading may continue afterwards. io.EOF signals a clean end
// of stream.
func (r *Reader) Next() (Frame, error) {
	for {
		data, err := r.scanner.next()
		if err == io.EOF {
			r.eof = true
			return Frame{}, io.EOF
		}

		index := r.next
		r.next++
		if index != 0 && index%r.step != 0 {
			continue
		}

		frame := Frame{
			Index:     index,
			Timestamp: r.timestamp(index),
			Data:      data,
		}
		if err != nil {
			return frame, fmt.Errorf("%w: frame %d: %v", ErrFrameDecode, index, err)
		}

		img, decodeErr := jpeg.Decode(bytes.NewReader(data))
		if decodeErr != nil {
			return frame, fmt.Errorf("%w: frame %d: %v", ErrFrameDecode, index, decodeErr)
		}
		frame.Image = img
		return frame, nil
	}
}

// timestamp computes index * den / num seconds without losing precision.
func (r *Reader) timestamp(index int) time.Duration {
	if r.rate.Num <= 0 {
		return 0
	}
	ticks := time.Duration(index) * time.Duration(r.rate.Den)
	return ticks * time.Second / time.Duration(r.rate.Num)
}

// buildArgs assembles the ffmpeg invocation that turns the first video stream
// into an MJPEG image2pipe stream on stdout.
func buildArgs(path string, quality int) []string {
	if quality < 1 || quality > 31 {
		quality = 2
	}
	return []string{
		"-v", "error",
		"-hide_banner",
		"-nostdin",
		"-i", path,
		"-map", "0:v:0",
		"-an", "-sn", "-dn",
		"-c:v", "mjpeg",
		"-q:v", strconv.Itoa(quality),
		"-f", "image2pipe",
		"-",
	}
}
