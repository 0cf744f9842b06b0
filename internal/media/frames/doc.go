// Package frames streams decoded video frames out of ffmpeg.
//
// The pipeline needs every sampled frame of a video exactly once, in order,
// with exact timestamps. ffmpeg provides that as a single MJPEG image2pipe
// stream on stdout; this package splits the stream into individual JPEGs,
// decodes them, and derives per-frame timestamps from the container's
// rational frame rate.
//
// A Reader works over any io.Reader, which keeps frame handling testable
// without video fixtures; Open wires a Reader to a live ffmpeg process.
// Individual undecodable frames surface as ErrFrameDecode so callers can skip
// them without losing stream position.
package frames
