package frames

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// JPEG marker bytes. Markers without a length payload are handled explicitly;
// everything else carries a two-byte big-endian length that includes itself.
const (
	markerPrefix = 0xFF
	markerSOI    = 0xD8
	markerEOI    = 0xD9
	markerSOS    = 0xDA
	markerTEM    = 0x01
	markerRST0   = 0xD0
	markerRST7   = 0xD7
)

// errTruncatedSegment reports a JPEG cut off mid-stream, usually the trailing
// frame of a pipe that closed early.
var errTruncatedSegment = errors.New("truncated jpeg segment")

// segmentScanner splits a concatenated MJPEG byte stream into individual JPEG
// images. Splitting on raw SOI/EOI byte pairs is not safe: quantization
// tables, Huffman tables, and APPn payloads may contain 0xFFD9 by chance, so
// the scanner walks the marker structure instead and skips table segments by
// their declared length.
type segmentScanner struct {
	r *bufio.Reader
}

func newSegmentScanner(r io.Reader) *segmentScanner {
	return &segmentScanner{r: bufio.NewReaderSize(r, 256<<10)}
}

// next returns the raw bytes of the next complete JPEG in the stream. Bytes
// between images that do not form a marker sequence are discarded. At the end
// of the stream it returns io.EOF; a frame cut off mid-image is returned
// partially alongside errTruncatedSegment.
func (s *segmentScanner) next() ([]byte, error) {
	if err := s.seekSOI(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte(markerPrefix)
	buf.WriteByte(markerSOI)

	for {
		marker, err := s.readMarker(&buf)
		if err != nil {
			return buf.Bytes(), errTruncatedSegment
		}

		// Progressive images chain several scans; each ends at the marker
		// that starts the next section.
		for marker == markerSOS {
			if err := s.copyLengthSegment(&buf); err != nil {
				return buf.Bytes(), errTruncatedSegment
			}
			marker, err = s.copyEntropy(&buf)
			if err != nil {
				return buf.Bytes(), errTruncatedSegment
			}
		}

		switch {
		case marker == markerEOI:
			return buf.Bytes(), nil
		case isBareMarker(marker):
			// TEM or stray restart marker between segments; nothing follows.
		case marker == markerSOI:
			// A new image started without the previous one ending.
			return buf.Bytes(), errTruncatedSegment
		default:
			if err := s.copyLengthSegment(&buf); err != nil {
				return buf.Bytes(), errTruncatedSegment
			}
		}
	}
}

// seekSOI discards bytes until the next SOI marker.
func (s *segmentScanner) seekSOI() error {
	for {
		if _, err := s.r.ReadBytes(markerPrefix); err != nil {
			return io.EOF
		}
		b, err := s.r.ReadByte()
		if err != nil {
			return io.EOF
		}
		if b == markerSOI {
			return nil
		}
		if b == markerPrefix {
			if err := s.r.UnreadByte(); err != nil {
				return io.EOF
			}
		}
	}
}

// readMarker consumes the 0xFF prefix (plus any fill bytes) and the marker
// byte, appending them to buf, and returns the marker byte.
func (s *segmentScanner) readMarker(buf *bytes.Buffer) (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b != markerPrefix {
		return 0, errTruncatedSegment
	}
	for {
		m, err := s.r.ReadByte()
		if err != nil {
			return 0, err
		}
		if m == markerPrefix {
			// Fill byte before the real marker.
			buf.WriteByte(markerPrefix)
			continue
		}
		buf.WriteByte(markerPrefix)
		buf.WriteByte(m)
		return m, nil
	}
}

// copyLengthSegment copies a length-prefixed segment body. The marker bytes
// themselves were already written by readMarker or copyEntropy.
func (s *segmentScanner) copyLengthSegment(buf *bytes.Buffer) error {
	var lengthBytes [2]byte
	if _, err := io.ReadFull(s.r, lengthBytes[:]); err != nil {
		return err
	}
	buf.Write(lengthBytes[:])
	length := int(lengthBytes[0])<<8 | int(lengthBytes[1])
	if length < 2 {
		return errTruncatedSegment
	}
	if _, err := io.CopyN(buf, s.r, int64(length-2)); err != nil {
		return err
	}
	return nil
}

// copyEntropy copies entropy-coded scan data up to and including the next
// real marker pair and returns that marker byte. Stuffed zero bytes (FF 00)
// and restart markers (FF D0-D7) belong to the scan and do not terminate it.
func (s *segmentScanner) copyEntropy(buf *bytes.Buffer) (byte, error) {
	for {
		chunk, err := s.r.ReadSlice(markerPrefix)
		buf.Write(chunk)
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil {
			return 0, err
		}
		b, err := s.r.ReadByte()
		if err != nil {
			return 0, err
		}
		for b == markerPrefix {
			// Fill byte; the previous FF already sits in buf.
			buf.WriteByte(b)
			if b, err = s.r.ReadByte(); err != nil {
				return 0, err
			}
		}
		buf.WriteByte(b)
		if b == 0x00 || (b >= markerRST0 && b <= markerRST7) {
			continue
		}
		return b, nil
	}
}

func isBareMarker(marker byte) bool {
	return marker == markerTEM || (marker >= markerRST0 && marker <= markerRST7)
}
