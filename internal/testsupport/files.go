package testsupport

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteText writes content to path, creating parent directories as needed,
// and returns path.
func WriteText(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// UniformFrame builds a grayscale image filled with a single shade.
func UniformFrame(width, height int, shade uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	return img
}

// SplitFrame builds a grayscale image whose left fraction is one shade and
// the remainder another, for controlling how many pixels differ between
// frames.
func SplitFrame(width, height int, fraction float64, left, right uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	split := int(float64(width) * fraction)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			shade := right
			if x < split {
				shade = left
			}
			img.Pix[y*img.Stride+x] = shade
		}
	}
	return img
}

// MJPEGStream encodes the images as JPEGs and concatenates them, matching
// what ffmpeg's image2pipe muxer emits.
func MJPEGStream(t testing.TB, images ...image.Image) []byte {
	t.Helper()

	var stream bytes.Buffer
	for i, img := range images {
		if err := jpeg.Encode(&stream, img, nil); err != nil {
			t.Fatalf("encode frame %d: %v", i, err)
		}
	}
	return stream.Bytes()
}
