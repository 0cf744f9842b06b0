// Package site builds the static index page over a directory of generated
// storyboards. It reads only what published runs left behind; the pipeline
// has no dependency on it.
package site

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/damiansian/notebook-storyboards/internal/logging"
)

// Entry describes one generated storyboard found under the scan root.
type Entry struct {
	// Name is the storyboard's directory name.
	Name string
	// Title is the document's <title>, falling back to Name.
	Title string
	// Document is the link target relative to the index page, forward-slashed.
	Document string
	// Scenes is the number of keyframes on disk.
	Scenes int
	// Size is the storyboard directory's total size in bytes.
	Size int64
	// Modified is the document's modification time.
	Modified time.Time
}

// Options configures a scan. Zero values take the repository defaults.
type Options struct {
	// DocumentName is the storyboard document file name inside each directory.
	DocumentName string
	// FramesDir is the keyframe directory relative to each storyboard.
	FramesDir string
	Logger    *slog.Logger
}

func (o Options) normalized() Options {
	if strings.TrimSpace(o.DocumentName) == "" {
		o.DocumentName = "storyboard.html"
	}
	if strings.TrimSpace(o.FramesDir) == "" {
		o.FramesDir = "assets/frames"
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return o
}

// Scan finds storyboards directly under root: any subdirectory holding the
// document file. Entries come back sorted by name so the index is stable.
func Scan(root string, opts Options) ([]Entry, error) {
	opts = opts.normalized()

	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan storyboards: %w", err)
	}

	var entries []Entry
	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() {
			continue
		}
		name := dirEntry.Name()
		boardDir := filepath.Join(root, name)
		docPath := filepath.Join(boardDir, opts.DocumentName)

		info, err := os.Stat(docPath)
		if err != nil || info.IsDir() {
			opts.Logger.Debug("skipping directory without a storyboard document",
				logging.String("dir", boardDir))
			continue
		}

		title := documentTitle(docPath)
		if title == "" {
			title = name
		}

		entries = append(entries, Entry{
			Name:     name,
			Title:    title,
			Document: path.Join(name, opts.DocumentName),
			Scenes:   countKeyframes(filepath.Join(boardDir, filepath.FromSlash(opts.FramesDir))),
			Size:     dirSize(boardDir),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Build scans root and publishes root/index.html over the results. The page
// is written to a temporary file first and renamed into place, so readers
// never see a partial index. It returns the index path and the entries.
func Build(root string, opts Options) (string, []Entry, error) {
	entries, err := Scan(root, opts)
	if err != nil {
		return "", nil, err
	}

	indexPath := filepath.Join(root, "index.html")
	tmpPath := indexPath + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return "", nil, fmt.Errorf("create index: %w", err)
	}
	writeErr := WriteIndex(file, entries)
	if closeErr := file.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return "", nil, fmt.Errorf("write index: %w", writeErr)
	}
	if err := os.Rename(tmpPath, indexPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", nil, fmt.Errorf("publish index: %w", err)
	}
	return indexPath, entries, nil
}

// documentTitle extracts the <title> text from the head of a storyboard
// document. Anything unreadable or untitled yields "".
func documentTitle(docPath string) string {
	file, err := os.Open(docPath)
	if err != nil {
		return ""
	}
	defer file.Close()

	// The title sits in the fixed document head; a page of input covers it.
	head := make([]byte, 4096)
	n, err := io.ReadFull(file, head)
	if err != nil && n == 0 {
		return ""
	}
	content := string(head[:n])

	start := strings.Index(content, "<title>")
	if start < 0 {
		return ""
	}
	start += len("<title>")
	end := strings.Index(content[start:], "</title>")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(content[start : start+end]))
}

func countKeyframes(framesDir string) int {
	entries, err := os.ReadDir(framesDir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".jpg") {
			count++
		}
	}
	return count
}

// dirSize totals the file bytes under path, best effort.
func dirSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}
