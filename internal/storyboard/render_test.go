package storyboard

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/damiansian/notebook-storyboards/internal/captions"
)

func record(index int, ts time.Duration, texts ...string) SceneRecord {
	rec := SceneRecord{Scene: Scene{Index: index, Timestamp: ts, Image: sceneFileName(index)}}
	for _, text := range texts {
		rec.Cues = append(rec.Cues, captions.Cue{Start: ts, End: ts + time.Second, Text: text})
	}
	return rec
}

func sceneFileName(index int) string {
	names := []string{"frame_0000.jpg", "frame_0001.jpg", "frame_0002.jpg"}
	return names[index]
}

func TestRenderHTMLStructure(t *testing.T) {
	records := []SceneRecord{
		record(0, 0, "Welcome everyone."),
		record(1, 10*time.Second, "First topic.", "Second thought."),
	}

	var buf bytes.Buffer
	if err := RenderHTML(&buf, "Lecture One", "assets/frames", records); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<title>Lecture One</title>",
		"<h1>Lecture One</h1>",
		"Time: 0:00:00",
		"Time: 0:00:10",
		`<img src="assets/frames/frame_0000.jpg" alt="Scene at 0:00:00">`,
		`<img src="assets/frames/frame_0001.jpg" alt="Scene at 0:00:10">`,
		"<p>First topic.</p>",
		"<p>Second thought.</p>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "http://") || strings.Contains(out, "https://") {
		t.Error("document must not reference external resources")
	}
}

func TestRenderHTMLEscapesCueText(t *testing.T) {
	records := []SceneRecord{record(0, 0, `<script>alert("x")</script> & on`)}

	var buf bytes.Buffer
	if err := RenderHTML(&buf, "T", "assets/frames", records); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "<script>") {
		t.Fatal("cue text must not inject markup")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("expected escaped script tag")
	}
}

func TestRenderHTMLSilentScene(t *testing.T) {
	records := []SceneRecord{record(0, 0)}

	var buf bytes.Buffer
	if err := RenderHTML(&buf, "T", "assets/frames", records); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `<div class="scene">`) {
		t.Error("silent scene must still render")
	}
	if strings.Contains(out, "<p>") {
		t.Error("silent scene must not render cue paragraphs")
	}
}

func TestRenderHTMLDeterministic(t *testing.T) {
	records := []SceneRecord{
		record(0, 0, "a"),
		record(1, 65*time.Second, "b", "c"),
	}

	var first, second bytes.Buffer
	if err := RenderHTML(&first, "T", "assets/frames", records); err != nil {
		t.Fatalf("first render: %v", err)
	}
	if err := RenderHTML(&second, "T", "assets/frames", records); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("renders of identical records must be byte-identical")
	}
}

var (
	timestampRe = regexp.MustCompile(`Time: ([0-9:]+)</div>`)
	paragraphRe = regexp.MustCompile(`<p>(.*?)</p>`)
)

// TestRenderHTMLRoundTrip re-parses the rendered document and checks that
// the timestamps and cue texts survive rendering exactly.
func TestRenderHTMLRoundTrip(t *testing.T) {
	records := []SceneRecord{
		record(0, 0, "Plain text.", `Angles <and> "quotes" & amps`),
		record(1, 3599*time.Second),
		record(2, 3600*time.Second, "Final cue's text"),
	}

	var buf bytes.Buffer
	if err := RenderHTML(&buf, "T", "assets/frames", records); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	chunks := strings.Split(buf.String(), `<div class="scene">`)[1:]
	if len(chunks) != len(records) {
		t.Fatalf("expected %d scene blocks, got %d", len(records), len(chunks))
	}
	for i, chunk := range chunks {
		match := timestampRe.FindStringSubmatch(chunk)
		if match == nil {
			t.Fatalf("scene %d: no timestamp found", i)
		}
		if want := FormatTimestamp(records[i].Scene.Timestamp); match[1] != want {
			t.Errorf("scene %d timestamp = %q, want %q", i, match[1], want)
		}

		var texts []string
		for _, pm := range paragraphRe.FindAllStringSubmatch(chunk, -1) {
			texts = append(texts, html.UnescapeString(pm[1]))
		}
		if len(texts) != len(records[i].Cues) {
			t.Fatalf("scene %d: expected %d cue paragraphs, got %d", i, len(records[i].Cues), len(texts))
		}
		for j, text := range texts {
			if text != records[i].Cues[j].Text {
				t.Errorf("scene %d cue %d = %q, want %q", i, j, text, records[i].Cues[j].Text)
			}
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{5 * time.Second, "0:00:05"},
		{10900 * time.Millisecond, "0:00:10"},
		{61 * time.Second, "0:01:01"},
		{3661 * time.Second, "1:01:01"},
		{25*time.Hour + time.Minute + time.Second, "25:01:01"},
		{-3 * time.Second, "0:00:00"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.in); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
