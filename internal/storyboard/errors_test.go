package storyboard

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestWrapTagsAndFormats(t *testing.T) {
	base := os.ErrNotExist
	err := Wrap(ErrInputNotFound, "video", "/tmp/in.mp4", base)

	if !errors.Is(err, ErrInputNotFound) {
		t.Fatal("wrapped error must match its marker")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatal("wrapped error must preserve the cause")
	}
	want := "input not found: video: /tmp/in.mp4: file does not exist"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrWrite, "publish", "refusing to replace", nil)
	if err.Error() != "write error: publish: refusing to replace" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrVideoRead, "", "", nil)
	if err.Error() != "video read error: pipeline failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{Wrap(ErrInputNotFound, "video", "x", nil), "InputNotFound"},
		{Wrap(ErrCaptionParse, "captions", "x", nil), "ParseError"},
		{Wrap(ErrVideoRead, "probe", "x", nil), "VideoReadError"},
		{Wrap(ErrWrite, "publish", "x", nil), "WriteError"},
		{fmt.Errorf("outer: %w", Wrap(ErrWrite, "publish", "x", nil)), "WriteError"},
		{errors.New("mystery"), "InternalError"},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestWarningString(t *testing.T) {
	w := Warning{Class: WarnFrameDecode, Detail: "frame 7: bad huffman code"}
	if w.String() != "FrameDecodeWarning: frame 7: bad huffman code" {
		t.Fatalf("unexpected string %q", w.String())
	}
	if (Warning{Class: WarnFrameDecode}).String() != "FrameDecodeWarning" {
		t.Fatal("class-only warning should print bare class")
	}
}
