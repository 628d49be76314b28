package audio

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestConcatArgs(t *testing.T) {
	got := concatArgs([]string{"a.mp3", "b.mp3", "c.mp3"}, "out.mp3")
	want := []string{"-y", "-i", "concat:a.mp3|b.mp3|c.mp3", "-c", "copy", "out.mp3"}
	if len(got) != len(want) {
		t.Fatalf("concatArgs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestConcatArgs_OrderPreserved(t *testing.T) {
	// Spine order, not lexicographic order.
	got := concatArgs([]string{"03_c.mp3", "01_a.mp3", "02_b.mp3"}, "out.mp3")
	if !strings.Contains(got[2], "03_c.mp3|01_a.mp3|02_b.mp3") {
		t.Errorf("input order not preserved: %q", got[2])
	}
}

func TestMerge_NoInputs(t *testing.T) {
	m := NewFFmpegMerger()
	err := m.Merge(context.Background(), nil, "out.mp3")
	if !errors.Is(err, ErrMerge) {
		t.Fatalf("Merge() error = %v, want ErrMerge", err)
	}
}

func TestMerge_MissingBinary(t *testing.T) {
	m := &FFmpegMerger{Bin: "definitely-not-ffmpeg-xyz"}
	err := m.Merge(context.Background(), []string{"a.mp3"}, "out.mp3")
	if !errors.Is(err, ErrMerge) {
		t.Fatalf("Merge() error = %v, want ErrMerge", err)
	}
}
