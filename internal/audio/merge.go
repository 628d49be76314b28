// Package audio assembles per-chapter audio files into one recording.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrMerge indicates the external concatenation step failed.
var ErrMerge = errors.New("audio: merge failed")

// Merger concatenates audio files, in the given order, into a single file.
type Merger interface {
	Merge(ctx context.Context, paths []string, outputPath string) error
}

// FFmpegMerger concatenates MP3 files by shelling out to ffmpeg with the
// concat protocol and stream copy, so no re-encoding takes place.
type FFmpegMerger struct {
	// Bin is the ffmpeg executable; "ffmpeg" (resolved via PATH) when empty.
	Bin string
}

// NewFFmpegMerger returns a merger using the ffmpeg binary from PATH.
func NewFFmpegMerger() *FFmpegMerger {
	return &FFmpegMerger{Bin: "ffmpeg"}
}

// Merge implements Merger.
func (m *FFmpegMerger) Merge(ctx context.Context, paths []string, outputPath string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: no input files", ErrMerge)
	}

	bin := m.Bin
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin, concatArgs(paths, outputPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return fmt.Errorf("%w: %v", ErrMerge, err)
		}
		return fmt.Errorf("%w: %v: %s", ErrMerge, err, detail)
	}
	return nil
}

// concatArgs builds the ffmpeg argument list for concatenating paths into
// outputPath. Input order is preserved exactly.
func concatArgs(paths []string, outputPath string) []string {
	return []string{
		"-y",
		"-i", "concat:" + strings.Join(paths, "|"),
		"-c", "copy",
		outputPath,
	}
}
