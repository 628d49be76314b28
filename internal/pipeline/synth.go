package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simp-lee/epub2audio/internal/text"
	"github.com/simp-lee/epub2audio/internal/tts"
)

// synthesize runs one chapter's synthesis step.
//
// The existence of the output file is the completion marker: when it is
// already present the step returns StatusSkipped without any network call,
// which is what makes interrupted runs safe to resume. Long chapters are
// synthesized in chunks whose MP3 streams are concatenated, and the result
// is published with a single atomic rename so a partial write can never be
// mistaken for a finished chapter.
func (p *Pipeline) synthesize(ctx context.Context, task Task) (Status, error) {
	if _, err := os.Stat(task.OutputPath); err == nil {
		return StatusSkipped, nil
	}

	chunks := text.Chunk(task.Record.Text, p.cfg.ChunkSize)
	if len(chunks) == 0 {
		return StatusFailed, fmt.Errorf("%w: chapter %d %q has no speakable text",
			ErrSynthesis, task.Record.Index, task.Record.Title)
	}

	var buf bytes.Buffer
	for i, chunk := range chunks {
		audio, err := p.tts.Synthesize(ctx, tts.Request{
			Text:  chunk,
			Voice: task.Voice,
			Rate:  task.Rate,
		})
		if err != nil {
			return StatusFailed, fmt.Errorf("%w: chapter %d %q (chunk %d/%d): %v",
				ErrSynthesis, task.Record.Index, task.Record.Title, i+1, len(chunks), err)
		}
		buf.Write(audio)
	}

	if err := writeAtomic(task.OutputPath, buf.Bytes()); err != nil {
		return StatusFailed, fmt.Errorf("%w: chapter %d %q: %v",
			ErrSynthesis, task.Record.Index, task.Record.Title, err)
	}
	return StatusCreated, nil
}

// writeAtomic writes data to a temporary file in path's directory and
// renames it into place, so path either holds the complete content or does
// not exist. The temporary file is removed on any failure.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".epub2audio-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
