package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/simp-lee/epub2audio/internal/audio"
	"github.com/simp-lee/epub2audio/internal/epub"
	"github.com/simp-lee/epub2audio/internal/tts"
)

// Config holds the run parameters, constructed once and passed in
// explicitly. Voice and Rate are handed to the synthesis engine unchanged.
type Config struct {
	// OutputDir is the base output directory; chapter files land in
	// OutputDir/<book-name>/.
	OutputDir string

	// Voice is the engine-specific voice identifier.
	Voice string

	// Rate is the speech rate adjustment, e.g. "+15%".
	Rate string

	// Merge enables concatenating the chapter files into one recording.
	Merge bool

	// ChunkSize is the per-request text limit in runes
	// (text.DefaultChunkSize when zero).
	ChunkSize int
}

// Pipeline converts one EPUB into per-chapter audio files and, optionally,
// a merged audiobook. Chapters are processed strictly sequentially in spine
// order; the skip-if-exists check in the synthesis step makes re-runs cheap
// and interruption safe.
type Pipeline struct {
	tts    tts.Synthesizer
	merger audio.Merger
	log    *zap.Logger
	cfg    Config
}

// New builds a Pipeline. A nil logger disables logging.
func New(synth tts.Synthesizer, merger audio.Merger, log *zap.Logger, cfg Config) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{tts: synth, merger: merger, log: log, cfg: cfg}
}

// Run executes the conversion for one EPUB file.
//
// Invalid input (unreadable file, broken archive, DRM, nothing speakable)
// aborts with a wrapped ErrInvalidInput. Per-chapter synthesis failures and
// merge failures are contained: they are logged, recorded in the report,
// and never stop the remaining chapters.
func (p *Pipeline) Run(ctx context.Context, epubPath string) (*Report, error) {
	book, err := epub.Open(epubPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	defer book.Close()

	for _, w := range book.Warnings() {
		p.log.Warn("epub warning", zap.String("warning", w))
	}

	bookName := bookStem(epubPath)
	records := p.extract(book)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no speakable chapters in %s", ErrInvalidInput, epubPath)
	}

	p.log.Info("parsed book",
		zap.String("book", bookName),
		zap.String("title", book.Title()),
		zap.String("language", book.Language()),
		zap.Int("chapters", len(records)))

	outDir := filepath.Join(p.cfg.OutputDir, bookName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: create output directory: %w", err)
	}

	report := &Report{Book: bookName, OutputDir: outDir}
	width := indexWidth(len(records))
	var done []string // chapter files available for merging, in index order

	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}

		task := Task{
			Record:     rec,
			OutputPath: filepath.Join(outDir, chapterFileName(rec.Index, width, rec.Title)),
			Voice:      p.cfg.Voice,
			Rate:       p.cfg.Rate,
		}

		status, err := p.synthesize(ctx, task)
		result := ChapterResult{Index: rec.Index, Title: rec.Title, Status: status}

		switch status {
		case StatusCreated:
			report.Created++
			result.Path = task.OutputPath
			done = append(done, task.OutputPath)
			p.log.Info("synthesized chapter",
				zap.Int("index", rec.Index),
				zap.String("title", rec.Title),
				zap.String("path", task.OutputPath))
		case StatusSkipped:
			report.Skipped++
			result.Path = task.OutputPath
			done = append(done, task.OutputPath)
			p.log.Info("chapter audio already exists, skipping",
				zap.Int("index", rec.Index),
				zap.String("title", rec.Title))
		case StatusFailed:
			report.Failed++
			result.Error = err.Error()
			p.log.Error("chapter synthesis failed",
				zap.Int("index", rec.Index),
				zap.String("title", rec.Title),
				zap.Error(err))
		}
		report.Chapters = append(report.Chapters, result)
	}

	if p.cfg.Merge && len(done) > 0 {
		mergedPath := filepath.Join(outDir, bookName+"_complete.mp3")
		p.log.Info("merging chapters", zap.Int("count", len(done)))
		if err := p.merger.Merge(ctx, done, mergedPath); err != nil {
			report.MergeError = err.Error()
			p.log.Error("merge failed", zap.Error(err))
		} else {
			report.Merged = true
			report.MergedPath = mergedPath
			p.log.Info("merged audiobook written", zap.String("path", mergedPath))
		}
	}

	return report, nil
}

// bookStem returns the EPUB file name without directory or extension; it
// names the per-book output directory and the merged file.
func bookStem(epubPath string) string {
	base := filepath.Base(epubPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
