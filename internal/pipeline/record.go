// Package pipeline drives the EPUB to audiobook conversion: chapter
// extraction, per-chapter speech synthesis, and final assembly.
package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Sentinel errors for the pipeline's failure classes. Invalid input aborts
// the run; synthesis failures are contained per chapter.
var (
	ErrInvalidInput = errors.New("pipeline: invalid input")
	ErrSynthesis    = errors.New("pipeline: synthesis failed")
)

// ChapterRecord is one speakable unit of the book: a dense 1-based index in
// spine order, a human-readable title, and the sanitized body text.
// Records are immutable once extracted.
type ChapterRecord struct {
	Index int
	Title string
	Text  string
}

// Task pairs a ChapterRecord with its synthesis parameters and the
// deterministic output path. Tasks are derived on demand and never stored;
// the audio file at OutputPath is their only persistent trace.
type Task struct {
	Record     ChapterRecord
	OutputPath string
	Voice      string
	Rate       string
}

// Status is the outcome of one chapter's synthesis step.
type Status string

const (
	StatusCreated Status = "created"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// maxTitleRunes caps the sanitized title used in output file names.
const maxTitleRunes = 50

// indexWidth returns the zero-pad width for chapter numbers, wide enough
// for total chapters and never narrower than two digits.
func indexWidth(total int) int {
	if w := len(strconv.Itoa(total)); w > 2 {
		return w
	}
	return 2
}

// chapterFileName builds the output file name for a chapter:
// zero-padded index, underscore, filesystem-safe title, ".mp3".
// Lexicographic order of the names matches chapter order.
func chapterFileName(index, width int, title string) string {
	safe := safeTitle(title)
	if safe == "" {
		safe = fmt.Sprintf("Chapter %d", index)
	}
	return fmt.Sprintf("%0*d_%s.mp3", width, index, safe)
}

// safeTitle reduces a title to characters safe in file names on common
// filesystems, capped at maxTitleRunes.
func safeTitle(title string) string {
	var b strings.Builder
	count := 0
	for _, r := range title {
		if count == maxTitleRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
			count++
		}
	}
	return strings.TrimSpace(b.String())
}
