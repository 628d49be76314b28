package pipeline

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/simp-lee/epub2audio/internal/epub"
	"github.com/simp-lee/epub2audio/internal/text"
)

// minSpeakableRunes is the smallest sanitized body worth voicing. Cover
// pages, copyright stubs, and image-only pages fall below it.
const minSpeakableRunes = 50

// extract walks the book's spine and produces the ordered chapter records.
// It is best-effort per chapter: unreadable or unspeakable entries are
// skipped, and the index stays dense over the records actually emitted.
func (p *Pipeline) extract(book *epub.Book) []ChapterRecord {
	var records []ChapterRecord

	for _, ch := range book.Chapters() {
		raw, err := ch.TextContent()
		if err != nil {
			p.log.Warn("skipping unreadable chapter",
				zap.String("href", ch.Href),
				zap.Error(err))
			continue
		}

		body := text.Sanitize(raw)
		if utf8.RuneCountInString(body) < minSpeakableRunes {
			p.log.Debug("skipping chapter with no speakable content",
				zap.String("href", ch.Href))
			continue
		}

		index := len(records) + 1
		title := ""
		if heading, err := ch.FirstHeading(); err == nil {
			title = text.Sanitize(heading)
		}
		if title == "" {
			title = fmt.Sprintf("Chapter %d", index)
		}

		records = append(records, ChapterRecord{
			Index: index,
			Title: title,
			Text:  body,
		})
	}

	return records
}
