package text

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the largest chunk handed to a TTS engine in one call,
// in runes. Service request limits sit comfortably above this.
const DefaultChunkSize = 4000

// sentenceEnders terminate a sentence when followed by whitespace.
var sentenceEnders = map[rune]bool{'.': true, '!': true, '?': true}

// trailingQuotes may close a sentence after its ending punctuation.
var trailingQuotes = map[rune]bool{'"': true, '\'': true, '”': true, '’': true, ')': true}

// Chunk splits sanitized text into pieces of at most max runes, breaking at
// sentence boundaries where possible and only mid-sentence when a single
// sentence exceeds max on its own. Empty input yields no chunks; max <= 0
// falls back to DefaultChunkSize. No returned chunk is empty.
func Chunk(s string, max int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if max <= 0 {
		max = DefaultChunkSize
	}
	if utf8.RuneCountInString(s) <= max {
		return []string{s}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, sentence := range splitSentences(s) {
		for _, piece := range splitOversized(sentence, max) {
			n := utf8.RuneCountInString(piece)
			if curLen > 0 && curLen+1+n > max {
				flush()
			}
			if curLen > 0 {
				cur.WriteByte(' ')
				curLen++
			}
			cur.WriteString(piece)
			curLen += n
		}
	}
	flush()
	return chunks
}

// splitSentences splits s after sentence-ending punctuation (optionally
// followed by a closing quote) when whitespace follows. The punctuation
// stays attached to its sentence.
func splitSentences(s string) []string {
	var sentences []string
	runes := []rune(s)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !sentenceEnders[runes[i]] {
			continue
		}
		end := i + 1
		for end < len(runes) && trailingQuotes[runes[end]] {
			end++
		}
		if end >= len(runes) || isSpaceRune(runes[end]) {
			if sent := strings.TrimSpace(string(runes[start:end])); sent != "" {
				sentences = append(sentences, sent)
			}
			start = end
			i = end - 1
		}
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// splitOversized hard-splits a sentence longer than max runes, preferring
// space boundaries and cutting mid-word only as a last resort.
func splitOversized(sentence string, max int) []string {
	if utf8.RuneCountInString(sentence) <= max {
		return []string{sentence}
	}

	var pieces []string
	var cur strings.Builder
	curLen := 0
	for _, word := range strings.Fields(sentence) {
		n := utf8.RuneCountInString(word)
		if n > max {
			if curLen > 0 {
				pieces = append(pieces, cur.String())
				cur.Reset()
				curLen = 0
			}
			pieces = append(pieces, cutRunes(word, max)...)
			continue
		}
		if curLen > 0 && curLen+1+n > max {
			pieces = append(pieces, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(word)
		curLen += n
	}
	if curLen > 0 {
		pieces = append(pieces, cur.String())
	}
	return pieces
}

// cutRunes slices s into max-rune segments.
func cutRunes(s string, max int) []string {
	runes := []rune(s)
	var out []string
	for len(runes) > max {
		out = append(out, string(runes[:max]))
		runes = runes[max:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
