// Package text normalizes extracted prose for speech synthesis.
package text

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tagPattern matches a residual markup tag. The leading letter (or slash)
// requirement keeps bare comparisons like "3 < 5 and 7 > 2" out of reach.
var tagPattern = regexp.MustCompile(`</?[a-zA-Z][^<>]*>`)

// entityPattern matches named and numeric character reference remnants.
var entityPattern = regexp.MustCompile(`&(#[xX]?[0-9a-fA-F]+|[a-zA-Z]+);`)

// namedEntities is the set of named references the sanitizer resolves.
// Unknown names are left in place.
var namedEntities = map[string]string{
	"amp": "&", "lt": "<", "gt": ">", "quot": `"`, "apos": "'",
	"nbsp": " ", "mdash": "—", "ndash": "–", "hellip": "…",
	"lsquo": "‘", "rsquo": "’", "ldquo": "“", "rdquo": "”",
}

// Sanitize reduces raw extracted text to clean, pronounceable prose:
// control characters are dropped, residual tags and entity remnants are
// resolved away, and all whitespace runs (including newlines) collapse to
// single spaces with the ends trimmed.
//
// Sanitize is pure, total, and idempotent. Markup removal runs to a fixed
// point, so remnants that only become visible after one rewrite (for
// example "&amp;lt;b&amp;gt;") are still fully resolved in a single call.
func Sanitize(raw string) string {
	s := dropControls(raw)

	for {
		next := resolveEntities(tagPattern.ReplaceAllString(s, " "))
		if next == s {
			break
		}
		s = next
	}

	return strings.Join(strings.Fields(s), " ")
}

// dropControls removes control characters, keeping ordinary whitespace.
func dropControls(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		if unicode.IsControl(r) || r == utf8.RuneError {
			return -1
		}
		return r
	}, s)
}

// resolveEntities rewrites character reference remnants to their characters.
// Numeric references that decode to control or invalid runes are removed.
func resolveEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityPattern.ReplaceAllStringFunc(s, func(m string) string {
		body := m[1 : len(m)-1]
		if body[0] != '#' {
			if ch, ok := namedEntities[strings.ToLower(body)]; ok {
				return ch
			}
			return m
		}

		digits := body[1:]
		base := 10
		if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
			digits = digits[1:]
			base = 16
		}
		n, err := strconv.ParseInt(digits, base, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return ""
		}
		r := rune(n)
		if unicode.IsControl(r) {
			return ""
		}
		return string(r)
	})
}
