package epub

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// entityNumeric maps lowercase HTML entity names to numeric character
// references. encoding/xml only knows the five XML entities, so OPF and
// content files are rewritten before XML parsing.
var entityNumeric = map[string]string{
	"nbsp": "&#160;", "mdash": "&#8212;", "ndash": "&#8211;", "hellip": "&#8230;",
	"lsquo": "&#8216;", "rsquo": "&#8217;", "ldquo": "&#8220;", "rdquo": "&#8221;",
	"copy": "&#169;", "reg": "&#174;", "trade": "&#8482;",
	"bull": "&#8226;", "middot": "&#183;", "deg": "&#176;",
	"laquo": "&#171;", "raquo": "&#187;", "sect": "&#167;",
	"eacute": "&#233;", "egrave": "&#232;", "ecirc": "&#234;", "euml": "&#235;",
	"aacute": "&#225;", "agrave": "&#224;", "acirc": "&#226;", "auml": "&#228;",
	"iacute": "&#237;", "icirc": "&#238;", "iuml": "&#239;",
	"oacute": "&#243;", "ocirc": "&#244;", "ouml": "&#246;",
	"uacute": "&#250;", "ucirc": "&#251;", "uuml": "&#252;",
	"ntilde": "&#241;", "ccedil": "&#231;",
}

var entityPattern = buildEntityPattern()

func buildEntityPattern() *regexp.Regexp {
	names := make([]string, 0, len(entityNumeric))
	for name := range entityNumeric {
		names = append(names, name)
	}
	sort.Strings(names)
	return regexp.MustCompile(`(?i)&(` + strings.Join(names, "|") + `);`)
}

// preprocessEntities rewrites known named entities to numeric references,
// case-insensitively. Unknown entities are left untouched.
func preprocessEntities(data []byte) []byte {
	return entityPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		name := strings.ToLower(string(m[1 : len(m)-1]))
		if num, ok := entityNumeric[name]; ok {
			return []byte(num)
		}
		return m
	})
}

// blockLevel tags introduce a line break during text extraction.
var blockLevel = map[atom.Atom]bool{
	atom.P: true, atom.Br: true, atom.Div: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Tr: true, atom.Blockquote: true,
}

// skipContent tags have their entire content dropped.
var skipContent = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

var selfClosingSkipPattern = regexp.MustCompile(`(?is)<(script|style)\b([^>]*)/>`)

// expandSelfClosing rewrites self-closing <script/> and <style/> tags into
// open/close pairs so the tokenizer's skip depth stays balanced.
func expandSelfClosing(doc []byte) []byte {
	if !selfClosingSkipPattern.Match(doc) {
		return doc
	}
	return selfClosingSkipPattern.ReplaceAll(doc, []byte(`<$1$2></$1>`))
}

// extractText extracts readable prose from an XHTML document. Block-level
// elements produce line breaks; script and style content is dropped; runs of
// whitespace inside text nodes collapse to single spaces.
func extractText(doc []byte) (string, error) {
	z := html.NewTokenizer(bytes.NewReader(expandSelfClosing(doc)))

	var b strings.Builder
	skipDepth := 0
	atLineStart := true

	lineBreak := func() {
		if b.Len() > 0 && !atLineStart {
			b.WriteByte('\n')
			atLineStart = true
		}
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return strings.TrimSpace(b.String()), nil
			}
			return "", z.Err()

		case html.StartTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipContent[a] {
				skipDepth++
				continue
			}
			if skipDepth == 0 && blockLevel[a] {
				lineBreak()
			}

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if skipDepth == 0 && blockLevel[atom.Lookup(name)] {
				lineBreak()
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if skipContent[atom.Lookup(name)] && skipDepth > 0 {
				skipDepth--
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			if t := collapseSpaces(string(z.Text())); t != "" {
				b.WriteString(t)
				atLineStart = strings.HasSuffix(t, "\n")
			}
		}
	}
}

// headingTags are the elements firstHeading considers a chapter title.
var headingTags = map[atom.Atom]bool{
	atom.H1: true,
	atom.H2: true,
	atom.H3: true,
}

// firstHeading returns the text of the first non-empty <h1>-<h3> element in
// the document, or "" when none exists. Tokenizer errors other than EOF also
// yield "" since a missing title is never fatal.
func firstHeading(doc []byte) string {
	z := html.NewTokenizer(bytes.NewReader(expandSelfClosing(doc)))

	var b strings.Builder
	capturing := atom.Atom(0)

	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""

		case html.StartTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); capturing == 0 && headingTags[a] {
				capturing = a
				b.Reset()
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); capturing != 0 && a == capturing {
				if t := strings.TrimSpace(b.String()); t != "" {
					return t
				}
				capturing = 0
			}

		case html.TextToken:
			if capturing != 0 {
				b.WriteString(collapseSpaces(string(z.Text())))
			}
		}
	}
}

// collapseSpaces collapses runs of whitespace to single spaces. A leading or
// trailing run is preserved as one space so that spacing between inline
// elements survives tokenization. All-whitespace input yields "".
func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	out := strings.Join(fields, " ")
	if isSpaceByte(s[0]) {
		out = " " + out
	}
	if isSpaceByte(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
