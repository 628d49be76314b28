package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// expectedMimetype is the required content of the "mimetype" zip entry.
const expectedMimetype = "application/epub+zip"

// Book is an opened ePub archive. It exposes the book's metadata and its
// content documents in spine order.
//
// A Book is not safe for concurrent use by multiple goroutines.
type Book struct {
	zip      *zip.Reader
	closer   io.Closer // non-nil only when created via Open
	spine    []spineEntry
	title    string
	author   string
	language string
	version  string
	warnings []string
}

// Open opens the ePub file at the given path. The caller must call Close
// when done.
func Open(path string) (*Book, error) {
	zrc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("epub: open %s: %w", path, err)
	}
	b, err := newBook(&zrc.Reader, zrc)
	if err != nil {
		zrc.Close()
		return nil, err
	}
	return b, nil
}

// NewReader creates a Book from an io.ReaderAt with the given size. The
// caller owns the lifetime of r; Close is a no-op for Books created this way.
func NewReader(r io.ReaderAt, size int64) (*Book, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("epub: open zip: %w", err)
	}
	return newBook(zr, nil)
}

func newBook(zr *zip.Reader, closer io.Closer) (*Book, error) {
	b := &Book{zip: zr, closer: closer}

	b.checkMimetype()

	if err := checkDRM(zr); err != nil {
		return nil, err
	}

	opfPath, err := locateOPF(zr)
	if err != nil {
		return nil, err
	}
	opfFile := findEntry(zr, opfPath)
	if opfFile == nil {
		return nil, fmt.Errorf("epub: OPF file missing from archive: %s: %w", opfPath, ErrInvalidEPub)
	}
	opfData, err := readEntry(opfFile)
	if err != nil {
		return nil, fmt.Errorf("epub: read OPF file: %w", err)
	}

	pkg, err := parseOPF(opfData)
	if err != nil {
		return nil, err
	}

	b.spine = buildSpine(pkg, path.Dir(opfPath))
	b.title = firstNonEmpty(pkg.Metadata.Titles)
	b.author = firstNonEmpty(pkg.Metadata.Creators)
	b.language = firstNonEmpty(pkg.Metadata.Languages)
	b.version = pkg.Version

	return b, nil
}

// checkMimetype records warnings for a missing or unexpected mimetype entry.
// Deviations are common in the wild and never fatal.
func (b *Book) checkMimetype() {
	if len(b.zip.File) == 0 {
		b.warnings = append(b.warnings, "empty ZIP archive; mimetype entry missing")
		return
	}
	first := b.zip.File[0]
	if first.Name != "mimetype" {
		b.warnings = append(b.warnings, `first ZIP entry is not "mimetype"`)
		return
	}
	data, err := readEntry(first)
	if err != nil {
		b.warnings = append(b.warnings, fmt.Sprintf("cannot read mimetype entry: %v", err))
		return
	}
	if string(data) != expectedMimetype {
		b.warnings = append(b.warnings, fmt.Sprintf("unexpected mimetype: %q", string(data)))
	}
}

// Close releases resources held by the Book. It is idempotent.
func (b *Book) Close() error {
	if b.closer != nil {
		err := b.closer.Close()
		b.closer = nil
		return err
	}
	return nil
}

// Title returns the primary dc:title, or "" when the OPF declares none.
func (b *Book) Title() string { return b.title }

// Author returns the first dc:creator, or "".
func (b *Book) Author() string { return b.author }

// Language returns the first dc:language, or "".
func (b *Book) Language() string { return b.language }

// Version returns the declared ePub version ("2.0" when absent).
func (b *Book) Version() string { return b.version }

// Warnings returns non-fatal problems noticed while opening the book.
func (b *Book) Warnings() []string {
	return append([]string(nil), b.warnings...)
}

// Chapters returns handles for the content documents in spine order.
// Content is loaded lazily when TextContent or FirstHeading is called.
func (b *Book) Chapters() []Chapter {
	chapters := make([]Chapter, 0, len(b.spine))
	for _, se := range b.spine {
		chapters = append(chapters, Chapter{
			ID:     se.ID,
			Href:   se.Href,
			Linear: se.Linear,
			book:   b,
		})
	}
	return chapters
}

// Chapter is a lightweight handle for one spine entry.
type Chapter struct {
	// ID is the manifest item ID of this content document.
	ID string

	// Href is the ZIP-internal path of the content document.
	Href string

	// Linear reports whether the entry is part of the linear reading order
	// (spine itemrefs without linear="no").
	Linear bool

	book *Book
}

// RawContent reads the chapter's XHTML bytes, with any leading BOM stripped.
func (c Chapter) RawContent() ([]byte, error) {
	f := findEntry(c.book.zip, c.Href)
	if f == nil {
		return nil, fmt.Errorf("epub: %s: %w", c.Href, ErrFileNotFound)
	}
	data, err := readEntry(f)
	if err != nil {
		return nil, err
	}
	return stripBOM(data), nil
}

// TextContent extracts the chapter's readable prose. Block-level elements
// produce line breaks; script and style content is dropped.
func (c Chapter) TextContent() (string, error) {
	data, err := c.RawContent()
	if err != nil {
		return "", err
	}
	return extractText(data)
}

// FirstHeading returns the text of the first h1-h3 element in the chapter,
// or "" when the chapter has no usable heading.
func (c Chapter) FirstHeading() (string, error) {
	data, err := c.RawContent()
	if err != nil {
		return "", err
	}
	return firstHeading(data), nil
}

// BaseName returns the chapter file name without directory or extension,
// e.g. "OEBPS/text/ch01.xhtml" -> "ch01".
func (c Chapter) BaseName() string {
	base := path.Base(c.Href)
	return strings.TrimSuffix(base, path.Ext(base))
}
