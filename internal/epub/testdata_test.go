package epub

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// writeZip serializes the files map (path -> content) into ZIP bytes.
// The mimetype entry, when present, is written first as the ePub spec requires.
func writeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	write := func(name, content string) {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("writeZip: create %s: %v", name, err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			t.Fatalf("writeZip: write %s: %v", name, err)
		}
	}

	if mt, ok := files["mimetype"]; ok {
		write("mimetype", mt)
	}
	for name, content := range files {
		if name != "mimetype" {
			write(name, content)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("writeZip: close writer: %v", err)
	}
	return buf.Bytes()
}

// openTestBook builds an in-memory ePub and opens it via NewReader.
func openTestBook(t *testing.T, files map[string]string) *Book {
	t.Helper()
	data := writeZip(t, files)
	b, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("openTestBook: %v", err)
	}
	return b
}

// writeTestEPubFile writes an ePub archive to a temp file and returns its path.
func writeTestEPubFile(t *testing.T, files map[string]string) string {
	t.Helper()
	fp := filepath.Join(t.TempDir(), "test.epub")
	if err := os.WriteFile(fp, writeZip(t, files), 0644); err != nil {
		t.Fatalf("writeTestEPubFile: %v", err)
	}
	return fp
}

// testBookFiles returns a minimal valid three-chapter ePub. The spine order
// (c3, c1, c2) deliberately disagrees with the file names.
func testBookFiles() map[string]string {
	return map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": containerFor("OEBPS/content.opf"),
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:creator>A. Writer</dc:creator>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="c1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="c3" href="text/ch3.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="c3"/>
    <itemref idref="c1"/>
    <itemref idref="c2"/>
  </spine>
</package>`,
		"OEBPS/text/ch1.xhtml": `<html><body><h1>Chapter One</h1><p>First chapter text.</p></body></html>`,
		"OEBPS/text/ch2.xhtml": `<html><body><h1>Chapter Two</h1><p>Second chapter text.</p></body></html>`,
		"OEBPS/text/ch3.xhtml": `<html><body><h1>Chapter Three</h1><p>Third chapter text.</p></body></html>`,
	}
}

func containerFor(opfPath string) string {
	return `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="` + opfPath + `" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
}
