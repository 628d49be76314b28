package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/simp-lee/epub2audio/internal/tts"
)

// testChapter describes one content document for a generated test ePub.
// Spine order follows slice order regardless of href naming.
type testChapter struct {
	id   string
	href string
	body string
}

// writeEPUBFile builds a minimal valid ePub named <name>.epub in a temp
// directory and returns its path.
func writeEPUBFile(t *testing.T, name string, chapters []testChapter) string {
	t.Helper()

	var manifest, spine strings.Builder
	for _, ch := range chapters {
		fmt.Fprintf(&manifest, `<item id=%q href=%q media-type="application/xhtml+xml"/>`+"\n", ch.id, ch.href)
		fmt.Fprintf(&spine, `<itemref idref=%q/>`+"\n", ch.id)
	}

	files := []struct{ name, content string }{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`},
		{"content.opf", `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>` + name + `</dc:title>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
` + manifest.String() + `  </manifest>
  <spine>
` + spine.String() + `  </spine>
</package>`},
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	write := func(n, c string) {
		fw, err := zw.Create(n)
		if err != nil {
			t.Fatalf("writeEPUBFile: create %s: %v", n, err)
		}
		if _, err := io.WriteString(fw, c); err != nil {
			t.Fatalf("writeEPUBFile: write %s: %v", n, err)
		}
	}
	for _, f := range files {
		write(f.name, f.content)
	}
	for _, ch := range chapters {
		write(ch.href, ch.body)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("writeEPUBFile: close: %v", err)
	}

	fp := filepath.Join(t.TempDir(), name+".epub")
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		t.Fatalf("writeEPUBFile: %v", err)
	}
	return fp
}

// chapterDoc renders an XHTML chapter with a heading and enough prose to
// clear the minimum speakable length.
func chapterDoc(heading string) string {
	return fmt.Sprintf(`<html><body><h1>%s</h1><p>%s follows with a long passage of narrative prose, easily enough words to be worth reading aloud.</p></body></html>`,
		heading, heading)
}

// fakeTTS is an in-memory Synthesizer. It fails any request whose text
// contains failOn (when non-empty) and otherwise returns the request text
// wrapped in brackets, so chunk concatenation is observable.
type fakeTTS struct {
	mu     sync.Mutex
	calls  int
	failOn string
}

func (f *fakeTTS) Synthesize(_ context.Context, req tts.Request) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failOn != "" && strings.Contains(req.Text, f.failOn) {
		return nil, errors.New("simulated service failure")
	}
	return []byte("[" + req.Text + "]"), nil
}

func (f *fakeTTS) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeMerger records merge invocations.
type fakeMerger struct {
	calls [][]string
	outs  []string
	err   error
}

func (m *fakeMerger) Merge(_ context.Context, paths []string, out string) error {
	m.calls = append(m.calls, append([]string(nil), paths...))
	m.outs = append(m.outs, out)
	if m.err != nil {
		return m.err
	}
	return os.WriteFile(out, []byte("merged"), 0644)
}
