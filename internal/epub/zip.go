package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

// maxEntrySize caps the decompressed size of a single ZIP entry (zip bomb guard).
const maxEntrySize int64 = 256 * 1024 * 1024

// findEntry looks up a ZIP entry by path, trying an exact match first and a
// case-insensitive comparison as a fallback. Returns nil when nothing matches.
func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	lower := strings.ToLower(name)
	for _, f := range zr.File {
		if strings.ToLower(f.Name) == lower {
			return f
		}
	}
	return nil
}

// readEntry reads the full contents of a ZIP entry, rejecting unsafe paths
// and entries whose decompressed data exceeds maxEntrySize. The declared
// size in the ZIP header is not trusted; the actual stream is bounded too.
func readEntry(f *zip.File) ([]byte, error) {
	if !safeArchivePath(f.Name) {
		return nil, fmt.Errorf("epub: unsafe zip entry path: %s", f.Name)
	}
	if f.UncompressedSize64 > uint64(maxEntrySize) {
		return nil, fmt.Errorf("epub: zip entry %s too large: %d bytes", f.Name, f.UncompressedSize64)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("epub: open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("epub: read zip entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > maxEntrySize {
		return nil, fmt.Errorf("epub: zip entry %s exceeds size limit", f.Name)
	}
	return data, nil
}

// safeArchivePath reports whether p stays inside the archive root.
func safeArchivePath(p string) bool {
	cleaned := path.Clean(p)
	if strings.HasPrefix(cleaned, "/") {
		return false
	}
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

// resolveHref resolves a manifest href against the directory containing the
// OPF file, yielding a ZIP-internal path. Percent-encoding is decoded and the
// result is rejected (empty string) when it would escape the archive root.
func resolveHref(opfDir, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "/") {
		return ""
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	joined := path.Clean(path.Join(opfDir, href))
	if !safeArchivePath(joined) {
		return ""
	}
	return joined
}

// stripBOM removes a leading UTF-8 byte order mark, if present.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
