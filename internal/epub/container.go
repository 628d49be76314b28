package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// containerPath is the well-known location of the OPF locator file.
const containerPath = "META-INF/container.xml"

// opfMediaType is the media type of the package document rootfile.
const opfMediaType = "application/oebps-package+xml"

type containerXML struct {
	XMLName   xml.Name `xml:"container"`
	RootFiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// locateOPF determines the ZIP-internal path of the OPF package document.
// It reads META-INF/container.xml when present; otherwise it scans the
// archive for the first ".opf" entry. Returns a wrapped ErrInvalidEPub
// when no package document can be located.
func locateOPF(zr *zip.Reader) (string, error) {
	f := findEntry(zr, containerPath)
	if f == nil {
		for _, e := range zr.File {
			if strings.HasSuffix(strings.ToLower(e.Name), ".opf") {
				return e.Name, nil
			}
		}
		return "", fmt.Errorf("epub: no OPF file found in archive: %w", ErrInvalidEPub)
	}

	data, err := readEntry(f)
	if err != nil {
		return "", fmt.Errorf("epub: read container.xml: %w", err)
	}

	var c containerXML
	if err := xml.Unmarshal(stripBOM(data), &c); err != nil {
		return "", fmt.Errorf("epub: parse container.xml: %w", err)
	}

	var fallback string
	for _, rf := range c.RootFiles {
		p := strings.TrimSpace(rf.FullPath)
		if p == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rf.MediaType), opfMediaType) {
			return p, nil
		}
		if fallback == "" {
			fallback = p
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("epub: container.xml names no usable rootfile: %w", ErrInvalidEPub)
	}
	return fallback, nil
}
