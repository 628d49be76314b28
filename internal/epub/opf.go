package epub

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// packageDoc mirrors the subset of the OPF <package> element this package
// consumes: enough metadata to name the book, the manifest, and the spine.
type packageDoc struct {
	XMLName  xml.Name `xml:"package"`
	Version  string   `xml:"version,attr"`
	Metadata struct {
		Titles    []string `xml:"http://purl.org/dc/elements/1.1/ title"`
		Creators  []string `xml:"http://purl.org/dc/elements/1.1/ creator"`
		Languages []string `xml:"http://purl.org/dc/elements/1.1/ language"`
	} `xml:"metadata"`
	Manifest struct {
		Items []manifestItem `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef  string `xml:"idref,attr"`
			Linear string `xml:"linear,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// manifestItem is a single <item> in the OPF manifest.
type manifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// spineEntry is a resolved reading-order entry: a spine itemref joined with
// its manifest item, with Href already resolved against the OPF directory.
type spineEntry struct {
	ID        string
	Href      string
	MediaType string
	Linear    bool
}

// parseOPF parses the package document. Named HTML entities are rewritten to
// numeric references first because encoding/xml does not know them.
func parseOPF(data []byte) (*packageDoc, error) {
	data = stripBOM(preprocessEntities(data))

	var pkg packageDoc
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("epub: parse OPF: %w", err)
	}
	if pkg.Version == "" {
		pkg.Version = "2.0"
	}
	return &pkg, nil
}

// buildSpine resolves the spine itemrefs against the manifest, producing the
// canonical reading order. Itemrefs pointing at unknown manifest IDs are
// dropped; spine order is otherwise preserved exactly as declared.
func buildSpine(pkg *packageDoc, opfDir string) []spineEntry {
	byID := make(map[string]manifestItem, len(pkg.Manifest.Items))
	for _, it := range pkg.Manifest.Items {
		byID[it.ID] = it
	}

	entries := make([]spineEntry, 0, len(pkg.Spine.ItemRefs))
	for _, ref := range pkg.Spine.ItemRefs {
		item, ok := byID[ref.IDRef]
		if !ok {
			continue
		}
		href := resolveHref(opfDir, item.Href)
		if href == "" {
			continue
		}
		entries = append(entries, spineEntry{
			ID:        item.ID,
			Href:      href,
			MediaType: item.MediaType,
			Linear:    ref.Linear != "no",
		})
	}
	return entries
}

// firstNonEmpty returns the first entry of values that is not blank.
func firstNonEmpty(values []string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
