package epub

import (
	"archive/zip"
	"encoding/xml"
	"strings"
)

const (
	encryptionPath = "META-INF/encryption.xml"
	sinfPath       = "META-INF/sinf.xml" // Apple FairPlay marker
)

// Font obfuscation algorithms are legitimate and do not constitute DRM.
var fontObfuscationAlgos = map[string]bool{
	"http://www.idpf.org/2008/embedding": true,
	"http://ns.adobe.com/pdf/enc#RC":     true,
}

type encryptionXML struct {
	XMLName       xml.Name `xml:"encryption"`
	EncryptedData []struct {
		EncryptionMethod struct {
			Algorithm string `xml:"Algorithm,attr"`
		} `xml:"EncryptionMethod"`
	} `xml:"EncryptedData"`
}

// checkDRM inspects the archive for DRM markers. It returns ErrDRMProtected
// when real content encryption is present; entries that only describe font
// obfuscation are allowed through.
func checkDRM(zr *zip.Reader) error {
	if findEntry(zr, sinfPath) != nil {
		return ErrDRMProtected
	}

	f := findEntry(zr, encryptionPath)
	if f == nil {
		return nil
	}
	data, err := readEntry(f)
	if err != nil {
		return err
	}

	var enc encryptionXML
	if err := xml.Unmarshal(stripBOM(data), &enc); err != nil {
		// Unparseable encryption descriptor: treat conservatively as DRM.
		return ErrDRMProtected
	}

	for _, ed := range enc.EncryptedData {
		algo := strings.TrimSpace(ed.EncryptionMethod.Algorithm)
		if !fontObfuscationAlgos[algo] {
			return ErrDRMProtected
		}
	}
	return nil
}
