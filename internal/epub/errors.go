package epub

import "errors"

// Sentinel errors returned by the epub package.
var (
	// ErrInvalidEPub indicates the file is not a readable ePub
	// (not a ZIP archive, no OPF package, or an unparseable one).
	ErrInvalidEPub = errors.New("epub: invalid ePub file")

	// ErrDRMProtected indicates the ePub is protected by DRM
	// (Adobe ADEPT, Apple FairPlay, Readium LCP) and its content
	// documents cannot be extracted.
	ErrDRMProtected = errors.New("epub: file is DRM protected")

	// ErrFileNotFound indicates the requested entry does not exist
	// in the ePub archive.
	ErrFileNotFound = errors.New("epub: file not found in archive")
)
