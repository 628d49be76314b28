// Package epub reads ePub archives for the audiobook pipeline.
//
// It opens the ZIP container, locates and parses the OPF package document,
// and exposes the content documents in spine order, which is the book's
// canonical reading order. Plain-text extraction is markup-tolerant: broken
// or messy XHTML degrades to best-effort text rather than an error. The only
// hard failure modes are a structurally invalid archive (ErrInvalidEPub) and
// DRM-protected content (ErrDRMProtected).
package epub
