// Package pdfcheck is the client-side filter applied to a document before it
// is offered for upload. It never extracts text.
package pdfcheck

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/set-night/ragzy/internal/domain"
)

const MimeType = "application/pdf"

// IsPDFName checks if the provided filename has a .pdf extension (case-insensitive).
func IsPDFName(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// Accepts reports whether a file announced with this name and MIME type passes the filter.
func Accepts(filename, mimeType string) bool {
	return IsPDFName(filename) || strings.EqualFold(mimeType, MimeType)
}

// Validate opens data as a PDF and returns its page count.
func Validate(data []byte) (pages int, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0, fmt.Errorf("%w: missing %%PDF header", domain.ErrNotPDF)
	}

	// The reader panics on some truncated xref tables.
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = fmt.Errorf("%w: %v", domain.ErrNotPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrNotPDF, err)
	}
	return reader.NumPage(), nil
}
