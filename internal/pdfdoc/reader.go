// Package pdfdoc is the boundary to the report document. The pipeline only
// ever sees Document: pages in order, plain text per page. Everything below
// that (fonts, content streams, encodings) stays inside the pdf library.
package pdfdoc

import (
	"fmt"

	"github.com/dslipak/pdf"
)

// Document exposes the pages of a text-extractable report document.
// Page numbers are 1-based, matching how the underlying library counts.
type Document interface {
	NumPages() int
	// PageText returns the plain text of page n. Extraction failures on a
	// single page are reported as errors; callers decide whether a page is
	// load-bearing.
	PageText(n int) (string, error)
}

type pdfDocument struct {
	reader *pdf.Reader
}

// Open opens a PDF file as a Document.
func Open(path string) (Document, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	return &pdfDocument{reader: r}, nil
}

func (d *pdfDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) PageText(n int) (string, error) {
	page := d.reader.Page(n)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is empty or missing", n)
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", n, err)
	}
	return text, nil
}
