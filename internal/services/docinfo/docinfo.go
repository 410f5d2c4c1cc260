// Package docinfo summarizes uploaded documents for display alongside
// search results.
//
// We use the ledongthuc/pdf library for the summary. It's a pure Go
// implementation — no CGO or external dependencies required. The
// replace pipeline carries its own deeper PDF machinery; this package
// stays independent of it so a summary never touches the editing path.
package docinfo

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Info summarizes one document.
type Info struct {
	PageCount int
	WordCount int
}

// IsPDF checks if the data looks like a PDF by checking the magic bytes.
func IsPDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// Inspect reads the document and counts its pages and words.
//
// Go Pattern: We accept a byte slice instead of a filename because the
// data comes from an HTTP upload (in memory), not a file on disk; the
// pdf library needs io.ReaderAt for random access, which bytes.Reader
// provides. Pages whose text cannot be extracted count zero words —
// some pages are images only. Only a document that cannot be opened at
// all is an error.
func Inspect(data []byte) (*Info, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	info := &Info{PageCount: pdfReader.NumPage()}
	for i := 1; i <= info.PageCount; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		info.WordCount += len(strings.Fields(text))
	}
	return info, nil
}
