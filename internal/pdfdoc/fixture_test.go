package pdfdoc

import (
	"testing"

	"github.com/Shimizu-Technology/pdf-replace/internal/testpdf"
)

// openFixture builds a PDF in memory and opens it. Every fixture page
// is US Letter with /F1 Helvetica and /F2 Helvetica-Bold available.
func openFixture(t testing.TB, pages ...string) *Document {
	t.Helper()
	doc, err := OpenBytes(testpdf.Build(pages...))
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	return doc
}

// fixturePage opens a one-page fixture and returns its page.
func fixturePage(t testing.TB, content string) *Page {
	t.Helper()
	doc := openFixture(t, content)
	p, err := doc.Page(1)
	if err != nil {
		t.Fatalf("Page(1) error = %v", err)
	}
	return p
}
