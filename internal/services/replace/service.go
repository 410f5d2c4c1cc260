// Package replace implements the find-and-replace pipeline: locate
// occurrences of a literal string in a PDF, sample the background
// behind each one, paint it over, and draw the replacement text with
// the formatting adopted from the matched span.
//
// Go Pattern: The Service struct carries only a progress callback, so
// one value serves both the CLI (printing to the terminal) and the web
// server (logging). Every method opens its own document from raw bytes
// and releases it before returning — no handle outlives an operation,
// and only byte buffers and plain result data cross the boundary.
package replace

import (
	"errors"
	"fmt"

	"github.com/Shimizu-Technology/pdf-replace/internal/models"
	"github.com/Shimizu-Technology/pdf-replace/internal/pdfdoc"
)

// Defaults used by both entry points when the fields are left blank.
const (
	DefaultSearch  = "Premium"
	DefaultReplace = "Standard"
)

// Sentinel errors callers can classify with errors.Is.
var (
	ErrEmptySearch = errors.New("search text is empty")
	ErrNotPDF      = errors.New("not a PDF file")
)

// Service runs document operations. Report, when set, receives one
// human-readable line per replacement and per sampling warning.
type Service struct {
	Report func(format string, args ...any)
}

// New creates a Service with no progress reporting.
func New() *Service {
	return &Service{}
}

func (s *Service) report(format string, args ...any) {
	if s.Report != nil {
		s.Report(format, args...)
	}
}

// open parses data as a PDF. The caller must Close the returned
// document on every path, error paths included.
func (s *Service) open(data []byte) (*pdfdoc.Document, error) {
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		return nil, ErrNotPDF
	}
	return pdfdoc.OpenBytes(data)
}

// SearchResult is the outcome of FindInstances.
type SearchResult struct {
	Search    string
	Instances []models.TextInstance
	Warnings  []string
}

// ReplaceResult is the outcome of Replace.
type ReplaceResult struct {
	Output   []byte
	Count    int
	Warnings []string
}

// sampleWarning records a failed background sample and reports it.
// Sampling is the one recoverable failure in the pipeline: the caller
// continues with white.
func (s *Service) sampleWarning(warnings []string, pageNr int, err error) []string {
	warn := fmt.Sprintf("Could not sample background color: %v", err)
	s.report("  Warning: %s", warn)
	return append(warnings, fmt.Sprintf("Page %d: %s", pageNr, warn))
}
