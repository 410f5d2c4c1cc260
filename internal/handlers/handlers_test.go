// handlers_test.go covers the pure helpers shared by the handler files.
//
// Go Pattern: Table-driven tests are the standard Go testing pattern.
// You define a slice of test cases (each with a name, inputs, and expected
// outputs), then loop through them.
package handlers

import (
	"strings"
	"testing"
)

// TestOutputFilename verifies the "<stem>_modified.pdf" derivation.
func TestOutputFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain name",
			input:    "report.pdf",
			expected: "report_modified.pdf",
		},
		{
			name:     "uppercase extension",
			input:    "Invoice.PDF",
			expected: "Invoice_modified.pdf",
		},
		{
			name:     "name with spaces",
			input:    "annual report 2024.pdf",
			expected: "annual report 2024_modified.pdf",
		},
		{
			name:     "path is stripped",
			input:    "uploads/2024/report.pdf",
			expected: "report_modified.pdf",
		},
		{
			name:     "unsafe characters",
			input:    "Part 1/2: Findings.pdf",
			expected: "2- Findings_modified.pdf",
		},
		{
			name:     "empty name falls back",
			input:    "",
			expected: "document_modified.pdf",
		},
		{
			name:     "bare extension falls back",
			input:    ".pdf",
			expected: "document_modified.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := outputFilename(tt.input)
			if result != tt.expected {
				t.Errorf("outputFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestSanitizeFilename verifies filename sanitization.
func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean filename",
			input:    "My Report",
			expected: "My Report",
		},
		{
			name:     "slashes and colons",
			input:    "Part 1/2: Findings",
			expected: "Part 1-2- Findings",
		},
		{
			name:     "quotes and angle brackets",
			input:    `What is "this"? <draft>`,
			expected: "What is -this- -draft-",
		},
		{
			name:     "newlines collapse to spaces",
			input:    "line one\nline two",
			expected: "line one line two",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "very long names are truncated",
			input:    strings.Repeat("a", 150),
			expected: strings.Repeat("a", 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
