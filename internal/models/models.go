// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// There is no database in this tool — every struct here is either an
// in-memory value passed between services or a DTO for the HTTP API.
// The JSON tags (e.g., `json:"page"`) control how struct fields are
// serialized to/from JSON; the `form` tags map multipart form fields.
package models

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// FontFamily names the font a replacement is drawn with. Only the two
// standard Helvetica faces are used, matching the weight adopted from
// the span being replaced.
//
// Go Pattern: We use string constants instead of enums (Go doesn't have
// enums). The values double as PDF base font names.
type FontFamily string

const (
	FontRegular FontFamily = "Helvetica"
	FontBold    FontFamily = "Helvetica-Bold"
)

// StyleBold is the bold bit in a span's style-flag bitmask.
const StyleBold = 1 << 4

// FontForFlags selects the replacement font for a span's style flags:
// bold bit set → bold face, anything else → regular. Italic and the
// other bits deliberately do not influence the choice.
func FontForFlags(flags int) FontFamily {
	if flags&StyleBold != 0 {
		return FontBold
	}
	return FontRegular
}

// RGB is a color with channels in the 0–1 range, the convention PDF
// content streams use for rg/RG operands.
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// White is the fallback when background sampling fails; Black is the
// fallback when a span's color cannot be decoded.
var (
	White = RGB{R: 1, G: 1, B: 1}
	Black = RGB{R: 0, G: 0, B: 0}
)

// String formats the color the way the instance list displays it,
// rounded to two decimals.
func (c RGB) String() string {
	return fmt.Sprintf("RGB(%.2f, %.2f, %.2f)", c.R, c.G, c.B)
}

// Hex returns the #rrggbb form for HTML color swatches. Out-of-range
// channels are clamped first so a slightly off sample still renders.
func (c RGB) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// DecodeTextColor converts a span's packed 24-bit fill color (0xRRGGBB)
// to RGB with each channel scaled to [0,1]. Anything that is not a
// packed 24-bit value — the negative sentinel the extractor uses for
// pattern/unset fills, or an out-of-range int — decodes to black.
// This is a deliberate simplification, not a general colorspace decoder.
func DecodeTextColor(packed int) RGB {
	if packed < 0 || packed > 0xFFFFFF {
		return Black
	}
	return RGB{
		R: float64(packed>>16&0xFF) / 255.0,
		G: float64(packed>>8&0xFF) / 255.0,
		B: float64(packed&0xFF) / 255.0,
	}
}

// TextInstance records one rendered occurrence of the search string,
// with the formatting adopted from the first span that contained it.
// Instances are read-only once created and are superseded wholesale by
// the next search.
type TextInstance struct {
	Page       int        `json:"page"`       // 1-based
	Rect       [4]float64 `json:"rect"`       // x0, y0, x1, y1 in page units, y grows down
	Text       string     `json:"text"`       // the matched substring
	Context    string     `json:"context"`    // full text of the span that matched
	FontSize   float64    `json:"font_size"`  // points
	Color      RGB        `json:"color"`      // decoded text color
	Background RGB        `json:"background"` // sampled behind the occurrence
	Font       FontFamily `json:"font"`
}

// ReplacementSpec is the formatting adopted from a matched span,
// consumed exactly once when covering and redrawing a single
// occurrence. The background is sampled separately at replace time so
// the sample reflects the page before any edits.
type ReplacementSpec struct {
	Rect     [4]float64
	FontSize float64
	Color    RGB
	Font     FontFamily
}

// --- Request/Response DTOs (Data Transfer Objects) ---
// Go Pattern: Separate structs for API input/output vs internal values.
// This keeps the API contract independent of how the services work.

// ReplaceRequest holds the form fields shared by the web form and the
// JSON API. The uploaded file part is read separately by the handler.
// An empty replace field falls back to the default; an empty search is
// an input error, never defaulted silently.
type ReplaceRequest struct {
	Search  string `form:"search"`
	Replace string `form:"replace"`
}

// DocumentInfo summarizes an uploaded document for display next to the
// search results.
type DocumentInfo struct {
	Filename  string `json:"filename"`
	PageCount int    `json:"page_count"`
	WordCount int    `json:"word_count"`
}

// SearchResponse is the JSON body for POST /api/v1/replace/search.
// Warnings carries non-fatal problems (a background sample that fell
// back to white); the search itself still succeeded.
type SearchResponse struct {
	Search    string         `json:"search"`
	Count     int            `json:"count"`
	Instances []TextInstance `json:"instances"`
	Document  *DocumentInfo  `json:"document,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}
