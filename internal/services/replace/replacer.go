// replacer.go covers matched text and draws the replacement string.
package replace

import (
	"bytes"
	"fmt"

	"github.com/Shimizu-Technology/pdf-replace/internal/models"
	"github.com/Shimizu-Technology/pdf-replace/internal/pdfdoc"
)

// Cover rectangles extend this far beyond the occurrence on each side
// so no sliver of the old glyphs survives; the replacement baseline
// sits this far above the occurrence's bottom edge.
const (
	coverMarginX = 1.0
	baselineLift = 2.0
)

// Replace locates every occurrence of search, covers each one with its
// sampled background color, and draws replacement in its place with the
// adopted size, color, and font. It returns the re-serialized document
// and the number of replacements performed. Any processing error aborts
// the whole operation; there is never partial output.
func (s *Service) Replace(data []byte, search, replacement string) (*ReplaceResult, error) {
	if search == "" {
		return nil, ErrEmptySearch
	}
	doc, err := s.open(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	res := &ReplaceResult{}
	for nr := 1; nr <= doc.PageCount(); nr++ {
		page, err := doc.Page(nr)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", nr, err)
		}
		matches := locatePage(page, search)
		if len(matches) == 0 {
			continue
		}

		// Sample every background first so the samples reflect the
		// page before any cover rectangle lands on it.
		sampler := newPageSampler(page)
		backgrounds := make([]models.RGB, len(matches))
		for i, m := range matches {
			bg, err := sampler.Sample(m.rect)
			if err != nil {
				res.Warnings = s.sampleWarning(res.Warnings, nr, err)
			}
			backgrounds[i] = bg
		}

		ed := page.NewEditor()
		for i, m := range matches {
			bg := backgrounds[i]
			s.report("  Page %d: BG=%v, Text=%v, Size=%.1f", nr, bg, m.spec.Color, m.spec.FontSize)

			cover := pdfdoc.Rect{
				X0: m.rect.X0 - coverMarginX,
				Y0: m.rect.Y0,
				X1: m.rect.X1 + coverMarginX,
				Y1: m.rect.Y1,
			}
			ed.FillRect(cover, [3]float64{bg.R, bg.G, bg.B})

			fontRes, err := page.EnsureFont(string(m.spec.Font))
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", nr, err)
			}
			ed.DrawText(replacement, fontRes, m.spec.FontSize,
				pdfdoc.Point{X: m.rect.X0, Y: m.rect.Y1 - baselineLift},
				[3]float64{m.spec.Color.R, m.spec.Color.G, m.spec.Color.B})
			res.Count++
		}
		if err := ed.Apply(); err != nil {
			return nil, fmt.Errorf("page %d: %w", nr, err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	res.Output = buf.Bytes()
	return res, nil
}
