// locator.go resolves search hits to formatted text instances.
package replace

import (
	"fmt"
	"strings"

	"github.com/Shimizu-Technology/pdf-replace/internal/models"
	"github.com/Shimizu-Technology/pdf-replace/internal/pdfdoc"
)

// match pairs one occurrence rectangle with the formatting adopted from
// the first span that contains the search text.
type match struct {
	rect    pdfdoc.Rect
	context string
	spec    models.ReplacementSpec
}

// FindInstances locates every occurrence of search across the document
// and returns one instance per occurrence, in page order then reading
// order, each with its background sampled from the untouched page.
// Zero instances is a valid empty result, not an error.
func (s *Service) FindInstances(data []byte, search string) (*SearchResult, error) {
	if search == "" {
		return nil, ErrEmptySearch
	}
	doc, err := s.open(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	res := &SearchResult{Search: search}
	for nr := 1; nr <= doc.PageCount(); nr++ {
		page, err := doc.Page(nr)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", nr, err)
		}
		matches := locatePage(page, search)
		if len(matches) == 0 {
			continue
		}

		sampler := newPageSampler(page)
		for _, m := range matches {
			bg, err := sampler.Sample(m.rect)
			if err != nil {
				res.Warnings = s.sampleWarning(res.Warnings, nr, err)
			}
			res.Instances = append(res.Instances, models.TextInstance{
				Page:       nr,
				Rect:       m.spec.Rect,
				Text:       search,
				Context:    m.context,
				FontSize:   m.spec.FontSize,
				Color:      m.spec.Color,
				Background: bg,
				Font:       m.spec.Font,
			})
		}
	}
	return res, nil
}

// locatePage finds every occurrence of search on one page and resolves
// its formatting. Occurrences with no qualifying span are dropped
// entirely: a rectangle the structural traversal cannot explain cannot
// be replaced faithfully.
func locatePage(p *pdfdoc.Page, search string) []match {
	tp := p.ExtractText()
	rects := tp.Search(search)
	if len(rects) == 0 {
		return nil
	}

	matches := make([]match, 0, len(rects))
	for _, occ := range rects {
		sp, ok := adoptSpan(tp, occ, search)
		if !ok {
			continue
		}
		matches = append(matches, match{
			rect:    occ,
			context: sp.Text,
			spec: models.ReplacementSpec{
				Rect:     [4]float64{occ.X0, occ.Y0, occ.X1, occ.Y1},
				FontSize: sp.Size,
				Color:    models.DecodeTextColor(sp.Color),
				Font:     models.FontForFlags(sp.Flags),
			},
		})
	}
	return matches
}

// adoptSpan walks blocks, lines, and spans in traversal order and
// returns the first span whose rectangle intersects the occurrence and
// whose text contains the search string. First match wins: when several
// spans overlap the rectangle, traversal order decides, an accepted
// ambiguity of the source formatting.
func adoptSpan(tp *pdfdoc.TextPage, occ pdfdoc.Rect, search string) (*pdfdoc.Span, bool) {
	for bi := range tp.Blocks {
		lines := tp.Blocks[bi].Lines
		for li := range lines {
			spans := lines[li].Spans
			for si := range spans {
				sp := &spans[si]
				if sp.Rect.Intersects(occ) && strings.Contains(sp.Text, search) {
					return sp, true
				}
			}
		}
	}
	return nil, false
}
