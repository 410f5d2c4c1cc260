// sampler.go picks the dominant background color behind an occurrence.
package replace

import (
	"errors"
	"image"

	"github.com/Shimizu-Technology/pdf-replace/internal/models"
	"github.com/Shimizu-Technology/pdf-replace/internal/pdfdoc"
)

// Margins added around an occurrence before sampling, and the cap on
// sampled columns per pixel row.
const (
	sampleMarginX    = 5.0
	sampleMarginY    = 2.0
	maxSampleColumns = 10
)

var errEmptySampleRegion = errors.New("sample region is empty")

// pageSampler samples background colors against one render of a page at
// native resolution. The render happens before any edit touches the
// page; rendering once and cropping per rectangle keeps repeated
// samples cheap and on a single pixel grid.
type pageSampler struct {
	img *image.RGBA
}

func newPageSampler(p *pdfdoc.Page) *pageSampler {
	return &pageSampler{img: p.Render(1.0)}
}

// Sample returns the most frequent exact RGB triple along the top pixel
// row and, when the region is taller than one pixel, the bottom pixel
// row of the occurrence rectangle expanded by the sampling margins.
// Text interiors vary pixel to pixel, but the border directly above and
// below a text line is usually uniform background, and a frequency mode
// shrugs off the few samples that land on glyph anti-aliasing.
//
// On failure it returns white and a non-nil error; the caller surfaces
// the warning and keeps going. This is the one soft failure in the
// pipeline.
func (ps *pageSampler) Sample(rect pdfdoc.Rect) (models.RGB, error) {
	clip := pdfdoc.ClipImage(ps.img, rect.Expanded(sampleMarginX, sampleMarginY), 1.0)
	b := clip.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return models.White, errEmptySampleRegion
	}

	step := w / maxSampleColumns
	if step < 1 {
		step = 1
	}

	counts := make(map[[3]uint8]int)
	var best [3]uint8
	bestN := 0
	tally := func(x, y int) {
		px := clip.RGBAAt(x, y)
		key := [3]uint8{px.R, px.G, px.B}
		counts[key]++
		// On a tie the first triple to reach the count stays ahead.
		if counts[key] > bestN {
			bestN = counts[key]
			best = key
		}
	}
	for x := b.Min.X; x < b.Max.X; x += step {
		tally(x, b.Min.Y)
		if h > 1 {
			tally(x, b.Max.Y-1)
		}
	}

	return models.RGB{
		R: float64(best[0]) / 255.0,
		G: float64(best[1]) / 255.0,
		B: float64(best[2]) / 255.0,
	}, nil
}
