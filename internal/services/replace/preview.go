// preview.go renders pages for the before/after comparison.
package replace

import (
	"fmt"

	"github.com/Shimizu-Technology/pdf-replace/internal/pdfdoc"
)

// previewScale is the fixed magnification for preview images.
const previewScale = 2.0

// RenderPreview rasterizes page nr (1-based) at 2x and encodes it as
// PNG. Every call re-renders from the given bytes, so the image always
// reflects them; nothing is cached.
func (s *Service) RenderPreview(data []byte, nr int) ([]byte, error) {
	doc, err := s.open(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	page, err := doc.Page(nr)
	if err != nil {
		return nil, fmt.Errorf("preview page %d: %w", nr, err)
	}
	return pdfdoc.EncodePNG(page.Render(previewScale))
}
