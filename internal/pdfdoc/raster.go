// raster.go renders page content into RGBA images for previews and
// background sampling (PRT-7).
//
// Fidelity is deliberately limited to what this tool needs: rectangle fills
// and text runs, painted in content-stream order over a white ground. Glyphs
// come from the Go font family at each run's device position, so covered and
// redrawn regions land exactly where the PDF placed them.
package pdfdoc

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

var (
	faceOnce sync.Once
	faces    map[int]*truetype.Font
)

func loadFaces() {
	faces = map[int]*truetype.Font{}
	for flags, data := range map[int][]byte{
		0:                       goregular.TTF,
		StyleBold:               gobold.TTF,
		StyleItalic:             goitalic.TTF,
		StyleBold | StyleItalic: gobolditalic.TTF,
	} {
		if f, err := truetype.Parse(data); err == nil {
			faces[flags] = f
		}
	}
}

// Render rasterizes the page at the given scale. One page point maps to
// scale pixels and the ground is opaque white.
func (p *Page) Render(scale float64) *image.RGBA {
	faceOnce.Do(loadFaces)

	w := int(math.Ceil(p.Width() * scale))
	h := int(math.Ceil(p.Height() * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	walker := &textWalker{
		doc:   p.doc,
		page:  p,
		hooks: &rasterSink{img: img},
	}
	walker.gs.ctm = Matrix{scale, 0, 0, -scale, -p.mediaBox[0] * scale, p.mediaBox[3] * scale}
	walker.gs.fill = 0
	walker.gs.scale = 100
	walker.fonts = p.fonts
	walker.curRes = p.res
	walker.run(ParseOps(p.content))
	walker.finishSpan()
	return img
}

// ClipImage crops a page image to the pixel grid covering r, where r is in
// page points and the image was rendered at the given scale. The crop snaps
// outward to whole pixels.
func ClipImage(img *image.RGBA, r Rect, scale float64) *image.RGBA {
	r = r.Norm()
	px := image.Rect(
		int(math.Floor(r.X0*scale)),
		int(math.Floor(r.Y0*scale)),
		int(math.Ceil(r.X1*scale)),
		int(math.Ceil(r.Y1*scale)),
	).Intersect(img.Bounds())
	return img.SubImage(px).(*image.RGBA)
}

// EncodePNG serializes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// rasterSink draws walker paint events into an RGBA image. Coordinates
// arriving here are already in pixels because the walker's base matrix
// carries the render scale.
type rasterSink struct {
	img *image.RGBA
}

func (rs *rasterSink) fillRect(r Rect, packed int, clip Rect, hasClip bool) {
	if packed == ColorUnset {
		// Pattern and unresolved fills have no single pixel color; leave
		// the area untouched rather than guessing.
		return
	}
	r = r.Norm()
	px := image.Rect(
		int(math.Floor(r.X0)),
		int(math.Floor(r.Y0)),
		int(math.Ceil(r.X1)),
		int(math.Ceil(r.Y1)),
	)
	if hasClip {
		px = px.Intersect(clipPixels(clip))
	}
	px = px.Intersect(rs.img.Bounds())
	if px.Empty() {
		return
	}
	draw.Draw(rs.img, px, image.NewUniform(rgbaFromPacked(packed)), image.Point{}, draw.Src)
}

func (rs *rasterSink) span(s Span, clip Rect, hasClip bool) {
	if s.render == 3 || s.render == 7 {
		// Invisible text stays searchable but is never painted.
		return
	}
	face := faces[s.Flags&(StyleBold|StyleItalic)]
	if face == nil {
		face = faces[0]
	}
	if face == nil || s.Size <= 0 {
		return
	}

	bounds := rs.img.Bounds()
	if hasClip {
		bounds = bounds.Intersect(clipPixels(clip))
		if bounds.Empty() {
			return
		}
	}

	packed := s.Color
	if packed == ColorUnset {
		packed = 0
	}

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(face)
	c.SetFontSize(s.Size)
	c.SetClip(bounds)
	c.SetDst(rs.img)
	c.SetSrc(image.NewUniform(rgbaFromPacked(packed)))
	c.SetHinting(font.HintingNone)

	// Draw rune by rune at the extracted pen offsets so long runs stay
	// registered with the original layout even though the preview face
	// has different metrics.
	i := 0
	for _, r := range s.Text {
		if i >= len(s.offsets) {
			break
		}
		if r != ' ' {
			var pt fixed.Point26_6
			pt.X = fixed.Int26_6(s.offsets[i] * 64)
			pt.Y = fixed.Int26_6(s.baseline * 64)
			c.DrawString(string(r), pt)
		}
		i++
	}
}

func clipPixels(clip Rect) image.Rectangle {
	clip = clip.Norm()
	return image.Rect(
		int(math.Floor(clip.X0)),
		int(math.Floor(clip.Y0)),
		int(math.Ceil(clip.X1)),
		int(math.Ceil(clip.Y1)),
	)
}

func rgbaFromPacked(packed int) color.RGBA {
	return color.RGBA{
		R: uint8(packed >> 16 & 0xFF),
		G: uint8(packed >> 8 & 0xFF),
		B: uint8(packed & 0xFF),
		A: 0xFF,
	}
}
