package pdfdoc

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestRenderSolidFill(t *testing.T) {
	p := fixturePage(t, "1 0 0 rg 0 0 612 792 re f")
	img := p.Render(1.0)

	if got := img.Bounds().Dx(); got != 612 {
		t.Errorf("width = %d, want 612", got)
	}
	if got := img.Bounds().Dy(); got != 792 {
		t.Errorf("height = %d, want 792", got)
	}
	want := color.RGBA{R: 255, A: 255}
	for _, pt := range [][2]int{{0, 0}, {10, 10}, {611, 791}, {300, 400}} {
		if got := img.RGBAAt(pt[0], pt[1]); got != want {
			t.Errorf("pixel %v = %v, want %v", pt, got, want)
		}
	}
}

func TestRenderWhiteGround(t *testing.T) {
	p := fixturePage(t, "q Q")
	img := p.Render(1.0)
	want := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for _, pt := range [][2]int{{0, 0}, {306, 396}, {611, 791}} {
		if got := img.RGBAAt(pt[0], pt[1]); got != want {
			t.Errorf("pixel %v = %v, want white", pt, got)
		}
	}
}

func TestRenderScale(t *testing.T) {
	p := fixturePage(t, "q Q")
	img := p.Render(2.0)
	if img.Bounds().Dx() != 1224 || img.Bounds().Dy() != 1584 {
		t.Errorf("bounds = %v, want 1224x1584", img.Bounds())
	}
}

func TestRenderPartialFillPlacement(t *testing.T) {
	// A 100x50 green rect with its bottom-left at PDF (100, 642) sits at
	// device rows 100..150.
	p := fixturePage(t, "0 1 0 rg 100 642 100 50 re f")
	img := p.Render(1.0)

	green := color.RGBA{G: 255, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := img.RGBAAt(150, 125); got != green {
		t.Errorf("inside pixel = %v, want green", got)
	}
	if got := img.RGBAAt(150, 160); got != white {
		t.Errorf("below pixel = %v, want white", got)
	}
	if got := img.RGBAAt(90, 125); got != white {
		t.Errorf("left pixel = %v, want white", got)
	}
}

func TestRenderTextPaintsInk(t *testing.T) {
	p := fixturePage(t, "BT /F1 24 Tf 0 0 0 rg 72 700 Td (Hello) Tj ET")
	img := p.Render(1.0)

	found := false
	for y := 60; y < 100 && !found; y++ {
		for x := 70; x < 160; x++ {
			c := img.RGBAAt(x, y)
			if c.R < 128 && c.G < 128 && c.B < 128 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no dark pixels where 24pt text should render")
	}
}

func TestRenderCoverHidesText(t *testing.T) {
	// The white rect paints after the text, so the covered area must come
	// out clean.
	p := fixturePage(t, "BT /F1 24 Tf 72 700 Td (Hello) Tj ET 1 1 1 rg 60 660 200 60 re f")
	img := p.Render(1.0)

	for y := 74; y < 131; y++ {
		for x := 62; x < 258; x++ {
			c := img.RGBAAt(x, y)
			if c.R < 250 || c.G < 250 || c.B < 250 {
				t.Fatalf("pixel (%d,%d) = %v, want white under cover", x, y, c)
			}
		}
	}
}

func TestClipImage(t *testing.T) {
	p := fixturePage(t, "1 0 0 rg 0 0 612 792 re f")
	img := p.Render(1.0)

	clip := ClipImage(img, Rect{10.3, 20.7, 30.1, 25.2}, 1.0)
	b := clip.Bounds()
	if b.Min.X != 10 || b.Min.Y != 20 || b.Max.X != 31 || b.Max.Y != 26 {
		t.Errorf("clip bounds = %v, want (10,20)-(31,26)", b)
	}
	if got := clip.RGBAAt(b.Min.X, b.Min.Y); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("clip pixel = %v, want red", got)
	}
}

func TestEncodePNG(t *testing.T) {
	p := fixturePage(t, "0 0 1 rg 0 0 612 792 re f")
	data, err := EncodePNG(p.Render(1.0))
	if err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if decoded.Bounds().Dx() != 612 || decoded.Bounds().Dy() != 792 {
		t.Errorf("decoded bounds = %v, want 612x792", decoded.Bounds())
	}
}

func TestRenderEditedPage(t *testing.T) {
	p := fixturePage(t, "BT /F1 18 Tf 72 700 Td (Confidential) Tj ET")

	fres, err := p.EnsureFont(FontHelvetica)
	if err != nil {
		t.Fatalf("EnsureFont() error = %v", err)
	}
	ed := p.NewEditor()
	// Cover the old run, then write elsewhere on the page.
	ed.FillRect(Rect{70, 74, 220, 98}, [3]float64{1, 1, 1})
	ed.DrawText("Public", fres, 18, Point{72, 300}, [3]float64{0, 0, 0})
	if err := ed.Apply(); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	img := p.Render(1.0)
	for y := 76; y < 96; y++ {
		for x := 72; x < 218; x++ {
			c := img.RGBAAt(x, y)
			if c.R < 250 {
				t.Fatalf("pixel (%d,%d) = %v, covered text still visible", x, y, c)
			}
		}
	}
	found := false
	for y := 282; y < 302 && !found; y++ {
		for x := 70; x < 140; x++ {
			if c := img.RGBAAt(x, y); c.R < 128 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("replacement text not rendered")
	}
}
