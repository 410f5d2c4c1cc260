package pdfdoc

import (
	"math"
	"testing"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func onlySpan(t *testing.T, tp *TextPage) *Span {
	t.Helper()
	var spans []*Span
	for bi := range tp.Blocks {
		for li := range tp.Blocks[bi].Lines {
			for si := range tp.Blocks[bi].Lines[li].Spans {
				spans = append(spans, &tp.Blocks[bi].Lines[li].Spans[si])
			}
		}
	}
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	return spans[0]
}

func TestExtractSimpleText(t *testing.T) {
	p := fixturePage(t, "BT /F1 12 Tf 72 720 Td (Hello World) Tj ET")
	sp := onlySpan(t, p.ExtractText())

	if sp.Text != "Hello World" {
		t.Errorf("Text = %q, want %q", sp.Text, "Hello World")
	}
	if !near(sp.Size, 12, 0.01) {
		t.Errorf("Size = %v, want 12", sp.Size)
	}
	if sp.Color != 0 {
		t.Errorf("Color = %#x, want 0", sp.Color)
	}
	if sp.Flags != 0 {
		t.Errorf("Flags = %d, want 0", sp.Flags)
	}
	if sp.Font != "Helvetica" {
		t.Errorf("Font = %q, want Helvetica", sp.Font)
	}
	// Baseline is at 792-720=72 in top-down coordinates; the advance sum
	// for "Hello World" in Helvetica at 12pt is 62.004.
	if !near(sp.Rect.X0, 72, 0.01) || !near(sp.Rect.X1, 134.004, 0.05) {
		t.Errorf("Rect x = [%v, %v], want [72, 134.004]", sp.Rect.X0, sp.Rect.X1)
	}
	if !near(sp.Rect.Y0, 62.4, 0.05) || !near(sp.Rect.Y1, 74.4, 0.05) {
		t.Errorf("Rect y = [%v, %v], want [62.4, 74.4]", sp.Rect.Y0, sp.Rect.Y1)
	}
}

func TestExtractBoldAndColor(t *testing.T) {
	p := fixturePage(t, "BT /F2 14 Tf 1 0 0 rg 100 700 Td (Alert) Tj ET")
	sp := onlySpan(t, p.ExtractText())

	if sp.Text != "Alert" {
		t.Errorf("Text = %q, want Alert", sp.Text)
	}
	if sp.Color != 0xFF0000 {
		t.Errorf("Color = %#x, want 0xFF0000", sp.Color)
	}
	if sp.Flags&StyleBold == 0 {
		t.Errorf("Flags = %d, want bold bit set", sp.Flags)
	}
	if sp.Font != "Helvetica-Bold" {
		t.Errorf("Font = %q, want Helvetica-Bold", sp.Font)
	}
	if !near(sp.Size, 14, 0.01) {
		t.Errorf("Size = %v, want 14", sp.Size)
	}
}

func TestExtractGrayFill(t *testing.T) {
	p := fixturePage(t, "BT /F1 10 Tf 0.5 g 72 700 Td (Dim) Tj ET")
	sp := onlySpan(t, p.ExtractText())
	if sp.Color != 0x808080 {
		t.Errorf("Color = %#x, want 0x808080", sp.Color)
	}
}

func TestExtractMergesPositionedWords(t *testing.T) {
	// Each word is placed with its own Td. The 2.66pt gap between them is
	// word-sized, so extraction bridges it with a space.
	p := fixturePage(t, "BT /F1 12 Tf 72 700 Td (Hello) Tj 30 0 Td (World) Tj ET")
	sp := onlySpan(t, p.ExtractText())

	if sp.Text != "Hello World" {
		t.Errorf("Text = %q, want %q", sp.Text, "Hello World")
	}
	if !near(sp.Rect.X0, 72, 0.01) || !near(sp.Rect.X1, 133.332, 0.05) {
		t.Errorf("Rect x = [%v, %v], want [72, 133.332]", sp.Rect.X0, sp.Rect.X1)
	}
}

func TestExtractTJKerning(t *testing.T) {
	p := fixturePage(t, "BT /F1 12 Tf 72 600 Td [(A) -50 (B)] TJ ET")
	sp := onlySpan(t, p.ExtractText())

	if sp.Text != "AB" {
		t.Errorf("Text = %q, want AB", sp.Text)
	}
	// 667/1000*12 per glyph plus the 0.6pt kern gap.
	if !near(sp.Rect.X1, 88.608, 0.05) {
		t.Errorf("Rect.X1 = %v, want 88.608", sp.Rect.X1)
	}
}

func TestExtractLineAndBlockGrouping(t *testing.T) {
	p := fixturePage(t,
		"BT /F1 12 Tf 72 700 Td (First line) Tj 0 -14 Td (Second line) Tj 0 -100 Td (Far away) Tj ET")
	tp := p.ExtractText()

	if len(tp.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(tp.Blocks))
	}
	first := tp.Blocks[0]
	if len(first.Lines) != 2 {
		t.Fatalf("first block has %d lines, want 2", len(first.Lines))
	}
	if got := first.Lines[0].Text(); got != "First line" {
		t.Errorf("line 0 = %q, want %q", got, "First line")
	}
	if got := first.Lines[1].Text(); got != "Second line" {
		t.Errorf("line 1 = %q, want %q", got, "Second line")
	}
	if got := tp.Blocks[1].Lines[0].Text(); got != "Far away" {
		t.Errorf("second block line = %q, want %q", got, "Far away")
	}
}

func TestExtractMultiplePages(t *testing.T) {
	doc := openFixture(t,
		"BT /F1 12 Tf 72 700 Td (Page one) Tj ET",
		"BT /F1 12 Tf 72 700 Td (Page two) Tj ET")
	if doc.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", doc.PageCount())
	}
	p2, err := doc.Page(2)
	if err != nil {
		t.Fatalf("Page(2) error = %v", err)
	}
	sp := onlySpan(t, p2.ExtractText())
	if sp.Text != "Page two" {
		t.Errorf("Text = %q, want %q", sp.Text, "Page two")
	}
}

func TestExtractEmptyPage(t *testing.T) {
	p := fixturePage(t, "1 1 1 rg 0 0 612 792 re f")
	tp := p.ExtractText()
	if len(tp.Blocks) != 0 {
		t.Errorf("got %d blocks on a text-free page, want 0", len(tp.Blocks))
	}
}

func TestPageGeometry(t *testing.T) {
	p := fixturePage(t, "BT /F1 12 Tf 72 700 Td (x) Tj ET")
	if p.Width() != 612 || p.Height() != 792 {
		t.Errorf("page size = %vx%v, want 612x792", p.Width(), p.Height())
	}
	if got, want := p.Bounds(), (Rect{0, 0, 612, 792}); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestPageOutOfRange(t *testing.T) {
	doc := openFixture(t, "BT /F1 12 Tf 72 700 Td (x) Tj ET")
	if _, err := doc.Page(2); err == nil {
		t.Error("Page(2) on a one-page document should fail")
	}
	if _, err := doc.Page(0); err == nil {
		t.Error("Page(0) should fail")
	}
}
