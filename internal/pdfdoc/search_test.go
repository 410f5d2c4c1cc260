package pdfdoc

import "testing"

func TestSearchFindsOccurrences(t *testing.T) {
	p := fixturePage(t, "BT /F1 12 Tf 72 720 Td (Premium due by March 1) Tj ET")
	tp := p.ExtractText()

	rects := tp.Search("Premium")
	if len(rects) != 1 {
		t.Fatalf("Search(Premium) = %d rects, want 1", len(rects))
	}
	r := rects[0]
	if !near(r.X0, 72, 0.01) {
		t.Errorf("X0 = %v, want 72", r.X0)
	}
	// "Premium" in Helvetica at 12pt spans 48pt.
	if !near(r.X1, 120, 0.05) {
		t.Errorf("X1 = %v, want 120", r.X1)
	}
	if !near(r.Y0, 62.4, 0.05) || !near(r.Y1, 74.4, 0.05) {
		t.Errorf("y = [%v, %v], want [62.4, 74.4]", r.Y0, r.Y1)
	}
}

func TestSearchInsideLine(t *testing.T) {
	p := fixturePage(t, "BT /F1 12 Tf 72 720 Td (Premium due by March 1) Tj ET")
	rects := p.ExtractText().Search("due")
	if len(rects) != 1 {
		t.Fatalf("Search(due) = %d rects, want 1", len(rects))
	}
	// "Premium " precedes the match, so the rect starts past x=72.
	if rects[0].X0 <= 72 {
		t.Errorf("X0 = %v, want > 72", rects[0].X0)
	}
}

func TestSearchMisses(t *testing.T) {
	p := fixturePage(t, "BT /F1 12 Tf 72 720 Td (Premium due by March 1) Tj ET")
	tp := p.ExtractText()

	tests := []struct {
		name   string
		needle string
	}{
		{name: "absent text", needle: "Standard"},
		{name: "case differs", needle: "premium"},
		{name: "empty needle", needle: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tp.Search(tt.needle); len(got) != 0 {
				t.Errorf("Search(%q) = %d rects, want 0", tt.needle, len(got))
			}
		})
	}
}

func TestSearchNonOverlapping(t *testing.T) {
	p := fixturePage(t, "BT /F1 12 Tf 72 720 Td (aaaa) Tj ET")
	if got := p.ExtractText().Search("aa"); len(got) != 2 {
		t.Errorf("Search(aa) in aaaa = %d rects, want 2", len(got))
	}
}

func TestSearchMultipleHitsOnOneLine(t *testing.T) {
	p := fixturePage(t, "BT /F1 12 Tf 72 720 Td (fee fie fee) Tj ET")
	rects := p.ExtractText().Search("fee")
	if len(rects) != 2 {
		t.Fatalf("Search(fee) = %d rects, want 2", len(rects))
	}
	if rects[0].X0 >= rects[1].X0 {
		t.Errorf("rects out of reading order: %v then %v", rects[0], rects[1])
	}
}

func TestSearchAcrossPositionedWords(t *testing.T) {
	// Word-by-word positioning still matches a multi-word needle because
	// extraction bridges word gaps.
	p := fixturePage(t, "BT /F1 12 Tf 72 700 Td (Hello) Tj 30 0 Td (World) Tj ET")
	rects := p.ExtractText().Search("Hello World")
	if len(rects) != 1 {
		t.Fatalf("Search() = %d rects, want 1", len(rects))
	}
	if !near(rects[0].X0, 72, 0.01) || !near(rects[0].X1, 133.332, 0.05) {
		t.Errorf("rect x = [%v, %v], want [72, 133.332]", rects[0].X0, rects[0].X1)
	}
}

func TestSearchDoesNotCrossLines(t *testing.T) {
	p := fixturePage(t, "BT /F1 12 Tf 72 700 Td (first) Tj 0 -14 Td (second) Tj ET")
	if got := p.ExtractText().Search("firstsecond"); len(got) != 0 {
		t.Errorf("Search across lines = %d rects, want 0", len(got))
	}
}
