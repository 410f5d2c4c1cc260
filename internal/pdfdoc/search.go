// search.go finds literal text occurrences on an extracted page (PRT-5).
package pdfdoc

import "strings"

// Search returns the bounding rectangle of each occurrence of needle on the
// page, in reading order. Matching is case-sensitive, literal, and
// non-overlapping, and never crosses a line boundary.
func (tp *TextPage) Search(needle string) []Rect {
	if needle == "" {
		return nil
	}
	var out []Rect
	for bi := range tp.Blocks {
		for li := range tp.Blocks[bi].Lines {
			out = append(out, tp.Blocks[bi].Lines[li].search(needle)...)
		}
	}
	return out
}

func (l *Line) search(needle string) []Rect {
	text := l.Text()
	var out []Rect
	from := 0
	for {
		i := strings.Index(text[from:], needle)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(needle)
		rs := len([]rune(text[:start]))
		re := rs + len([]rune(needle))
		if r, ok := l.rectForRuneRange(rs, re); ok {
			out = append(out, r)
		}
		from = end
	}
	return out
}

// rectForRuneRange unions the glyph boxes for line runes [start, end),
// using each span's per-rune offsets for exact horizontal extents.
func (l *Line) rectForRuneRange(start, end int) (Rect, bool) {
	var out Rect
	have := false
	pos := 0
	for si := range l.Spans {
		sp := &l.Spans[si]
		n := len(sp.offsets) - 1
		if n <= 0 {
			continue
		}
		lo, hi := start-pos, end-pos
		pos += n
		if hi <= 0 || lo >= n {
			continue
		}
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		r := Rect{
			X0: sp.offsets[lo],
			Y0: sp.Rect.Y0,
			X1: sp.offsets[hi],
			Y1: sp.Rect.Y1,
		}.Norm()
		if have {
			out = out.Union(r)
		} else {
			out = r
			have = true
		}
	}
	return out, have
}
