// extract.go walks page content streams and assembles positioned text (PRT-5).
//
// The walker tracks the graphics and text state machines far enough to place
// every shown glyph in top-down page coordinates. Glyph runs sharing a style
// and baseline merge into spans, spans group into lines, lines into blocks.
package pdfdoc

import (
	"math"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Approximate vertical extents for span boxes, in em.
const (
	ascentRatio  = 0.8
	descentRatio = 0.2
)

// ColorUnset marks a fill that cannot be expressed as packed RGB, such as
// patterns or unresolved colorspaces.
const ColorUnset = -1

// Span is a run of text sharing one font, size, and fill color.
type Span struct {
	Text  string
	Rect  Rect
	Size  float64
	Color int
	Flags int
	Font  string

	baseline float64
	render   int
	// offsets holds the device x of each rune's left edge plus one final
	// entry for the right edge of the last rune.
	offsets []float64
}

// Line is a row of spans sharing a baseline.
type Line struct {
	Spans []Span
	Rect  Rect

	baseline float64
}

// Text returns the concatenated span text of the line.
func (l *Line) Text() string {
	var sb strings.Builder
	for i := range l.Spans {
		sb.WriteString(l.Spans[i].Text)
	}
	return sb.String()
}

// Block is a group of lines forming a paragraph-like unit.
type Block struct {
	Lines []Line
	Rect  Rect
}

// TextPage is the positioned text of one page.
type TextPage struct {
	Blocks []Block
}

// ExtractText interprets the page's content stream and returns its text
// layout. The result is cached until the page is edited.
func (p *Page) ExtractText() *TextPage {
	if p.text != nil {
		return p.text
	}
	w := &textWalker{
		doc:  p.doc,
		page: p,
	}
	w.gs.ctm = Matrix{1, 0, 0, -1, -p.mediaBox[0], p.mediaBox[3]}
	w.gs.fill = 0
	w.gs.scale = 100
	w.fonts = p.fonts
	w.curRes = p.res
	w.run(ParseOps(p.content))
	w.finishSpan()
	p.text = buildTextPage(w.spans)
	return p.text
}

type graphicsState struct {
	ctm    Matrix
	fill   int
	fillCS string

	clip    Rect
	hasClip bool

	font     *Font
	fontName string
	size     float64
	charSp   float64
	wordSp   float64
	leading  float64
	rise     float64
	scale    float64
	render   int
}

// walkHooks receives paint events in content-stream order, letting the
// rasterizer draw fills and text with correct stacking.
type walkHooks interface {
	fillRect(r Rect, color int, clip Rect, hasClip bool)
	span(s Span, clip Rect, hasClip bool)
}

type textWalker struct {
	doc    *Document
	page   *Page
	gs     graphicsState
	stack  []graphicsState
	fonts  map[string]*Font
	curRes types.Dict
	hooks  walkHooks

	inText  bool
	tm, tlm Matrix

	// path collects `re` rectangles in device coordinates until the next
	// path-painting operator. Curved or polygonal subpaths are not painted.
	path        []Rect
	pendingClip bool

	spans []Span
	cur   *spanBuilder
	depth int
}

type spanBuilder struct {
	font     string
	size     float64
	color    int
	flags    int
	render   int
	runes    []rune
	offsets  []float64
	baseline float64
	top      float64
	bottom   float64
}

func (w *textWalker) run(ops []Op) {
	for i := range ops {
		w.exec(&ops[i])
	}
}

func (w *textWalker) exec(op *Op) {
	switch op.Name {
	case "q":
		w.stack = append(w.stack, w.gs)
	case "Q":
		if n := len(w.stack); n > 0 {
			w.finishSpan()
			w.gs = w.stack[n-1]
			w.stack = w.stack[:n-1]
		}
	case "cm":
		if m, ok := matrixArgs(op.Args); ok {
			w.gs.ctm = m.Mul(w.gs.ctm)
		}

	case "BT":
		w.inText = true
		w.tm = IdentityMatrix
		w.tlm = IdentityMatrix
	case "ET":
		w.finishSpan()
		w.inText = false

	case "Tf":
		w.finishSpan()
		if len(op.Args) == 2 {
			if name, ok := op.Args[0].(Name); ok {
				w.gs.fontName = string(name)
				w.gs.font = w.fonts[string(name)]
			}
			w.gs.size = numArg(op.Args, 1)
		}
	case "Tc":
		w.gs.charSp = numArg(op.Args, 0)
	case "Tw":
		w.gs.wordSp = numArg(op.Args, 0)
	case "Tz":
		w.gs.scale = numArg(op.Args, 0)
	case "TL":
		w.gs.leading = numArg(op.Args, 0)
	case "Ts":
		w.gs.rise = numArg(op.Args, 0)
	case "Tr":
		w.gs.render = int(numArg(op.Args, 0))

	case "Td":
		w.translateLine(numArg(op.Args, 0), numArg(op.Args, 1))
	case "TD":
		w.gs.leading = -numArg(op.Args, 1)
		w.translateLine(numArg(op.Args, 0), numArg(op.Args, 1))
	case "Tm":
		if m, ok := matrixArgs(op.Args); ok {
			w.tm = m
			w.tlm = m
		}
	case "T*":
		w.translateLine(0, -w.gs.leading)

	case "Tj":
		if s, ok := stringArg(op.Args); ok {
			w.showBytes(s)
		}
	case "'":
		w.translateLine(0, -w.gs.leading)
		if s, ok := stringArg(op.Args); ok {
			w.showBytes(s)
		}
	case "\"":
		if len(op.Args) == 3 {
			w.gs.wordSp = numArg(op.Args, 0)
			w.gs.charSp = numArg(op.Args, 1)
			w.translateLine(0, -w.gs.leading)
			if s, ok := op.Args[2].(String); ok {
				w.showBytes(s)
			}
		}
	case "TJ":
		if len(op.Args) == 1 {
			if arr, ok := op.Args[0].(Array); ok {
				w.showArray(arr)
			}
		}

	case "rg":
		w.setFill(packRGB(numArg(op.Args, 0), numArg(op.Args, 1), numArg(op.Args, 2)))
	case "g":
		v := numArg(op.Args, 0)
		w.setFill(packRGB(v, v, v))
	case "k":
		w.setFill(packCMYK(numArg(op.Args, 0), numArg(op.Args, 1), numArg(op.Args, 2), numArg(op.Args, 3)))
	case "cs":
		if n, ok := firstName(op.Args); ok {
			w.gs.fillCS = n
		}
	case "sc", "scn":
		w.setFill(colorFromOperands(op.Args))

	case "re":
		if len(op.Args) == 4 {
			x, y := numArg(op.Args, 0), numArg(op.Args, 1)
			rw, rh := numArg(op.Args, 2), numArg(op.Args, 3)
			r := w.gs.ctm.TransformRect(Rect{X0: x, Y0: y, X1: x + rw, Y1: y + rh})
			w.path = append(w.path, r)
		}
	case "W", "W*":
		w.pendingClip = true
	case "f", "F", "f*", "B", "B*", "b", "b*":
		w.paintPath(true)
	case "S", "s", "n":
		w.paintPath(false)

	case "Do":
		if n, ok := firstName(op.Args); ok {
			w.runXObject(n)
		}
	}
}

// paintPath finishes the current path: applies a pending clip, emits fill
// events when the operator fills, and clears the path.
func (w *textWalker) paintPath(fills bool) {
	if w.pendingClip {
		w.pendingClip = false
		var bbox Rect
		for i, r := range w.path {
			if i == 0 {
				bbox = r
			} else {
				bbox = bbox.Union(r)
			}
		}
		if len(w.path) > 0 {
			if w.gs.hasClip {
				w.gs.clip = w.gs.clip.Intersect(bbox)
			} else {
				w.gs.clip = bbox
				w.gs.hasClip = true
			}
		}
	}
	if fills && w.hooks != nil {
		for _, r := range w.path {
			w.hooks.fillRect(r, w.gs.fill, w.gs.clip, w.gs.hasClip)
		}
	}
	w.path = w.path[:0]
}

// translateLine starts a new text line at an offset from the current one.
func (w *textWalker) translateLine(tx, ty float64) {
	w.tlm = Matrix{1, 0, 0, 1, tx, ty}.Mul(w.tlm)
	w.tm = w.tlm
}

func (w *textWalker) setFill(c int) {
	if c != w.gs.fill {
		w.finishSpan()
		w.gs.fill = c
	}
}

func (w *textWalker) showArray(arr Array) {
	for _, el := range arr {
		switch v := el.(type) {
		case String:
			w.showBytes(v)
		case float64:
			tx := -v / 1000 * w.gs.size * w.gs.scale / 100
			w.tm[4] += tx * w.tm[0]
			w.tm[5] += tx * w.tm[1]
		}
	}
}

func (w *textWalker) showBytes(b []byte) {
	f := w.gs.font
	if f == nil || !w.inText {
		return
	}
	for _, dc := range f.Decode(b) {
		w.showChar(f, dc)
	}
}

func (w *textWalker) showChar(f *Font, dc DecodedChar) {
	tmCtm := w.tm.Mul(w.gs.ctm)
	penX, penY := tmCtm.Apply(0, w.gs.rise)
	sizeDev := w.gs.size * math.Hypot(tmCtm[2], tmCtm[3])

	adv := (dc.Width/1000*w.gs.size + w.gs.charSp) * w.gs.scale / 100
	if dc.R == ' ' {
		adv += w.gs.wordSp * w.gs.scale / 100
	}
	endX := penX + adv*tmCtm[0]

	if !w.continueSpan(f, sizeDev, penX, penY) {
		w.finishSpan()
		w.cur = &spanBuilder{
			font:     f.BaseFont,
			size:     sizeDev,
			color:    w.gs.fill,
			flags:    f.Flags(),
			render:   w.gs.render,
			baseline: penY,
			top:      penY - ascentRatio*sizeDev,
			bottom:   penY + descentRatio*sizeDev,
			offsets:  []float64{penX},
		}
	}
	cur := w.cur
	if last := cur.offsets[len(cur.offsets)-1]; penX-last > gapTolerance(sizeDev) {
		// Positioning jumped by roughly a word gap; keep the run together
		// with a synthesized space.
		cur.runes = append(cur.runes, ' ')
		cur.offsets = append(cur.offsets, penX)
	}
	cur.runes = append(cur.runes, dc.R)
	cur.offsets = append(cur.offsets, endX)
	if top := penY - ascentRatio*sizeDev; top < cur.top {
		cur.top = top
	}
	if bottom := penY + descentRatio*sizeDev; bottom > cur.bottom {
		cur.bottom = bottom
	}

	w.tm[4] += adv * w.tm[0]
	w.tm[5] += adv * w.tm[1]
}

func gapTolerance(sizeDev float64) float64 {
	return math.Max(0.15*sizeDev, 0.3)
}

// continueSpan reports whether the next glyph extends the current span:
// same style, same baseline, and a pen position close to where the span
// left off.
func (w *textWalker) continueSpan(f *Font, sizeDev, penX, penY float64) bool {
	cur := w.cur
	if cur == nil {
		return false
	}
	if cur.font != f.BaseFont || cur.color != w.gs.fill || cur.flags != f.Flags() {
		return false
	}
	if math.Abs(cur.size-sizeDev) > 0.01 {
		return false
	}
	if math.Abs(cur.baseline-penY) > 0.1*sizeDev+0.1 {
		return false
	}
	last := cur.offsets[len(cur.offsets)-1]
	gap := penX - last
	return gap > -0.05*sizeDev-0.1 && gap < 1.1*sizeDev
}

func (w *textWalker) finishSpan() {
	cur := w.cur
	w.cur = nil
	if cur == nil || len(cur.runes) == 0 {
		return
	}
	x0 := cur.offsets[0]
	x1 := cur.offsets[len(cur.offsets)-1]
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	s := Span{
		Text:     string(cur.runes),
		Rect:     Rect{X0: x0, Y0: cur.top, X1: x1, Y1: cur.bottom},
		Size:     cur.size,
		Color:    cur.color,
		Flags:    cur.flags,
		Font:     cur.font,
		baseline: cur.baseline,
		render:   cur.render,
		offsets:  cur.offsets,
	}
	if w.hooks != nil {
		w.hooks.span(s, w.gs.clip, w.gs.hasClip)
		return
	}
	w.spans = append(w.spans, s)
}

// runXObject recurses into a form XObject with its own matrix and resource
// context. Images are ignored.
func (w *textWalker) runXObject(name string) {
	if w.depth >= 8 {
		return
	}
	sd, err := w.doc.xObject(w.curRes, name)
	if err != nil {
		return
	}
	if sub, ok := derefName(w.doc.ctx, sd.Dict["Subtype"]); !ok || sub != "Form" {
		return
	}
	if err := sd.Decode(); err != nil {
		return
	}

	savedGS := w.gs
	savedStack := len(w.stack)
	savedFonts := w.fonts
	savedRes := w.curRes

	if m, ok := formMatrix(w.doc, sd.Dict); ok {
		w.gs.ctm = m.Mul(w.gs.ctm)
	}
	if res, err := w.doc.ctx.DereferenceDict(sd.Dict["Resources"]); err == nil && res != nil {
		w.curRes = res
		w.fonts = loadFonts(w.doc.ctx, res)
	}

	w.depth++
	w.run(ParseOps(sd.Content))
	w.finishSpan()
	w.depth--

	w.gs = savedGS
	w.stack = w.stack[:savedStack]
	w.fonts = savedFonts
	w.curRes = savedRes
}

// formMatrix reads a form XObject's /Matrix entry.
func formMatrix(doc *Document, d types.Dict) (Matrix, bool) {
	arr, ok := derefArray(doc.ctx, d["Matrix"])
	if !ok || len(arr) != 6 {
		return IdentityMatrix, false
	}
	var m Matrix
	for i, o := range arr {
		v, ok := derefFloat(doc.ctx, o)
		if !ok {
			return IdentityMatrix, false
		}
		m[i] = v
	}
	return m, true
}

// Operand helpers.

func numArg(args []Value, i int) float64 {
	if i < len(args) {
		if f, ok := args[i].(float64); ok {
			return f
		}
	}
	return 0
}

func matrixArgs(args []Value) (Matrix, bool) {
	if len(args) != 6 {
		return IdentityMatrix, false
	}
	var m Matrix
	for i := range m {
		f, ok := args[i].(float64)
		if !ok {
			return IdentityMatrix, false
		}
		m[i] = f
	}
	return m, true
}

// stringArg returns the string operand of a text-showing operator. It reads
// the last argument so stray extra operands before the string are ignored.
func stringArg(args []Value) ([]byte, bool) {
	if len(args) > 0 {
		if s, ok := args[len(args)-1].(String); ok {
			return s, true
		}
	}
	return nil, false
}

func firstName(args []Value) (string, bool) {
	if len(args) > 0 {
		if n, ok := args[0].(Name); ok {
			return string(n), true
		}
	}
	return "", false
}

func packRGB(r, g, b float64) int {
	return clamp255(r)<<16 | clamp255(g)<<8 | clamp255(b)
}

func packCMYK(c, m, y, k float64) int {
	return packRGB((1-c)*(1-k), (1-m)*(1-k), (1-y)*(1-k))
}

func clamp255(v float64) int {
	n := int(math.Round(v * 255))
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

// colorFromOperands interprets sc/scn by operand count: gray, RGB, or CMYK.
// Pattern names and anything else map to ColorUnset.
func colorFromOperands(args []Value) int {
	nums := make([]float64, 0, 4)
	for _, a := range args {
		switch v := a.(type) {
		case float64:
			nums = append(nums, v)
		case Name:
			return ColorUnset
		}
	}
	switch len(nums) {
	case 1:
		return packRGB(nums[0], nums[0], nums[0])
	case 3:
		return packRGB(nums[0], nums[1], nums[2])
	case 4:
		return packCMYK(nums[0], nums[1], nums[2], nums[3])
	}
	return ColorUnset
}

// buildTextPage groups raw spans into lines by baseline, then lines into
// blocks by vertical proximity, in reading order.
func buildTextPage(spans []Span) *TextPage {
	tp := &TextPage{}
	if len(spans) == 0 {
		return tp
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].baseline != spans[j].baseline {
			return spans[i].baseline < spans[j].baseline
		}
		return spans[i].Rect.X0 < spans[j].Rect.X0
	})

	var lines []Line
	for _, s := range spans {
		tol := math.Max(1.0, 0.3*s.Size)
		if n := len(lines); n > 0 && math.Abs(lines[n-1].baseline-s.baseline) <= tol {
			lines[n-1].Spans = append(lines[n-1].Spans, s)
			lines[n-1].Rect = lines[n-1].Rect.Union(s.Rect)
			continue
		}
		lines = append(lines, Line{Spans: []Span{s}, Rect: s.Rect, baseline: s.baseline})
	}
	for i := range lines {
		sort.SliceStable(lines[i].Spans, func(a, b int) bool {
			return lines[i].Spans[a].Rect.X0 < lines[i].Spans[b].Rect.X0
		})
	}

	var blk Block
	for i, ln := range lines {
		if i > 0 {
			gap := ln.baseline - lines[i-1].baseline
			limit := 1.6 * math.Max(avgSize(ln.Spans), avgSize(lines[i-1].Spans))
			if gap > limit {
				tp.Blocks = append(tp.Blocks, blk)
				blk = Block{}
			}
		}
		blk.Lines = append(blk.Lines, ln)
		blk.Rect = blk.Rect.Union(ln.Rect)
	}
	if len(blk.Lines) > 0 {
		tp.Blocks = append(tp.Blocks, blk)
	}
	return tp
}

func avgSize(spans []Span) float64 {
	if len(spans) == 0 {
		return 0
	}
	var sum float64
	for i := range spans {
		sum += spans[i].Size
	}
	return sum / float64(len(spans))
}
